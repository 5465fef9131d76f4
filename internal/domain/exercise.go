package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Exercise represents a move in the library. Seeded exercises are global
// (CreatedBy unset); user-created ones belong to their creator.
type Exercise struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	MuscleGroup   string     `json:"muscle_group"` // e.g., "legs", "chest"
	EquipmentType *string    `json:"equipment_type"`
	IsCompound    bool       `json:"is_compound"`
	CreatedBy     *uuid.UUID `json:"-"`
	IsGlobal      bool       `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ExerciseRepository interface {
	Create(ctx context.Context, exercise *Exercise) error
	GetByID(ctx context.Context, id uuid.UUID) (*Exercise, error)
	// ListGlobal returns global exercises ordered by name, optionally
	// filtered by a case-insensitive substring match on the name.
	ListGlobal(ctx context.Context, search string) ([]*Exercise, error)
	GetByName(ctx context.Context, name string) (*Exercise, error)
}
