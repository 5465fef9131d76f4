package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Workout is one training session. It is active until EndedAt is set and
// closed afterwards; closed workouts reject further set inserts.
type Workout struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Name      *string    `json:"name"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	Notes     *string    `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsActive reports whether the workout still accepts sets.
func (w *Workout) IsActive() bool {
	return w.EndedAt == nil
}

type WorkoutRepository interface {
	Create(ctx context.Context, workout *Workout) error
	GetByID(ctx context.Context, id uuid.UUID) (*Workout, error)
	// ListByUser returns the user's workouts ordered by started_at descending.
	ListByUser(ctx context.Context, userID uuid.UUID, skip, limit int) ([]*Workout, error)
	// GetManyByID loads workouts in bulk for recent-session date lookup.
	GetManyByID(ctx context.Context, ids []uuid.UUID) ([]*Workout, error)
	Update(ctx context.Context, workout *Workout) error
}
