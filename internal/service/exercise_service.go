package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/liftwise/coach/internal/domain"
)

// ExerciseService manages the exercise library
type ExerciseService struct {
	exercises domain.ExerciseRepository
}

// NewExerciseService creates a new exercise service
func NewExerciseService(exercises domain.ExerciseRepository) *ExerciseService {
	return &ExerciseService{exercises: exercises}
}

// ExerciseCreateInput contains the fields for a user-created exercise
type ExerciseCreateInput struct {
	Name          string
	MuscleGroup   string
	EquipmentType *string
	IsCompound    bool
}

// Create adds a private exercise owned by the caller. Seeded global
// exercises come from the seed command, never from the API.
func (s *ExerciseService) Create(ctx context.Context, userID uuid.UUID, in ExerciseCreateInput) (*domain.Exercise, error) {
	exercise := &domain.Exercise{
		Name:          in.Name,
		MuscleGroup:   in.MuscleGroup,
		EquipmentType: in.EquipmentType,
		IsCompound:    in.IsCompound,
		CreatedBy:     &userID,
		IsGlobal:      false,
	}
	if err := s.exercises.Create(ctx, exercise); err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}
	return exercise, nil
}

// Get fetches an exercise by id
func (s *ExerciseService) Get(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	return s.exercises.GetByID(ctx, id)
}

// List returns global exercises ordered by name, optionally filtered by a
// case-insensitive name search
func (s *ExerciseService) List(ctx context.Context, search string) ([]*domain.Exercise, error) {
	return s.exercises.ListGlobal(ctx, search)
}
