package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/liftwise/coach/internal/domain"
)

// WorkoutCreateInput holds the optional fields of a new workout.
type WorkoutCreateInput struct {
	Name  *string
	Notes *string
}

// WorkoutUpdateInput holds the mutable workout fields; nil fields are left
// untouched.
type WorkoutUpdateInput struct {
	Name  *string
	Notes *string
}

// WorkoutService owns the workout lifecycle. Every accessor enforces that
// callers only see their own workouts.
type WorkoutService struct {
	workouts domain.WorkoutRepository
}

func NewWorkoutService(workouts domain.WorkoutRepository) *WorkoutService {
	return &WorkoutService{workouts: workouts}
}

// Start opens a new workout stamped with the current time.
func (s *WorkoutService) Start(ctx context.Context, userID uuid.UUID, input WorkoutCreateInput) (*domain.Workout, error) {
	workout := &domain.Workout{
		UserID:    userID,
		Name:      input.Name,
		Notes:     input.Notes,
		StartedAt: time.Now().UTC(),
	}
	if err := s.workouts.Create(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

// End stamps ended_at. ended_at is write-once: ending an already-closed
// workout fails with domain.ErrWorkoutClosed.
func (s *WorkoutService) End(ctx context.Context, workoutID, userID uuid.UUID) (*domain.Workout, error) {
	workout, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if workout.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if !workout.IsActive() {
		return nil, domain.ErrWorkoutClosed
	}

	now := time.Now().UTC()
	workout.EndedAt = &now
	if err := s.workouts.Update(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

// Get returns one workout owned by the user.
func (s *WorkoutService) Get(ctx context.Context, workoutID, userID uuid.UUID) (*domain.Workout, error) {
	workout, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if workout.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return workout, nil
}

// List returns the user's workouts, most recently started first.
func (s *WorkoutService) List(ctx context.Context, userID uuid.UUID, skip, limit int) ([]*domain.Workout, error) {
	return s.workouts.ListByUser(ctx, userID, skip, limit)
}

// Update changes name and notes on a workout the user owns.
func (s *WorkoutService) Update(ctx context.Context, workoutID, userID uuid.UUID, input WorkoutUpdateInput) (*domain.Workout, error) {
	workout, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if workout.UserID != userID {
		return nil, domain.ErrForbidden
	}

	if input.Name == nil && input.Notes == nil {
		return workout, nil
	}
	if input.Name != nil {
		workout.Name = input.Name
	}
	if input.Notes != nil {
		workout.Notes = input.Notes
	}
	if err := s.workouts.Update(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}
