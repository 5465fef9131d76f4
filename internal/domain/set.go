package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Set is one logged set of an exercise within a workout. SetNumber is a
// 1-based ordinal per (workout, exercise); deletion may leave gaps, there is
// no renumbering.
type Set struct {
	ID         uuid.UUID `json:"id"`
	WorkoutID  uuid.UUID `json:"workout_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	UserID     uuid.UUID `json:"user_id"`
	SetNumber  int       `json:"set_number"`
	WeightKg   float64   `json:"weight_kg"`
	Reps       int       `json:"reps"`
	RPE        *float64  `json:"rpe"`
	IsWarmup   bool      `json:"is_warmup"`
	LoggedAt   time.Time `json:"logged_at"`
	CreatedAt  time.Time `json:"created_at"`
}

type SetRepository interface {
	// Create inserts the set and fills server-generated fields (id, logged_at, created_at)
	Create(ctx context.Context, set *Set) error
	GetByID(ctx context.Context, id uuid.UUID) (*Set, error)
	// GetForWorkout returns all sets of a workout ordered by set_number
	GetForWorkout(ctx context.Context, workoutID uuid.UUID) ([]*Set, error)
	// GetForWorkoutAndExercise returns the current-session sets ordered by set_number
	GetForWorkoutAndExercise(ctx context.Context, workoutID, exerciseID uuid.UUID) ([]*Set, error)
	// GetRecentForExercise returns the user's most recent sets for an exercise,
	// ordered by logged_at descending, capped at limit
	GetRecentForExercise(ctx context.Context, userID, exerciseID uuid.UUID, limit int) ([]*Set, error)
	CountInWorkout(ctx context.Context, workoutID uuid.UUID) (int, error)
	// GetMaxWeightForExercise returns the heaviest weight the user has ever
	// logged for the exercise, or nil when no sets exist
	GetMaxWeightForExercise(ctx context.Context, userID, exerciseID uuid.UUID) (*float64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
