package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ExerciseStats summarises a user's lifetime history with one exercise.
// Pointer fields are null in the response when the user has no sets.
type ExerciseStats struct {
	Estimated1RM    *float64 `json:"estimated_1rm"`
	MaxWeightKg     *float64 `json:"max_weight_kg"`
	TotalVolumeKg   *float64 `json:"total_volume_kg"`
	TotalSets       int      `json:"total_sets"`
	SessionsCount   int      `json:"sessions_count"`
	LastSessionDate *string  `json:"last_session_date"`
}

// UserOverview summarises a user's training across all exercises.
type UserOverview struct {
	TotalWorkouts     int     `json:"total_workouts"`
	TotalSets         int     `json:"total_sets"`
	TotalVolumeKg     float64 `json:"total_volume_kg"`
	MostTrainedMuscle *string `json:"most_trained_muscle"`
	FavouriteExercise *string `json:"favourite_exercise"`
	ActiveStreakDays  int     `json:"active_streak_days"`
}

// ExerciseAggregates is the raw single-row aggregation behind ExerciseStats.
type ExerciseAggregates struct {
	MaxWeightKg   *float64
	TotalVolumeKg float64
	TotalSets     int
	SessionsCount int
	LastLoggedAt  *time.Time
}

// OverviewAggregates is the raw material behind UserOverview. WorkoutDates
// holds the distinct calendar dates of ended workouts.
type OverviewAggregates struct {
	TotalWorkouts     int
	TotalSets         int
	TotalVolumeKg     float64
	MostTrainedMuscle *string
	FavouriteExercise *string
	WorkoutDates      []time.Time
}

type StatsRepository interface {
	GetExerciseAggregates(ctx context.Context, userID, exerciseID uuid.UUID) (*ExerciseAggregates, error)
	// GetBestSetReps returns the rep count of the user's heaviest set for the
	// exercise (highest reps on ties), or nil when no sets exist
	GetBestSetReps(ctx context.Context, userID, exerciseID uuid.UUID) (*int, error)
	GetOverviewAggregates(ctx context.Context, userID uuid.UUID) (*OverviewAggregates, error)
}
