package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/liftwise/coach/internal/domain"
)

// StatsService assembles read-only training aggregates. All the heavy
// lifting happens in SQL; only the streak walk runs here.
type StatsService struct {
	stats domain.StatsRepository
}

// NewStatsService creates a new stats service
func NewStatsService(stats domain.StatsRepository) *StatsService {
	return &StatsService{stats: stats}
}

// ExerciseStats aggregates the user's lifetime history with one exercise.
// The estimated 1RM is Epley at the heaviest set: weight * (1 + reps/30),
// rounded to two decimals. With no sets every pointer field stays nil.
func (s *StatsService) ExerciseStats(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.ExerciseStats, error) {
	agg, err := s.stats.GetExerciseAggregates(ctx, userID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate exercise stats: %w", err)
	}

	stats := &domain.ExerciseStats{}
	if agg.TotalSets == 0 {
		return stats, nil
	}

	stats.MaxWeightKg = agg.MaxWeightKg
	volume := agg.TotalVolumeKg
	stats.TotalVolumeKg = &volume
	stats.TotalSets = agg.TotalSets
	stats.SessionsCount = agg.SessionsCount
	if agg.LastLoggedAt != nil {
		date := agg.LastLoggedAt.UTC().Format("2006-01-02")
		stats.LastSessionDate = &date
	}

	reps, err := s.stats.GetBestSetReps(ctx, userID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch best set: %w", err)
	}
	if agg.MaxWeightKg != nil && reps != nil {
		oneRM := math.Round(*agg.MaxWeightKg*(1+float64(*reps)/30)*100) / 100
		stats.Estimated1RM = &oneRM
	}

	return stats, nil
}

// Overview summarises the user's training across all exercises
func (s *StatsService) Overview(ctx context.Context, userID uuid.UUID) (*domain.UserOverview, error) {
	agg, err := s.stats.GetOverviewAggregates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate overview: %w", err)
	}

	return &domain.UserOverview{
		TotalWorkouts:     agg.TotalWorkouts,
		TotalSets:         agg.TotalSets,
		TotalVolumeKg:     agg.TotalVolumeKg,
		MostTrainedMuscle: agg.MostTrainedMuscle,
		FavouriteExercise: agg.FavouriteExercise,
		ActiveStreakDays:  activeStreak(agg.WorkoutDates, time.Now().UTC()),
	}, nil
}

// activeStreak counts consecutive training days walking back from today.
// A day counts when at least one workout ended on it.
func activeStreak(dates []time.Time, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	trained := make(map[string]bool, len(dates))
	for _, d := range dates {
		trained[d.Format("2006-01-02")] = true
	}

	streak := 0
	for d := today; trained[d.Format("2006-01-02")]; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}
