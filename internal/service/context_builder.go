package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/liftwise/coach/internal/domain"
)

// recentSetsWindow bounds the history scan used for grouping recent
// sessions and estimating 1RM.
const recentSetsWindow = 60

// ContextBuilder assembles the WorkoutContext consumed by the AI prompt and
// the rule engine. All reads run on the caller's transaction so the set
// logged earlier in the request is visible.
type ContextBuilder struct {
	exercises domain.ExerciseRepository
	workouts  domain.WorkoutRepository
	sets      domain.SetRepository
}

func NewContextBuilder(exercises domain.ExerciseRepository, workouts domain.WorkoutRepository, sets domain.SetRepository) *ContextBuilder {
	return &ContextBuilder{exercises: exercises, workouts: workouts, sets: sets}
}

// Build loads everything the recommendation pipeline needs for one exercise
// in one workout. Fails with domain.ErrNotFound when the exercise or
// workout is missing and domain.ErrForbidden when the workout belongs to
// another user.
func (b *ContextBuilder) Build(ctx context.Context, workoutID, exerciseID, userID uuid.UUID) (*domain.WorkoutContext, error) {
	exercise, err := b.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	workout, err := b.workouts.GetByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if workout.UserID != userID {
		return nil, domain.ErrForbidden
	}

	currentSets, err := b.sets.GetForWorkoutAndExercise(ctx, workoutID, exerciseID)
	if err != nil {
		return nil, err
	}
	currentSummaries := make([]domain.SetSummary, 0, len(currentSets))
	for _, s := range currentSets {
		currentSummaries = append(currentSummaries, domain.SetSummary{
			Weight:    s.WeightKg,
			Reps:      s.Reps,
			RPE:       s.RPE,
			SetNumber: s.SetNumber,
		})
	}

	recentSets, err := b.sets.GetRecentForExercise(ctx, userID, exerciseID, recentSetsWindow)
	if err != nil {
		return nil, err
	}

	recentSessions, err := b.groupRecentSessions(ctx, recentSets, workoutID)
	if err != nil {
		return nil, err
	}

	var estimated1RM *float64
	if len(recentSets) > 0 {
		best := 0.0
		for _, s := range recentSets {
			if v := epley1RM(s.WeightKg, s.Reps); v > best {
				best = v
			}
		}
		rounded := math.Round(best*100) / 100
		estimated1RM = &rounded
	}

	maxWeightEver, err := b.sets.GetMaxWeightForExercise(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}

	totalSetsToday, err := b.sets.CountInWorkout(ctx, workoutID)
	if err != nil {
		return nil, err
	}

	minutes := int(time.Since(workout.StartedAt).Seconds() / 60)
	if minutes < 0 {
		minutes = 0
	}

	return &domain.WorkoutContext{
		ExerciseName:           exercise.Name,
		MuscleGroup:            exercise.MuscleGroup,
		EquipmentType:          exercise.EquipmentType,
		IsCompound:             exercise.IsCompound,
		CurrentSessionSets:     currentSummaries,
		RecentSessions:         recentSessions,
		Estimated1RM:           estimated1RM,
		MaxWeightEver:          maxWeightEver,
		TotalSetsToday:         totalSetsToday,
		WorkoutDurationMinutes: minutes,
	}, nil
}

// groupRecentSessions buckets the recent sets by workout in first-seen order
// (most recent first, the current workout excluded) and keeps the first
// three sessions.
func (b *ContextBuilder) groupRecentSessions(ctx context.Context, recentSets []*domain.Set, currentWorkoutID uuid.UUID) ([]domain.SessionSummary, error) {
	setsByWorkout := make(map[uuid.UUID][]*domain.Set)
	for _, s := range recentSets {
		setsByWorkout[s.WorkoutID] = append(setsByWorkout[s.WorkoutID], s)
	}

	var seenOrder []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, s := range recentSets {
		if s.WorkoutID == currentWorkoutID || seen[s.WorkoutID] {
			continue
		}
		seen[s.WorkoutID] = true
		seenOrder = append(seenOrder, s.WorkoutID)
	}
	if len(seenOrder) > 3 {
		seenOrder = seenOrder[:3]
	}
	if len(seenOrder) == 0 {
		return nil, nil
	}

	workouts, err := b.workouts.GetManyByID(ctx, seenOrder)
	if err != nil {
		return nil, err
	}
	startedAt := make(map[uuid.UUID]time.Time, len(workouts))
	for _, w := range workouts {
		startedAt[w.ID] = w.StartedAt
	}

	sessions := make([]domain.SessionSummary, 0, len(seenOrder))
	for _, wid := range seenOrder {
		sessionSets := setsByWorkout[wid]
		if len(sessionSets) == 0 {
			continue
		}
		date := ""
		if t, ok := startedAt[wid]; ok {
			date = t.Format("2006-01-02")
		}
		summaries := make([]domain.SetSummary, 0, len(sessionSets))
		for _, s := range sessionSets {
			summaries = append(summaries, domain.SetSummary{
				Weight: s.WeightKg,
				Reps:   s.Reps,
				RPE:    s.RPE,
			})
		}
		sessions = append(sessions, domain.SessionSummary{Date: date, Sets: summaries})
	}
	return sessions, nil
}

// epley1RM estimates a one-rep max: weight · (1 + reps/30).
func epley1RM(weightKg float64, reps int) float64 {
	return weightKg * (1 + float64(reps)/30)
}
