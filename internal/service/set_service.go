package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/liftwise/coach/internal/ai"
	"github.com/liftwise/coach/internal/domain"
)

// aiTimeout bounds the provider call inside a log-set request. Exceeding it
// fails like any other provider error and hands over to the rule engine.
const aiTimeout = 15 * time.Second

// SetCreateInput carries the client-supplied fields of a set to log.
type SetCreateInput struct {
	ExerciseID uuid.UUID
	WeightKg   float64
	Reps       int
	RPE        *float64
	IsWarmup   bool
}

// SetWithRecommendation pairs a stored set with the recommendation attached
// to it. Recommendation is nil for warmup sets.
type SetWithRecommendation struct {
	Set            *domain.Set                   `json:"set"`
	Recommendation *domain.RecommendationPayload `json:"recommendation"`
}

// SetService logs sets, drives the recommendation pipeline and guards set
// reads and deletes with ownership checks.
type SetService struct {
	tx       domain.TxRunner
	workouts domain.WorkoutRepository
	sets     domain.SetRepository
	recs     domain.RecommendationRepository
	builder  *ContextBuilder
	provider ai.Provider
}

func NewSetService(
	tx domain.TxRunner,
	workouts domain.WorkoutRepository,
	sets domain.SetRepository,
	recs domain.RecommendationRepository,
	builder *ContextBuilder,
	provider ai.Provider,
) *SetService {
	return &SetService{
		tx:       tx,
		workouts: workouts,
		sets:     sets,
		recs:     recs,
		builder:  builder,
		provider: provider,
	}
}

// LogSet inserts a set into an active workout and, unless it is a warmup,
// attaches exactly one recommendation: the AI provider's answer when it
// arrives in time, otherwise the rule engine's. Set and recommendation are
// committed together or not at all.
func (s *SetService) LogSet(ctx context.Context, workoutID uuid.UUID, input SetCreateInput, userID uuid.UUID) (*SetWithRecommendation, error) {
	var result *SetWithRecommendation

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		workout, err := s.workouts.GetByID(ctx, workoutID)
		if err != nil {
			return err
		}
		if workout.UserID != userID {
			return domain.ErrForbidden
		}
		if !workout.IsActive() {
			return domain.ErrWorkoutClosed
		}

		currentSets, err := s.sets.GetForWorkoutAndExercise(ctx, workoutID, input.ExerciseID)
		if err != nil {
			return err
		}

		set := &domain.Set{
			WorkoutID:  workoutID,
			ExerciseID: input.ExerciseID,
			UserID:     userID,
			SetNumber:  len(currentSets) + 1,
			WeightKg:   input.WeightKg,
			Reps:       input.Reps,
			RPE:        input.RPE,
			IsWarmup:   input.IsWarmup,
		}
		if err := s.sets.Create(ctx, set); err != nil {
			return err
		}

		result = &SetWithRecommendation{Set: set}
		if input.IsWarmup {
			return nil
		}

		rec := s.recommend(ctx, workout, set)
		if err := s.recs.Create(ctx, rec); err != nil {
			return err
		}
		result.Recommendation = rec.Payload()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// recommend builds the recommendation row for a freshly logged set.
// Provider errors never propagate: they downgrade to the rule engine, and a
// failed context build downgrades further to the minimal fallback.
func (s *SetService) recommend(ctx context.Context, workout *domain.Workout, set *domain.Set) *domain.Recommendation {
	rec := &domain.Recommendation{
		UserID:     set.UserID,
		WorkoutID:  workout.ID,
		ExerciseID: set.ExerciseID,
		SetID:      &set.ID,
		Confidence: domain.ConfidenceLow,
		AIProvider: "fallback",
		ModelUsed:  "rule-based",
		LatencyMs:  0,
	}

	wc, err := s.builder.Build(ctx, workout.ID, set.ExerciseID, set.UserID)
	if err != nil {
		log.Printf("[Sets] context build failed: %v", err)
		rec.RecommendedWeight, rec.RecommendedReps, rec.Explanation =
			MinimalFallback(set.WeightKg, set.Reps, set.RPE)
		return rec
	}

	aiCtx, cancel := context.WithTimeout(ctx, aiTimeout)
	defer cancel()

	aiRec, err := s.provider.Recommend(aiCtx, wc)
	if err != nil {
		log.Printf("[Sets] AI recommendation failed: %v", err)
		rec.RecommendedWeight, rec.RecommendedReps, rec.Explanation =
			RuleBasedRecommendation(wc, set.WeightKg, set.Reps, set.RPE)
		return rec
	}

	providerTag := "ai"
	if strings.Contains(strings.ToLower(aiRec.ModelUsed), "gemini") {
		providerTag = "gemini"
	}
	rec.RecommendedWeight = aiRec.SuggestedWeightKg
	rec.RecommendedReps = aiRec.SuggestedReps
	rec.Explanation = aiRec.Explanation
	rec.Confidence = aiRec.Confidence
	rec.AIProvider = providerTag
	rec.ModelUsed = aiRec.ModelUsed
	rec.LatencyMs = aiRec.LatencyMs
	return rec
}

// GetSetsForWorkout lists a workout's sets in set-number order. The caller
// must own the workout.
func (s *SetService) GetSetsForWorkout(ctx context.Context, workoutID, userID uuid.UUID) ([]*domain.Set, error) {
	workout, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if workout.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return s.sets.GetForWorkout(ctx, workoutID)
}

// DeleteSet removes a set the user owns. Any linked recommendation row
// survives with its set reference nulled by the schema.
func (s *SetService) DeleteSet(ctx context.Context, setID, userID uuid.UUID) error {
	set, err := s.sets.GetByID(ctx, setID)
	if err != nil {
		return err
	}
	if set.UserID != userID {
		return domain.ErrForbidden
	}
	return s.sets.Delete(ctx, setID)
}
