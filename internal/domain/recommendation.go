package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Confidence labels attached to every recommendation
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Recommendation is the persisted provenance record for a suggested next
// set. SetID references the set that triggered it and is nulled when that
// set is deleted.
type Recommendation struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	WorkoutID         uuid.UUID  `json:"workout_id"`
	ExerciseID        uuid.UUID  `json:"exercise_id"`
	SetID             *uuid.UUID `json:"set_id"`
	RecommendedWeight float64    `json:"recommended_weight"`
	RecommendedReps   int        `json:"recommended_reps"`
	Explanation       string     `json:"explanation"`
	Confidence        string     `json:"confidence"`
	AIProvider        string     `json:"ai_provider"`
	ModelUsed         string     `json:"model_used"`
	LatencyMs         int        `json:"latency_ms"`
	WasFollowed       *bool      `json:"was_followed"`
	CreatedAt         time.Time  `json:"created_at"`
}

// RecommendationPayload is the wire shape of a recommendation in the
// log-set response.
type RecommendationPayload struct {
	SuggestedWeightKg float64 `json:"suggested_weight_kg"`
	SuggestedReps     int     `json:"suggested_reps"`
	Explanation       string  `json:"explanation"`
	Confidence        string  `json:"confidence"`
	ModelUsed         string  `json:"model_used"`
	LatencyMs         int     `json:"latency_ms"`
}

// Payload converts the stored row into its API shape.
func (r *Recommendation) Payload() *RecommendationPayload {
	return &RecommendationPayload{
		SuggestedWeightKg: r.RecommendedWeight,
		SuggestedReps:     r.RecommendedReps,
		Explanation:       r.Explanation,
		Confidence:        r.Confidence,
		ModelUsed:         r.ModelUsed,
		LatencyMs:         r.LatencyMs,
	}
}

type RecommendationRepository interface {
	// Create inserts the recommendation and fills server-generated fields
	Create(ctx context.Context, rec *Recommendation) error
}
