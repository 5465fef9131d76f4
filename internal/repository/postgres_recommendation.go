package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liftwise/coach/internal/domain"
)

type PostgresRecommendationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRecommendationRepository(pool *pgxpool.Pool) *PostgresRecommendationRepository {
	return &PostgresRecommendationRepository{pool: pool}
}

func (r *PostgresRecommendationRepository) Create(ctx context.Context, rec *domain.Recommendation) error {
	query := `
		INSERT INTO recommendations (user_id, workout_id, exercise_id, set_id,
			recommended_weight, recommended_reps, explanation, confidence,
			ai_provider, model_used, latency_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := querierFrom(ctx, r.pool).QueryRow(ctx, query,
		rec.UserID, rec.WorkoutID, rec.ExerciseID, rec.SetID,
		rec.RecommendedWeight, rec.RecommendedReps, rec.Explanation, rec.Confidence,
		rec.AIProvider, rec.ModelUsed, rec.LatencyMs).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create recommendation: %w", err)
	}
	return nil
}
