package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liftwise/coach/internal/domain"
)

type PostgresStatsRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresStatsRepository(pool *pgxpool.Pool) *PostgresStatsRepository {
	return &PostgresStatsRepository{pool: pool}
}

func (r *PostgresStatsRepository) GetExerciseAggregates(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.ExerciseAggregates, error) {
	query := `
		SELECT max(weight_kg),
			coalesce(sum(weight_kg * reps), 0),
			count(id),
			count(DISTINCT workout_id),
			max(logged_at)
		FROM sets
		WHERE user_id = $1 AND exercise_id = $2`

	var agg domain.ExerciseAggregates
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query, userID, exerciseID).
		Scan(&agg.MaxWeightKg, &agg.TotalVolumeKg, &agg.TotalSets, &agg.SessionsCount, &agg.LastLoggedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate exercise stats: %w", err)
	}
	return &agg, nil
}

func (r *PostgresStatsRepository) GetBestSetReps(ctx context.Context, userID, exerciseID uuid.UUID) (*int, error) {
	// Comparing against the max inside SQL keeps the numeric comparison exact.
	query := `
		SELECT reps
		FROM sets
		WHERE user_id = $1 AND exercise_id = $2
			AND weight_kg = (
				SELECT max(weight_kg) FROM sets WHERE user_id = $1 AND exercise_id = $2
			)
		ORDER BY reps DESC
		LIMIT 1`

	var reps int
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query, userID, exerciseID).Scan(&reps)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get best set reps: %w", err)
	}
	return &reps, nil
}

func (r *PostgresStatsRepository) GetOverviewAggregates(ctx context.Context, userID uuid.UUID) (*domain.OverviewAggregates, error) {
	q := querierFrom(ctx, r.pool)
	var agg domain.OverviewAggregates

	err := q.QueryRow(ctx,
		`SELECT count(id) FROM workouts WHERE user_id = $1 AND ended_at IS NOT NULL`, userID).
		Scan(&agg.TotalWorkouts)
	if err != nil {
		return nil, fmt.Errorf("failed to count workouts: %w", err)
	}

	err = q.QueryRow(ctx,
		`SELECT count(id), coalesce(sum(weight_kg * reps), 0) FROM sets WHERE user_id = $1`, userID).
		Scan(&agg.TotalSets, &agg.TotalVolumeKg)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sets: %w", err)
	}

	err = q.QueryRow(ctx, `
		SELECT e.muscle_group
		FROM sets s
		JOIN exercises e ON s.exercise_id = e.id
		WHERE s.user_id = $1
		GROUP BY e.muscle_group
		ORDER BY count(s.id) DESC
		LIMIT 1`, userID).
		Scan(&agg.MostTrainedMuscle)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get most trained muscle: %w", err)
	}

	err = q.QueryRow(ctx, `
		SELECT e.name
		FROM sets s
		JOIN exercises e ON s.exercise_id = e.id
		WHERE s.user_id = $1
		GROUP BY e.id, e.name
		ORDER BY count(s.id) DESC
		LIMIT 1`, userID).
		Scan(&agg.FavouriteExercise)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get favourite exercise: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT DISTINCT ended_at::date
		FROM workouts
		WHERE user_id = $1 AND ended_at IS NOT NULL`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workout dates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan workout date: %w", err)
		}
		agg.WorkoutDates = append(agg.WorkoutDates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read workout dates: %w", err)
	}

	return &agg, nil
}
