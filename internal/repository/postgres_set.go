package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liftwise/coach/internal/domain"
)

type PostgresSetRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSetRepository(pool *pgxpool.Pool) *PostgresSetRepository {
	return &PostgresSetRepository{pool: pool}
}

const setColumns = `id, workout_id, exercise_id, user_id, set_number, weight_kg, reps, rpe, is_warmup, logged_at, created_at`

func (r *PostgresSetRepository) Create(ctx context.Context, set *domain.Set) error {
	query := `
		INSERT INTO sets (workout_id, exercise_id, user_id, set_number, weight_kg, reps, rpe, is_warmup)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, logged_at, created_at`

	err := querierFrom(ctx, r.pool).QueryRow(ctx, query,
		set.WorkoutID, set.ExerciseID, set.UserID, set.SetNumber,
		set.WeightKg, set.Reps, set.RPE, set.IsWarmup).
		Scan(&set.ID, &set.LoggedAt, &set.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create set: %w", err)
	}
	return nil
}

func (r *PostgresSetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Set, error) {
	query := `
		SELECT ` + setColumns + `
		FROM sets
		WHERE id = $1`

	var s domain.Set
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query, id).
		Scan(&s.ID, &s.WorkoutID, &s.ExerciseID, &s.UserID, &s.SetNumber,
			&s.WeightKg, &s.Reps, &s.RPE, &s.IsWarmup, &s.LoggedAt, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get set: %w", err)
	}
	return &s, nil
}

func (r *PostgresSetRepository) GetForWorkout(ctx context.Context, workoutID uuid.UUID) ([]*domain.Set, error) {
	query := `
		SELECT ` + setColumns + `
		FROM sets
		WHERE workout_id = $1
		ORDER BY set_number`

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, workoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workout sets: %w", err)
	}
	defer rows.Close()

	return scanSets(rows)
}

func (r *PostgresSetRepository) GetForWorkoutAndExercise(ctx context.Context, workoutID, exerciseID uuid.UUID) ([]*domain.Set, error) {
	query := `
		SELECT ` + setColumns + `
		FROM sets
		WHERE workout_id = $1 AND exercise_id = $2
		ORDER BY set_number`

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, workoutID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercise sets: %w", err)
	}
	defer rows.Close()

	return scanSets(rows)
}

func (r *PostgresSetRepository) GetRecentForExercise(ctx context.Context, userID, exerciseID uuid.UUID, limit int) ([]*domain.Set, error) {
	query := `
		SELECT ` + setColumns + `
		FROM sets
		WHERE user_id = $1 AND exercise_id = $2
		ORDER BY logged_at DESC
		LIMIT $3`

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, userID, exerciseID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent sets: %w", err)
	}
	defer rows.Close()

	return scanSets(rows)
}

func (r *PostgresSetRepository) CountInWorkout(ctx context.Context, workoutID uuid.UUID) (int, error) {
	query := `SELECT count(*) FROM sets WHERE workout_id = $1`

	var count int
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query, workoutID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count workout sets: %w", err)
	}
	return count, nil
}

func (r *PostgresSetRepository) GetMaxWeightForExercise(ctx context.Context, userID, exerciseID uuid.UUID) (*float64, error) {
	query := `SELECT max(weight_kg) FROM sets WHERE user_id = $1 AND exercise_id = $2`

	var maxWeight *float64
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query, userID, exerciseID).Scan(&maxWeight)
	if err != nil {
		return nil, fmt.Errorf("failed to get max weight: %w", err)
	}
	return maxWeight, nil
}

func (r *PostgresSetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM sets WHERE id = $1`

	tag, err := querierFrom(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSets(rows pgx.Rows) ([]*domain.Set, error) {
	var sets []*domain.Set
	for rows.Next() {
		var s domain.Set
		if err := rows.Scan(&s.ID, &s.WorkoutID, &s.ExerciseID, &s.UserID, &s.SetNumber,
			&s.WeightKg, &s.Reps, &s.RPE, &s.IsWarmup, &s.LoggedAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan set: %w", err)
		}
		sets = append(sets, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sets: %w", err)
	}
	return sets, nil
}
