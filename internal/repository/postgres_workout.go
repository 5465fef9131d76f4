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

type PostgresWorkoutRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresWorkoutRepository(pool *pgxpool.Pool) *PostgresWorkoutRepository {
	return &PostgresWorkoutRepository{pool: pool}
}

func (r *PostgresWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	query := `
		INSERT INTO workouts (user_id, name, started_at, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := querierFrom(ctx, r.pool).QueryRow(ctx, query,
		workout.UserID, workout.Name, workout.StartedAt, workout.Notes).
		Scan(&workout.ID, &workout.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create workout: %w", err)
	}
	return nil
}

func (r *PostgresWorkoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	query := `
		SELECT id, user_id, name, started_at, ended_at, notes, created_at
		FROM workouts
		WHERE id = $1`

	var w domain.Workout
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query, id).
		Scan(&w.ID, &w.UserID, &w.Name, &w.StartedAt, &w.EndedAt, &w.Notes, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workout: %w", err)
	}
	return &w, nil
}

func (r *PostgresWorkoutRepository) ListByUser(ctx context.Context, userID uuid.UUID, skip, limit int) ([]*domain.Workout, error) {
	query := `
		SELECT id, user_id, name, started_at, ended_at, notes, created_at
		FROM workouts
		WHERE user_id = $1
		ORDER BY started_at DESC
		OFFSET $2 LIMIT $3`

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

func (r *PostgresWorkoutRepository) GetManyByID(ctx context.Context, ids []uuid.UUID) ([]*domain.Workout, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, user_id, name, started_at, ended_at, notes, created_at
		FROM workouts
		WHERE id = ANY($1)`

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

func (r *PostgresWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	query := `
		UPDATE workouts
		SET name = $2, ended_at = $3, notes = $4
		WHERE id = $1`

	tag, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		workout.ID, workout.Name, workout.EndedAt, workout.Notes)
	if err != nil {
		return fmt.Errorf("failed to update workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanWorkouts(rows pgx.Rows) ([]*domain.Workout, error) {
	var workouts []*domain.Workout
	for rows.Next() {
		var w domain.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.StartedAt, &w.EndedAt, &w.Notes, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}
		workouts = append(workouts, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read workouts: %w", err)
	}
	return workouts, nil
}
