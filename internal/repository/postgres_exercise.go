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

type PostgresExerciseRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresExerciseRepository(pool *pgxpool.Pool) *PostgresExerciseRepository {
	return &PostgresExerciseRepository{pool: pool}
}

func (r *PostgresExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	query := `
		INSERT INTO exercises (name, muscle_group, equipment_type, is_compound, created_by, is_global)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := querierFrom(ctx, r.pool).QueryRow(ctx, query,
		exercise.Name, exercise.MuscleGroup, exercise.EquipmentType,
		exercise.IsCompound, exercise.CreatedBy, exercise.IsGlobal).
		Scan(&exercise.ID, &exercise.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create exercise: %w", err)
	}
	return nil
}

func (r *PostgresExerciseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	query := `
		SELECT id, name, muscle_group, equipment_type, is_compound, created_by, is_global, created_at
		FROM exercises
		WHERE id = $1`

	return r.scanExercise(querierFrom(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *PostgresExerciseRepository) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	query := `
		SELECT id, name, muscle_group, equipment_type, is_compound, created_by, is_global, created_at
		FROM exercises
		WHERE name = $1`

	return r.scanExercise(querierFrom(ctx, r.pool).QueryRow(ctx, query, name))
}

func (r *PostgresExerciseRepository) ListGlobal(ctx context.Context, search string) ([]*domain.Exercise, error) {
	query := `
		SELECT id, name, muscle_group, equipment_type, is_compound, created_by, is_global, created_at
		FROM exercises
		WHERE is_global = TRUE`
	args := []any{}
	if search != "" {
		query += ` AND name ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name`

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []*domain.Exercise
	for rows.Next() {
		var e domain.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.EquipmentType,
			&e.IsCompound, &e.CreatedBy, &e.IsGlobal, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exercise: %w", err)
		}
		exercises = append(exercises, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exercises: %w", err)
	}
	return exercises, nil
}

func (r *PostgresExerciseRepository) scanExercise(row pgx.Row) (*domain.Exercise, error) {
	var e domain.Exercise
	err := row.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.EquipmentType,
		&e.IsCompound, &e.CreatedBy, &e.IsGlobal, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exercise: %w", err)
	}
	return &e, nil
}
