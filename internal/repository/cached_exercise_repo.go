package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/liftwise/coach/internal/domain"
)

const (
	exerciseByIDKeyPrefix   = "exercise:id:"
	exerciseListKeyPrefix   = "exercise:list:"
	exerciseGlobalListLabel = "all"
	exerciseCacheTTL        = 5 * time.Minute
)

// ExerciseListCachePattern matches every cached library listing. The seed
// command deletes these after inserting new global exercises.
const ExerciseListCachePattern = exerciseListKeyPrefix + "*"

// cachedExercise is the cache shape of an exercise. domain.Exercise hides
// CreatedBy and IsGlobal from API JSON, so round-tripping it through
// json.Marshal would lose them.
type cachedExercise struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	MuscleGroup   string     `json:"muscle_group"`
	EquipmentType *string    `json:"equipment_type"`
	IsCompound    bool       `json:"is_compound"`
	CreatedBy     *uuid.UUID `json:"created_by"`
	IsGlobal      bool       `json:"is_global"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toCachedExercise(e *domain.Exercise) cachedExercise {
	return cachedExercise{
		ID:            e.ID,
		Name:          e.Name,
		MuscleGroup:   e.MuscleGroup,
		EquipmentType: e.EquipmentType,
		IsCompound:    e.IsCompound,
		CreatedBy:     e.CreatedBy,
		IsGlobal:      e.IsGlobal,
		CreatedAt:     e.CreatedAt,
	}
}

func (c cachedExercise) toDomain() *domain.Exercise {
	return &domain.Exercise{
		ID:            c.ID,
		Name:          c.Name,
		MuscleGroup:   c.MuscleGroup,
		EquipmentType: c.EquipmentType,
		IsCompound:    c.IsCompound,
		CreatedBy:     c.CreatedBy,
		IsGlobal:      c.IsGlobal,
		CreatedAt:     c.CreatedAt,
	}
}

// CachedExerciseRepository wraps an ExerciseRepository with Redis caching.
// Exercises are immutable once created and the global library only changes
// when the seed command runs, so a short TTL is the only invalidation needed.
type CachedExerciseRepository struct {
	inner domain.ExerciseRepository
	cache *RedisCacheRepository
}

// NewCachedExerciseRepository creates a new cached exercise repository
func NewCachedExerciseRepository(inner domain.ExerciseRepository, cache *RedisCacheRepository) *CachedExerciseRepository {
	return &CachedExerciseRepository{
		inner: inner,
		cache: cache,
	}
}

// GetByID retrieves an exercise by ID with caching
func (r *CachedExerciseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	key := exerciseByIDKeyPrefix + id.String()

	// Try cache first
	var cached cachedExercise
	if err := r.cache.Get(ctx, key, &cached); err == nil {
		return cached.toDomain(), nil
	}

	// Cache miss - fetch from Postgres
	exercise, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Store in cache (ignore cache errors)
	_ = r.cache.Set(ctx, key, toCachedExercise(exercise), exerciseCacheTTL)

	return exercise, nil
}

// ListGlobal retrieves the global library with caching, one entry per search
// term.
func (r *CachedExerciseRepository) ListGlobal(ctx context.Context, search string) ([]*domain.Exercise, error) {
	key := exerciseListKeyPrefix + exerciseGlobalListLabel
	if search != "" {
		key = exerciseListKeyPrefix + search
	}

	// Try cache first
	var cached []cachedExercise
	if err := r.cache.Get(ctx, key, &cached); err == nil {
		exercises := make([]*domain.Exercise, 0, len(cached))
		for _, c := range cached {
			exercises = append(exercises, c.toDomain())
		}
		return exercises, nil
	}

	// Cache miss - fetch from Postgres
	exercises, err := r.inner.ListGlobal(ctx, search)
	if err != nil {
		return nil, err
	}

	// Store in cache (ignore cache errors)
	entries := make([]cachedExercise, 0, len(exercises))
	for _, e := range exercises {
		entries = append(entries, toCachedExercise(e))
	}
	_ = r.cache.Set(ctx, key, entries, exerciseCacheTTL)

	return exercises, nil
}

// Create inserts an exercise. User-created exercises never appear in the
// global list, so only the by-ID key could go stale and it cannot exist yet.
func (r *CachedExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	return r.inner.Create(ctx, exercise)
}

// GetByName passes through; it only serves the seed command.
func (r *CachedExerciseRepository) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	return r.inner.GetByName(ctx, name)
}
