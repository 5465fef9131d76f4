package tests

import (
	"context"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/liftwise/coach/internal/ai"
	"github.com/liftwise/coach/internal/database"
	"github.com/liftwise/coach/internal/domain"
	"github.com/liftwise/coach/internal/repository"
)

// SetupTestDB spins up a fresh Postgres container, applies migrations and
// returns a connection pool along with a cleanup function.
func SetupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("liftwise_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start container: %s", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	if err := database.RunMigrations(connStr); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := database.Connect(ctx, connStr, 5, 10)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	return pool, func() {
		pool.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %v", err)
		}
	}
}

// SeedExerciseLibrary inserts a small global exercise library directly
// through the repository, the way the seed command does, and returns
// name -> id.
func SeedExerciseLibrary(t *testing.T, pool *pgxpool.Pool) map[string]uuid.UUID {
	repo := repository.NewPostgresExerciseRepository(pool)

	exercises := []domain.Exercise{
		{Name: "Barbell Bench Press", MuscleGroup: "chest", EquipmentType: strPtr("barbell"), IsCompound: true, IsGlobal: true},
		{Name: "Squat", MuscleGroup: "legs", EquipmentType: strPtr("barbell"), IsCompound: true, IsGlobal: true},
		{Name: "Dumbbell Curl", MuscleGroup: "arms", EquipmentType: strPtr("dumbbell"), IsCompound: false, IsGlobal: true},
	}

	ids := make(map[string]uuid.UUID, len(exercises))
	for i := range exercises {
		if err := repo.Create(context.Background(), &exercises[i]); err != nil {
			t.Fatalf("failed to seed exercise %s: %v", exercises[i].Name, err)
		}
		ids[exercises[i].Name] = exercises[i].ID
	}
	return ids
}

// StubProvider implements ai.Provider for tests. Mutate Err or Healthy
// between requests to steer the pipeline; handlers run synchronously under
// app.Test so there is no race.
type StubProvider struct {
	Rec     *ai.Recommendation
	Err     error
	Healthy bool
	Calls   int
}

func (s *StubProvider) Recommend(_ context.Context, _ *domain.WorkoutContext) (*ai.Recommendation, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Rec, nil
}

func (s *StubProvider) HealthCheck(_ context.Context) bool { return s.Healthy }

func (s *StubProvider) Name() string { return "stub" }

func strPtr(s string) *string { return &s }
