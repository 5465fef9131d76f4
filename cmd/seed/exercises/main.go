package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/liftwise/coach/internal/config"
	"github.com/liftwise/coach/internal/database"
	"github.com/liftwise/coach/internal/domain"
	"github.com/liftwise/coach/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.Database.URL, cfg.Database.PoolSize, cfg.Database.MaxOverflow)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pool.Close()

	repo := repository.NewPostgresExerciseRepository(pool)

	exercises := []domain.Exercise{
		{Name: "Barbell Bench Press", MuscleGroup: "chest", EquipmentType: strPtr("barbell"), IsCompound: true},
		{Name: "Squat", MuscleGroup: "legs", EquipmentType: strPtr("barbell"), IsCompound: true},
		{Name: "Deadlift", MuscleGroup: "back", EquipmentType: strPtr("barbell"), IsCompound: true},
		{Name: "Overhead Press", MuscleGroup: "shoulders", EquipmentType: strPtr("barbell"), IsCompound: true},
		{Name: "Pull Up", MuscleGroup: "back", EquipmentType: strPtr("bodyweight"), IsCompound: true},
		{Name: "Barbell Row", MuscleGroup: "back", EquipmentType: strPtr("barbell"), IsCompound: true},
		{Name: "Dumbbell Curl", MuscleGroup: "arms", EquipmentType: strPtr("dumbbell"), IsCompound: false},
		{Name: "Tricep Pushdown", MuscleGroup: "arms", EquipmentType: strPtr("cable"), IsCompound: false},
		{Name: "Leg Press", MuscleGroup: "legs", EquipmentType: strPtr("machine"), IsCompound: true},
		{Name: "Lat Pulldown", MuscleGroup: "back", EquipmentType: strPtr("cable"), IsCompound: true},
		{Name: "Romanian Deadlift", MuscleGroup: "legs", EquipmentType: strPtr("barbell"), IsCompound: true},
		{Name: "Incline Dumbbell Press", MuscleGroup: "chest", EquipmentType: strPtr("dumbbell"), IsCompound: true},
		{Name: "Cable Row", MuscleGroup: "back", EquipmentType: strPtr("cable"), IsCompound: true},
		{Name: "Face Pull", MuscleGroup: "shoulders", EquipmentType: strPtr("cable"), IsCompound: false},
		{Name: "Hip Thrust", MuscleGroup: "legs", EquipmentType: strPtr("barbell"), IsCompound: true},
		{Name: "Lunges", MuscleGroup: "legs", EquipmentType: strPtr("bodyweight"), IsCompound: true},
		{Name: "Leg Curl", MuscleGroup: "legs", EquipmentType: strPtr("machine"), IsCompound: false},
		{Name: "Leg Extension", MuscleGroup: "legs", EquipmentType: strPtr("machine"), IsCompound: false},
		{Name: "Dumbbell Row", MuscleGroup: "back", EquipmentType: strPtr("dumbbell"), IsCompound: true},
		{Name: "Arnold Press", MuscleGroup: "shoulders", EquipmentType: strPtr("dumbbell"), IsCompound: true},
	}

	// Idempotent: each exercise is checked by name before inserting, so the
	// command is safe to run against a seeded database.
	created := 0
	for _, ex := range exercises {
		ex := ex
		ex.IsGlobal = true

		_, err := repo.GetByName(ctx, ex.Name)
		if err == nil {
			fmt.Printf("Skipping existing: %s\n", ex.Name)
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("Error checking %s: %v\n", ex.Name, err)
			continue
		}

		if err := repo.Create(ctx, &ex); err != nil {
			log.Printf("Error creating %s: %v\n", ex.Name, err)
		} else {
			fmt.Printf("Created: %s\n", ex.Name)
			created++
		}
	}

	// Running API instances cache the library listing; new rows make those
	// entries stale, so drop them when a cache is configured.
	if created > 0 && cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		defer redisClient.Close()

		cache := repository.NewRedisCacheRepository(redisClient)
		if err := cache.DeleteByPattern(ctx, repository.ExerciseListCachePattern); err != nil {
			log.Printf("Error invalidating exercise list cache: %v\n", err)
		} else {
			fmt.Println("Invalidated exercise list cache.")
		}
	}

	fmt.Println("Seeding Exercises Complete.")
}

func strPtr(s string) *string { return &s }
