package server

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/liftwise/coach/internal/ai"
	"github.com/liftwise/coach/internal/config"
	"github.com/liftwise/coach/internal/domain"
	"github.com/liftwise/coach/internal/handler"
	"github.com/liftwise/coach/internal/middleware"
	"github.com/liftwise/coach/internal/repository"
	"github.com/liftwise/coach/internal/service"
	"github.com/liftwise/coach/internal/telemetry"
)

// idempotencyTTL is how long a replayed response stays valid for a retried
// X-Correlation-ID.
const idempotencyTTL = 24 * time.Hour

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	Store       *repository.Store
	RedisClient *redis.Client // nil disables idempotency replay
	AIProvider  ai.Provider
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	pool := deps.Store.Pool()

	// Initialize repositories
	userRepo := repository.NewPostgresUserRepository(pool)
	var exerciseRepo domain.ExerciseRepository = repository.NewPostgresExerciseRepository(pool)
	if deps.RedisClient != nil {
		cache := repository.NewRedisCacheRepository(deps.RedisClient)
		exerciseRepo = repository.NewCachedExerciseRepository(exerciseRepo, cache)
	}
	workoutRepo := repository.NewPostgresWorkoutRepository(pool)
	setRepo := repository.NewPostgresSetRepository(pool)
	recommendationRepo := repository.NewPostgresRecommendationRepository(pool)
	statsRepo := repository.NewPostgresStatsRepository(pool)

	// Initialize services
	tokenService := service.NewTokenService(deps.Config.JWT)
	authService := service.NewAuthService(userRepo, tokenService)
	exerciseService := service.NewExerciseService(exerciseRepo)
	workoutService := service.NewWorkoutService(workoutRepo)
	statsService := service.NewStatsService(statsRepo)
	contextBuilder := service.NewContextBuilder(exerciseRepo, workoutRepo, setRepo)
	setService := service.NewSetService(
		deps.Store,
		workoutRepo,
		setRepo,
		recommendationRepo,
		contextBuilder,
		deps.AIProvider,
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(statsService, exerciseService)
	workoutHandler := handler.NewWorkoutHandler(workoutService)
	setHandler := handler.NewSetHandler(setService)
	exerciseHandler := handler.NewExerciseHandler(exerciseService)
	healthHandler := handler.NewHealthHandler(pool, deps.AIProvider)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "LiftWise Coach API",
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(telemetry.FiberMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(deps.Config.Server),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET, POST, PATCH, DELETE, OPTIONS",
	}))

	// Health check endpoint (unauthenticated)
	app.Get("/health", healthHandler.Health)

	// API v1 routes
	v1 := app.Group("/api/v1")

	// Auth endpoints (public). Idempotency replay is deliberately not applied
	// here so token-bearing responses never sit in the replay cache.
	auth := v1.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// ===========================================
	// USERS API - /api/v1/users/* (requires bearer token)
	// ===========================================
	users := v1.Group("/users")
	users.Use(middleware.RequireUser(tokenService, userRepo))

	users.Get("/me", userHandler.Me)
	users.Get("/me/stats", userHandler.Overview)
	users.Get("/me/stats/:exerciseID", userHandler.ExerciseStats)

	// ===========================================
	// WORKOUTS API - /api/v1/workouts/* (requires bearer token)
	// ===========================================
	workouts := v1.Group("/workouts")
	workouts.Use(middleware.RequireUser(tokenService, userRepo))
	workouts.Use(middleware.Idempotency(deps.RedisClient, idempotencyTTL))

	workouts.Post("/", workoutHandler.Start)
	workouts.Get("/", workoutHandler.List)
	workouts.Get("/:workoutID", workoutHandler.Get)
	workouts.Post("/:workoutID/end", workoutHandler.End)
	workouts.Patch("/:workoutID", workoutHandler.Update)

	workouts.Post("/:workoutID/sets", setHandler.LogSet)
	workouts.Get("/:workoutID/sets", setHandler.ListSets)

	// ===========================================
	// SETS API - /api/v1/sets/* (requires bearer token)
	// ===========================================
	sets := v1.Group("/sets")
	sets.Use(middleware.RequireUser(tokenService, userRepo))

	sets.Delete("/:setID", setHandler.DeleteSet)

	// ===========================================
	// EXERCISES API - /api/v1/exercises/* (requires bearer token)
	// ===========================================
	exercises := v1.Group("/exercises")
	exercises.Use(middleware.RequireUser(tokenService, userRepo))
	exercises.Use(middleware.Idempotency(deps.RedisClient, idempotencyTTL))

	exercises.Get("/", exerciseHandler.List)
	exercises.Post("/", exerciseHandler.Create)
	exercises.Get("/:exerciseID", exerciseHandler.Get)

	return app
}

// corsOrigins builds the allow-origins list from config. The wildcard is only
// honored in development; in any other environment it is stripped with a
// warning so a deploy with the default config does not open CORS wide.
func corsOrigins(server config.ServerConfig) string {
	raw := strings.TrimSpace(server.AllowedOrigins)
	if raw == "" {
		return ""
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if server.Environment == "development" {
		return strings.Join(origins, ", ")
	}
	kept := origins[:0]
	for _, o := range origins {
		if o == "*" {
			log.Printf("Warning: ALLOWED_ORIGINS contains '*' outside development; dropping wildcard")
			continue
		}
		kept = append(kept, o)
	}
	return strings.Join(kept, ", ")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Printf("Error: %v", err)
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
