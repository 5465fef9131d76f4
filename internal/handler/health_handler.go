package handler

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/liftwise/coach/internal/ai"
)

// healthTimeout caps the combined probe time so a hung dependency cannot
// stall the endpoint.
const healthTimeout = 5 * time.Second

// HealthHandler probes the database and the AI provider
type HealthHandler struct {
	pool     *pgxpool.Pool
	provider ai.Provider
}

func NewHealthHandler(pool *pgxpool.Pool, provider ai.Provider) *HealthHandler {
	return &HealthHandler{pool: pool, provider: provider}
}

// Health handles GET /health. Returns 200 with every component ok, 503
// otherwise; the body always names the state of each component.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthTimeout)
	defer cancel()

	dbStatus := "error"
	aiStatus := "error"

	var g errgroup.Group
	g.Go(func() error {
		if err := h.pool.Ping(ctx); err != nil {
			log.Printf("[Health] database ping failed: %v", err)
			return nil
		}
		dbStatus = "ok"
		return nil
	})
	g.Go(func() error {
		if h.provider.HealthCheck(ctx) {
			aiStatus = "ok"
		} else {
			log.Printf("[Health] AI provider %s unhealthy", h.provider.Name())
		}
		return nil
	})
	_ = g.Wait()

	overall := "ok"
	status := fiber.StatusOK
	if dbStatus != "ok" || aiStatus != "ok" {
		overall = "degraded"
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"db":     dbStatus,
		"ai":     aiStatus,
	})
}
