package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/liftwise/coach/internal/domain"
	"github.com/liftwise/coach/internal/middleware"
	"github.com/liftwise/coach/internal/service"
)

// UserHandler handles profile and stats endpoints
type UserHandler struct {
	statsService    *service.StatsService
	exerciseService *service.ExerciseService
}

func NewUserHandler(statsService *service.StatsService, exerciseService *service.ExerciseService) *UserHandler {
	return &UserHandler{
		statsService:    statsService,
		exerciseService: exerciseService,
	}
}

// Me handles GET /api/v1/users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// Overview handles GET /api/v1/users/me/stats
func (h *UserHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.statsService.Overview(c.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(overview)
}

// ExerciseStats handles GET /api/v1/users/me/stats/:exerciseID
func (h *UserHandler) ExerciseStats(c *fiber.Ctx) error {
	exerciseID, err := uuid.Parse(c.Params("exerciseID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid exercise id")
	}

	// stats for a non-existent exercise are a 404, not an empty shape
	if _, err := h.exerciseService.Get(c.Context(), exerciseID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Exercise not found")
		}
		return err
	}

	stats, err := h.statsService.ExerciseStats(c.Context(), middleware.CurrentUser(c).ID, exerciseID)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
