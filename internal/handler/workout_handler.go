package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/liftwise/coach/internal/domain"
	"github.com/liftwise/coach/internal/middleware"
	"github.com/liftwise/coach/internal/service"
)

// WorkoutHandler handles the workout lifecycle endpoints
type WorkoutHandler struct {
	workoutService *service.WorkoutService
}

func NewWorkoutHandler(workoutService *service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// Start handles POST /api/v1/workouts
func (h *WorkoutHandler) Start(c *fiber.Ctx) error {
	var req struct {
		Name  *string `json:"name"`
		Notes *string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}

	workout, err := h.workoutService.Start(c.Context(), middleware.CurrentUser(c).ID, service.WorkoutCreateInput{
		Name:  req.Name,
		Notes: req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(workout)
}

// List handles GET /api/v1/workouts
func (h *WorkoutHandler) List(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 50)
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 50
	}

	workouts, err := h.workoutService.List(c.Context(), middleware.CurrentUser(c).ID, skip, limit)
	if err != nil {
		return err
	}
	if workouts == nil {
		workouts = []*domain.Workout{}
	}
	return c.JSON(workouts)
}

// Get handles GET /api/v1/workouts/:workoutID
func (h *WorkoutHandler) Get(c *fiber.Ctx) error {
	workoutID, err := uuid.Parse(c.Params("workoutID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid workout id")
	}

	workout, err := h.workoutService.Get(c.Context(), workoutID, middleware.CurrentUser(c).ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Workout not found")
	case errors.Is(err, domain.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "Not allowed to view this workout")
	case err != nil:
		return err
	}
	return c.JSON(workout)
}

// End handles POST /api/v1/workouts/:workoutID/end
func (h *WorkoutHandler) End(c *fiber.Ctx) error {
	workoutID, err := uuid.Parse(c.Params("workoutID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid workout id")
	}

	workout, err := h.workoutService.End(c.Context(), workoutID, middleware.CurrentUser(c).ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Workout not found")
	case errors.Is(err, domain.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "Not allowed to modify this workout")
	case errors.Is(err, domain.ErrWorkoutClosed):
		return fiber.NewError(fiber.StatusBadRequest, "Workout has already ended")
	case err != nil:
		return err
	}
	return c.JSON(workout)
}

// Update handles PATCH /api/v1/workouts/:workoutID
func (h *WorkoutHandler) Update(c *fiber.Ctx) error {
	workoutID, err := uuid.Parse(c.Params("workoutID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid workout id")
	}

	var req struct {
		Name  *string `json:"name"`
		Notes *string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}

	workout, err := h.workoutService.Update(c.Context(), workoutID, middleware.CurrentUser(c).ID, service.WorkoutUpdateInput{
		Name:  req.Name,
		Notes: req.Notes,
	})
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Workout not found")
	case errors.Is(err, domain.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "Not allowed to modify this workout")
	case err != nil:
		return err
	}
	return c.JSON(workout)
}
