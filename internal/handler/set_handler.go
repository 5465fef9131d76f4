package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/liftwise/coach/internal/domain"
	"github.com/liftwise/coach/internal/middleware"
	"github.com/liftwise/coach/internal/service"
	"github.com/liftwise/coach/internal/telemetry"
)

// SetHandler handles set logging, listing and deletion
type SetHandler struct {
	setService *service.SetService
}

func NewSetHandler(setService *service.SetService) *SetHandler {
	return &SetHandler{setService: setService}
}

// LogSet handles POST /api/v1/workouts/:workoutID/sets. The response pairs
// the stored set with the recommendation attached to it (null for warmups).
func (h *SetHandler) LogSet(c *fiber.Ctx) error {
	workoutID, err := uuid.Parse(c.Params("workoutID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid workout id")
	}

	var req struct {
		ExerciseID string   `json:"exercise_id"`
		WeightKg   float64  `json:"weight_kg"`
		Reps       int      `json:"reps"`
		RPE        *float64 `json:"rpe"`
		IsWarmup   bool     `json:"is_warmup"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}
	exerciseID, err := uuid.Parse(req.ExerciseID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid exercise id")
	}

	result, err := h.setService.LogSet(c.Context(), workoutID, service.SetCreateInput{
		ExerciseID: exerciseID,
		WeightKg:   req.WeightKg,
		Reps:       req.Reps,
		RPE:        req.RPE,
		IsWarmup:   req.IsWarmup,
	}, middleware.CurrentUser(c).ID)
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

	if result.Recommendation != nil {
		telemetry.SetSpanAttribute(c, "recommendation.model", result.Recommendation.ModelUsed)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// ListSets handles GET /api/v1/workouts/:workoutID/sets
func (h *SetHandler) ListSets(c *fiber.Ctx) error {
	workoutID, err := uuid.Parse(c.Params("workoutID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid workout id")
	}

	sets, err := h.setService.GetSetsForWorkout(c.Context(), workoutID, middleware.CurrentUser(c).ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Workout not found")
	case errors.Is(err, domain.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "Not allowed to view this workout")
	case err != nil:
		return err
	}
	if sets == nil {
		sets = []*domain.Set{}
	}
	return c.JSON(sets)
}

// DeleteSet handles DELETE /api/v1/sets/:setID
func (h *SetHandler) DeleteSet(c *fiber.Ctx) error {
	setID, err := uuid.Parse(c.Params("setID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid set id")
	}

	err = h.setService.DeleteSet(c.Context(), setID, middleware.CurrentUser(c).ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Set not found")
	case errors.Is(err, domain.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "Not allowed to delete this set")
	case err != nil:
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
