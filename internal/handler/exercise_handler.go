package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/liftwise/coach/internal/domain"
	"github.com/liftwise/coach/internal/middleware"
	"github.com/liftwise/coach/internal/service"
)

// ExerciseHandler handles the exercise library endpoints
type ExerciseHandler struct {
	exerciseService *service.ExerciseService
}

func NewExerciseHandler(exerciseService *service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// List handles GET /api/v1/exercises
func (h *ExerciseHandler) List(c *fiber.Ctx) error {
	exercises, err := h.exerciseService.List(c.Context(), c.Query("search"))
	if err != nil {
		return err
	}
	if exercises == nil {
		exercises = []*domain.Exercise{}
	}
	return c.JSON(exercises)
}

// Create handles POST /api/v1/exercises
func (h *ExerciseHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Name          string  `json:"name"`
		MuscleGroup   string  `json:"muscle_group"`
		EquipmentType *string `json:"equipment_type"`
		IsCompound    bool    `json:"is_compound"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}
	if req.Name == "" || req.MuscleGroup == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name and muscle_group are required")
	}

	exercise, err := h.exerciseService.Create(c.Context(), middleware.CurrentUser(c).ID, service.ExerciseCreateInput{
		Name:          req.Name,
		MuscleGroup:   req.MuscleGroup,
		EquipmentType: req.EquipmentType,
		IsCompound:    req.IsCompound,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(exercise)
}

// Get handles GET /api/v1/exercises/:exerciseID
func (h *ExerciseHandler) Get(c *fiber.Ctx) error {
	exerciseID, err := uuid.Parse(c.Params("exerciseID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid exercise id")
	}

	exercise, err := h.exerciseService.Get(c.Context(), exerciseID)
	if errors.Is(err, domain.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Exercise not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(exercise)
}
