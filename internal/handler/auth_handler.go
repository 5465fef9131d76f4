package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/liftwise/coach/internal/domain"
	"github.com/liftwise/coach/internal/service"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email" form:"email"`
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email, username and password are required")
	}

	user, err := h.authService.Register(c.Context(), service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		return fiber.NewError(fiber.StatusBadRequest, "Email already registered")
	case errors.Is(err, domain.ErrUsernameTaken):
		return fiber.NewError(fiber.StatusBadRequest, "Username already taken")
	case err != nil:
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password are required")
	}

	token, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return err
	}

	return c.JSON(token)
}
