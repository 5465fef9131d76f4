package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/liftwise/coach/internal/domain"
	"github.com/liftwise/coach/internal/service"
)

// UserKey is the locals key holding the authenticated *domain.User.
const UserKey = "currentUser"

// RequireUser validates the bearer token and loads the current user into
// c.Locals(UserKey). Every failure mode collapses into the same 401 so the
// response never leaks whether a token was malformed, expired or orphaned.
func RequireUser(tokens *service.TokenService, users domain.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("WWW-Authenticate", "Bearer")

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Could not validate credentials")
		}

		// Extract token (format: "Bearer <token>")
		tokenString := authHeader
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenString = authHeader[7:]
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Could not validate credentials")
		}

		userID, err := claims.UserID()
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Could not validate credentials")
		}

		user, err := users.GetByID(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Could not validate credentials")
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user loaded by RequireUser. Only call it on
// routes behind that middleware.
func CurrentUser(c *fiber.Ctx) *domain.User {
	return c.Locals(UserKey).(*domain.User)
}
