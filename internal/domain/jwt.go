package domain

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims are the JWT claims carried by a Liftwise access token. The
// user id travels in the registered "sub" claim.
type AccessClaims struct {
	jwt.RegisteredClaims
}

// UserID parses the subject claim as the authenticated user's id.
func (c *AccessClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
