package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User owns every other entity in the system. The password is stored as a
// bcrypt hash and never leaves the API.
type User struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	HashedPW  string     `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// UserRepository defines operations for managing users
type UserRepository interface {
	// Create inserts the user and fills server-generated fields (id, created_at)
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}
