package domain

import "errors"

// Common errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrForbidden     = errors.New("access forbidden: you don't own this resource")
	ErrWorkoutClosed = errors.New("workout has already ended")

	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
