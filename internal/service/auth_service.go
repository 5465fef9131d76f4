package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/liftwise/coach/internal/domain"
)

// bcrypt rejects inputs longer than 72 bytes. Passwords have always been
// truncated to 71 bytes on both hash and verify, so existing hashes keep
// matching; changing this would lock out users with very long passwords.
const bcryptMaxBytes = 71

// AuthService handles user registration and credential login
type AuthService struct {
	users  domain.UserRepository
	tokens *TokenService
}

// NewAuthService creates a new auth service
func NewAuthService(users domain.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// RegisterInput contains the fields required to create an account
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// Token is the login response body
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new user after checking email and username uniqueness
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:    in.Email,
		Username: in.Username,
		HashedPW: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Token, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if !verifyPassword(password, user.HashedPW) {
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &Token{AccessToken: accessToken, TokenType: "bearer"}, nil
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword applies the same truncation as hashPassword before comparing
func verifyPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), truncatePassword(plain)) == nil
}

func truncatePassword(plain string) []byte {
	b := []byte(plain)
	if len(b) <= bcryptMaxBytes {
		return b
	}
	b = b[:bcryptMaxBytes]
	// the byte cut may land mid-rune; drop the partial sequence
	for len(b) > 0 && !utf8.Valid(b) {
		b = b[:len(b)-1]
	}
	return b
}
