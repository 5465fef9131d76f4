package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftwise/coach/internal/config"
	"github.com/liftwise/coach/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService(testJWTConfig())
	user := &domain.User{ID: uuid.New()}

	signed, err := tokens.Issue(user)
	require.NoError(t, err)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)

	parsed, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, parsed)
}

func TestTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.ExpireMinutes = -1
	tokens := NewTokenService(cfg)

	signed, err := tokens.Issue(&domain.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = tokens.Parse(signed)
	assert.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	tokens := NewTokenService(testJWTConfig())
	signed, err := tokens.Issue(&domain.User{ID: uuid.New()})
	require.NoError(t, err)

	other := NewTokenService(config.JWTConfig{Secret: "a-different-secret", Algorithm: "HS256", ExpireMinutes: 30})
	_, err = other.Parse(signed)
	assert.Error(t, err)
}

func TestTokenGarbageInput(t *testing.T) {
	tokens := NewTokenService(testJWTConfig())

	_, err := tokens.Parse("not-a-jwt")
	assert.Error(t, err)

	_, err = tokens.Parse("")
	assert.Error(t, err)
}
