// Package ai provides pluggable recommendation providers behind a common
// interface. Gemini is the production provider; OpenAI and Ollama are
// selectable but not implemented yet. A provider failure is never fatal to
// the caller: the set logger falls back to the rule engine.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/liftwise/coach/internal/config"
	"github.com/liftwise/coach/internal/domain"
)

var (
	// ErrProviderUnavailable means the provider cannot be used at all,
	// e.g. no API key was configured.
	ErrProviderUnavailable = errors.New("ai provider unavailable")

	// ErrInvalidResponse means the provider answered but the payload did
	// not validate against the expected schema.
	ErrInvalidResponse = errors.New("invalid ai response")

	// ErrNotImplemented marks providers that are selectable by
	// configuration but have no implementation.
	ErrNotImplemented = errors.New("ai provider not implemented")
)

// APIError is a non-2xx reply from a provider's HTTP API.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Recommendation is a structured next-set suggestion from a provider.
type Recommendation struct {
	SuggestedWeightKg float64
	SuggestedReps     int
	Explanation       string
	Confidence        string
	RawResponse       string
	LatencyMs         int
	ModelUsed         string
}

// Provider generates next-set recommendations from workout context.
type Provider interface {
	// Recommend returns a single next-set suggestion for the given context.
	Recommend(ctx context.Context, wc *domain.WorkoutContext) (*Recommendation, error)

	// HealthCheck reports whether the provider is reachable and usable.
	HealthCheck(ctx context.Context) bool

	// Name identifies the provider in logs and stored recommendations.
	Name() string
}

// NewProvider builds the provider selected by configuration. The instance is
// constructed once at startup and shared for the process lifetime.
func NewProvider(cfg config.AIConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		return NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel), nil
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	case "ollama":
		return NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("ai: unknown provider %q", cfg.Provider)
	}
}
