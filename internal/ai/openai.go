package ai

import (
	"context"
	"fmt"

	"github.com/liftwise/coach/internal/domain"
)

// OpenAIProvider is selectable by configuration but not implemented yet.
type OpenAIProvider struct {
	apiKey string
	model  string
}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{apiKey: apiKey, model: model}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Recommend(_ context.Context, _ *domain.WorkoutContext) (*Recommendation, error) {
	return nil, fmt.Errorf("openai provider: %w", ErrNotImplemented)
}

func (p *OpenAIProvider) HealthCheck(_ context.Context) bool {
	return false
}
