package ai

import (
	"context"
	"fmt"

	"github.com/liftwise/coach/internal/domain"
)

// OllamaProvider is a placeholder for local inference; enable once a GPU
// host is available.
type OllamaProvider struct {
	baseURL string
	model   string
}

func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	return &OllamaProvider{baseURL: baseURL, model: model}
}

func (p *OllamaProvider) Name() string { return "ollama" }

func (p *OllamaProvider) Recommend(_ context.Context, _ *domain.WorkoutContext) (*Recommendation, error) {
	return nil, fmt.Errorf("ollama provider: %w", ErrNotImplemented)
}

func (p *OllamaProvider) HealthCheck(_ context.Context) bool {
	return false
}
