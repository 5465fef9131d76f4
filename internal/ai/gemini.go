package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/liftwise/coach/internal/domain"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiProvider calls the Google Gemini REST API in JSON mode.
type GeminiProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGeminiProvider builds the Gemini provider. An empty API key yields a
// provider whose calls fail with ErrProviderUnavailable.
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *GeminiProvider) Name() string { return "gemini" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Recommend builds the prompt, calls generateContent and validates the
// reply. Latency covers the HTTP round trip only.
func (p *GeminiProvider) Recommend(ctx context.Context, wc *domain.WorkoutContext) (*Recommendation, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("gemini API key not configured: %w", ErrProviderUnavailable)
	}

	reqBody := geminiRequest{
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: BuildRecommendationPrompt(wc)}}}},
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: SystemPrompt}}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.3,
			MaxOutputTokens:  512,
		},
	}

	start := time.Now()
	data, err := p.post(ctx, reqBody)
	if err != nil {
		return nil, err
	}
	latency := int(time.Since(start).Milliseconds())

	var parsed geminiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode gemini response: %w", err)
	}
	raw := ""
	if len(parsed.Candidates) > 0 && len(parsed.Candidates[0].Content.Parts) > 0 {
		raw = parsed.Candidates[0].Content.Parts[0].Text
	}
	if raw == "" {
		return nil, fmt.Errorf("gemini returned empty response: %w", ErrInvalidResponse)
	}

	rec, err := parseRecommendation(raw)
	if err != nil {
		return nil, err
	}
	rec.RawResponse = raw
	rec.LatencyMs = latency
	rec.ModelUsed = p.model
	return rec, nil
}

// HealthCheck sends a trivial generation request; any failure means
// unhealthy.
func (p *GeminiProvider) HealthCheck(ctx context.Context) bool {
	if p.apiKey == "" {
		return false
	}
	body := geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: "Reply with OK."}}}}}
	_, err := p.post(ctx, body)
	return err == nil
}

func (p *GeminiProvider) post(ctx context.Context, body geminiRequest) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.baseURL, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Provider: "gemini", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}

// parseRecommendation validates the model's JSON payload; anything
// off-schema fails with ErrInvalidResponse.
func parseRecommendation(raw string) (*Recommendation, error) {
	var payload struct {
		SuggestedWeightKg json.Number `json:"suggested_weight_kg"`
		SuggestedReps     json.Number `json:"suggested_reps"`
		Explanation       string      `json:"explanation"`
		Confidence        string      `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: not valid JSON: %v", ErrInvalidResponse, err)
	}

	weight, err := payload.SuggestedWeightKg.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: suggested_weight_kg must be a number", ErrInvalidResponse)
	}
	reps, err := payload.SuggestedReps.Int64()
	if err != nil {
		return nil, fmt.Errorf("%w: suggested_reps must be an integer", ErrInvalidResponse)
	}
	explanation := strings.TrimSpace(payload.Explanation)
	if explanation == "" {
		return nil, fmt.Errorf("%w: explanation must be a non-empty string", ErrInvalidResponse)
	}
	switch payload.Confidence {
	case domain.ConfidenceHigh, domain.ConfidenceMedium, domain.ConfidenceLow:
	default:
		return nil, fmt.Errorf("%w: confidence %q is not one of high, medium, low", ErrInvalidResponse, payload.Confidence)
	}

	return &Recommendation{
		SuggestedWeightKg: weight,
		SuggestedReps:     int(reps),
		Explanation:       explanation,
		Confidence:        payload.Confidence,
	}, nil
}
