package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// ProviderGemini selects the Gemini API
const ProviderGemini = "gemini"

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini generates documentation through the Gemini API
type Gemini struct {
	cli     *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini creates a Gemini generator; the API key is required
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{cli: cli, model: cfg.Model, timeout: cfg.Timeout}, nil
}

// Generate sends the snapshot with the shared system instruction
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	res, err := g.cli.Models.GenerateContent(ctx, g.model,
		genai.Text(UserPrompt(req)),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SystemPrompt}}},
			Temperature:       genai.Ptr[float32](Temperature),
		},
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &TimeoutError{Provider: ProviderGemini, Timeout: g.timeout}
		}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &GenerationError{Provider: ProviderGemini, StatusCode: apiErr.Code, Body: apiErr.Message}
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if res == nil {
		return "", ErrEmptyResponse
	}

	return finish(res.Text())
}
