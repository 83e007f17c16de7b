// Package llm turns a repository snapshot into Markdown documentation using a
// chat model. OpenAI and Gemini are supported; both share one prompt pair.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout bounds a single generation call
const DefaultTimeout = 120 * time.Second

// ErrEmptyResponse is returned when the model produced no usable text
var ErrEmptyResponse = errors.New("llm: empty response")

// Request identifies the repository being documented
type Request struct {
	Owner    string
	Repo     string
	Branch   string
	Snapshot string
}

// Generator produces documentation Markdown for a snapshot
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GenerationError is a non-success provider response
type GenerationError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: generation failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// TimeoutError reports a generation call that exceeded its deadline
type TimeoutError struct {
	Provider string
	Timeout  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: generation timed out after %s", e.Provider, e.Timeout)
}

// IsTimeout reports whether err is a generation timeout
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// Config selects and configures a provider
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// New builds the generator named by cfg.Provider
func New(ctx context.Context, cfg Config) (Generator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenAI:
		return NewOpenAI(cfg)
	case ProviderGemini:
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

// finish trims output and rejects empty documents
func finish(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
