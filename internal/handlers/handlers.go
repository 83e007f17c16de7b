package handlers

import (
	"strings"

	"github.com/nahidhasan98/docs-agent/internal/logger"
	"github.com/nahidhasan98/docs-agent/internal/processor"
	"github.com/nahidhasan98/docs-agent/internal/validation"
)

// DefaultMaxBodyBytes caps webhook payloads
const DefaultMaxBodyBytes int64 = 5 << 20

// Dispatcher starts documentation runs in the background
type Dispatcher interface {
	Dispatch(rc processor.RunContext) bool
	ActiveRuns() int
}

// Config holds the webhook settings a Handler needs
type Config struct {
	WebhookSecret string
	Actor         string
	MaxBodyBytes  int64
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	runner    Dispatcher
	log       *logger.Logger
	validator *validation.Validator
	cfg       Config
}

// New creates a new handler instance
func New(runner Dispatcher, cfg Config, log *logger.Logger) *Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	cfg.Actor = strings.TrimSpace(cfg.Actor)
	if cfg.Actor == "" {
		cfg.Actor = processor.DefaultActor
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		runner:    runner,
		log:       log,
		validator: validation.New(),
		cfg:       cfg,
	}
}
