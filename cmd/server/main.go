package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/nahidhasan98/docs-agent/internal/app"
	"github.com/nahidhasan98/docs-agent/internal/config"
	"github.com/nahidhasan98/docs-agent/internal/github"
	"github.com/nahidhasan98/docs-agent/internal/handlers"
	"github.com/nahidhasan98/docs-agent/internal/llm"
	"github.com/nahidhasan98/docs-agent/internal/logger"
	"github.com/nahidhasan98/docs-agent/internal/processor"
	"github.com/nahidhasan98/docs-agent/internal/server"
)

// Global variables for configuration and services
var (
	cfg     *config.Config
	log     *logger.Logger
	proc    *processor.Processor
	runner  *app.Runner
	errChan = make(chan error, 2)
)

func main() {
	// Create a context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Runs outlive the shutdown signal until they finish or time out
	runCtx, cancelRuns := context.WithCancel(context.Background())
	defer cancelRuns()

	// Create a wait group for graceful shutdown
	var wg sync.WaitGroup

	// Initialize configuration and services
	if err := initialize(runCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Initialization error: %v\n", err)
		os.Exit(1)
	}

	// Drain background runs on shutdown
	startRunner(ctx, cancelRuns, &wg)

	// Start the web server
	startWebServer(ctx, &wg)

	// Handle shutdown signals
	waitForShutdown(cancel, &wg)
}

func initialize(runCtx context.Context) error {
	var err error

	// Load configuration
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log = logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info("Starting documentation agent")

	auth, err := newAuthenticator()
	if err != nil {
		return err
	}

	generator, err := llm.New(runCtx, llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  cfg.LLM.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create documentation generator: %w", err)
	}

	proc = processor.New(auth, generator, log, processor.Options{
		Actor:        cfg.Docs.CommitActor,
		Concurrency:  cfg.Docs.MaxConcurrentFileReads,
		MaxFiles:     cfg.Docs.MaxFiles,
		MaxFileChars: cfg.Docs.MaxFileChars,
	})
	runner = app.NewRunner(runCtx, proc.Process, log)

	log.With("provider", cfg.LLM.Provider).
		With("model", cfg.LLM.Model).
		With("app_auth", cfg.GitHub.UsesAppAuth()).
		Info("Documentation pipeline ready")
	return nil
}

// newAuthenticator selects App installation auth or the static development token
func newAuthenticator() (processor.Authenticator, error) {
	opts := github.Options{
		BaseURL:           cfg.GitHub.APIURL,
		RequestsPerSecond: cfg.GitHub.RequestsPerSecond,
		Burst:             cfg.Docs.MaxConcurrentFileReads,
	}

	if !cfg.GitHub.UsesAppAuth() {
		log.Warn("GITHUB_TOKEN set; using static token instead of GitHub App installation auth")
		factory := github.NewTokenClientFactory(cfg.GitHub.Token, opts)
		return func(ctx context.Context, id int64) (processor.RepositoryHost, error) {
			c, err := factory.ForInstallation(ctx, id)
			if err != nil {
				return nil, err
			}
			return c, nil
		}, nil
	}

	factory, err := github.NewAppClientFactory(cfg.GitHub.AppID, cfg.GitHub.PrivateKey, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App client factory: %w", err)
	}
	return func(ctx context.Context, id int64) (processor.RepositoryHost, error) {
		c, err := factory.ForInstallation(ctx, id)
		if err != nil {
			return nil, err
		}
		return c, nil
	}, nil
}

func startRunner(ctx context.Context, cancelRuns context.CancelFunc, wg *sync.WaitGroup) {
	wg.Go(func() {
		<-ctx.Done()
		runner.Close()

		active := runner.ActiveRuns()
		if active > 0 {
			log.Infof("Waiting for %d documentation run(s) to finish...", active)
		}

		waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.LLM.Timeout+cfg.Server.ShutdownTimeout)
		defer waitCancel()

		if err := runner.Wait(waitCtx); err != nil {
			log.Warnf("Cancelling %d unfinished documentation run(s)", runner.ActiveRuns())
		}
		cancelRuns()
		log.Info("Runner shutdown complete")
	})
}

func startWebServer(ctx context.Context, wg *sync.WaitGroup) {
	wg.Go(func() {
		log.Info("Starting HTTP server...")

		// Initialize HTTP handlers
		httpHandler := handlers.New(runner, handlers.Config{
			WebhookSecret: cfg.GitHub.WebhookSecret,
			Actor:         proc.Actor(),
		}, log)

		// Initialize and start HTTP server
		httpServer := server.New(cfg, httpHandler, log)
		httpServer.Start(cfg, errChan)

		// Keep the server running until shutdown
		<-ctx.Done()
		log.Info("HTTP server shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during HTTP server shutdown", err)
		}
	})
}

func waitForShutdown(cancel context.CancelFunc, wg *sync.WaitGroup) {
	// Wait for either service to fail or for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Error("Service failed", err)
	case <-sigChan:
		log.Info("Received shutdown signal")
	}

	// Cancel context to signal goroutines to shutdown
	cancel()

	// Wait for all goroutines to finish
	wg.Wait()

	log.Info("Application stopped")
}
