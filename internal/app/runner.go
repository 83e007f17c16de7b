// Package app owns the background lifecycle of documentation runs.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nahidhasan98/docs-agent/internal/errors"
	"github.com/nahidhasan98/docs-agent/internal/logger"
	"github.com/nahidhasan98/docs-agent/internal/processor"
)

// ProcessFunc runs one documentation pass
type ProcessFunc func(ctx context.Context, rc processor.RunContext) error

// Runner executes runs detached from the HTTP request that triggered them
type Runner struct {
	process ProcessFunc
	log     *logger.Logger

	baseCtx context.Context
	wg      sync.WaitGroup

	mu       sync.Mutex
	inFlight map[string]int
	active   int
	closed   bool
}

// NewRunner creates a Runner whose runs inherit ctx; cancelling ctx
// cancels every run still in progress
func NewRunner(ctx context.Context, process ProcessFunc, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		process:  process,
		log:      log,
		baseCtx:  ctx,
		inFlight: make(map[string]int),
	}
}

// Dispatch starts rc in the background and returns immediately. Runs for
// the same repository branch are not serialized; an overlap is only logged.
// It returns false once Close has been called.
func (r *Runner) Dispatch(rc processor.RunContext) bool {
	key := rc.Key()
	log := r.log.WithFields(logger.Fields{
		"installation_id": rc.InstallationID,
		"owner":           rc.Owner,
		"repo":            rc.Repo,
		"branch":          rc.Branch,
	})

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		log.Warn("Runner is closed; dropping documentation run")
		return false
	}
	if r.inFlight[key] > 0 {
		log.Warn("Documentation run already in progress for this branch; starting another")
	}
	r.inFlight[key]++
	r.active++
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer r.finish(key)
		r.run(rc, log)
	}()
	return true
}

// Close stops Dispatch from starting new runs. Runs already started are
// left to finish; call Wait to drain them.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

// run is the error boundary of a background run: it only logs
func (r *Runner) run(rc processor.RunContext, log *logger.Logger) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Documentation run panicked", fmt.Errorf("panic: %v", rec))
		}
	}()

	log.Info("Documentation run started")
	if err := r.process(r.baseCtx, rc); err != nil {
		log.With("stage", string(errors.CodeOf(err))).
			With("duration", time.Since(start).String()).
			Error("Documentation run failed", err)
		return
	}
	log.With("duration", time.Since(start).String()).Info("Documentation run completed")
}

func (r *Runner) finish(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight[key]--
	if r.inFlight[key] <= 0 {
		delete(r.inFlight, key)
	}
	r.active--
}

// ActiveRuns returns the number of runs in progress
func (r *Runner) ActiveRuns() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Wait blocks until every dispatched run has finished or ctx is done
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
