// Package fetch retrieves many repository files under a concurrency cap.
//
// A fixed set of workers pulls indexes from a shared cursor and writes each
// result into its own slot, so completion order never affects output order.
// A failing item never stops its siblings.
package fetch

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/nahidhasan98/docs-agent/internal/logger"
	"github.com/nahidhasan98/docs-agent/internal/snapshot"
)

// DefaultConcurrency is used when no positive limit is configured
const DefaultConcurrency = 8

// FetchFunc retrieves the content of a single path
type FetchFunc func(ctx context.Context, path string) (string, error)

// Workers clamps limit to [1, n]. It returns 0 only when there is no work.
func Workers(limit, n int) int {
	if n <= 0 {
		return 0
	}
	if limit < 1 {
		limit = 1
	}
	if limit > n {
		limit = n
	}
	return limit
}

// MapConcurrent applies fn to every item using at most limit workers and
// returns results in input order. It stops handing out new items once ctx is
// cancelled and then reports ctx's error; slots never started stay zero.
func MapConcurrent[T, R any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T) R) ([]R, error) {
	results := make([]R, len(items))
	workers := Workers(limit, len(items))
	if workers == 0 {
		return results, nil
	}

	var cursor atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				idx := int(cursor.Add(1) - 1)
				if idx >= len(items) {
					return nil
				}
				results[idx] = fn(gctx, items[idx])
			}
		})
	}

	return results, g.Wait()
}

// Pipeline fetches candidate files and drops failures and secret-flagged content
type Pipeline struct {
	Concurrency int
	Log         *logger.Logger
	SecretKind  func(content string) (string, bool)
}

// Run fetches every path and returns the surviving files in input order.
// Per-file errors are logged as warnings with the path only. Secret-flagged
// content is dropped and logged by path and rule name, never by content.
func (p *Pipeline) Run(ctx context.Context, paths []string, fetchOne FetchFunc) ([]snapshot.RepositoryFile, error) {
	log := p.Log
	if log == nil {
		log = logger.Nop()
	}
	limit := p.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	loaded, err := MapConcurrent(ctx, paths, limit, func(ctx context.Context, path string) *snapshot.RepositoryFile {
		content, err := fetchOne(ctx, path)
		if err != nil {
			log.With("path", path).WarnErr("Skipping unreadable file", err)
			return nil
		}
		if rule, found := p.secretRule(content); found {
			log.With("path", path).With("rule", rule).Warn("Skipping file due to potential secret pattern")
			return nil
		}
		return &snapshot.RepositoryFile{Path: path, Content: content}
	})
	if err != nil {
		return nil, err
	}

	files := make([]snapshot.RepositoryFile, 0, len(loaded))
	for _, f := range loaded {
		if f != nil {
			files = append(files, *f)
		}
	}
	return files, nil
}

func (p *Pipeline) secretRule(content string) (string, bool) {
	if p.SecretKind == nil {
		return "", false
	}
	return p.SecretKind(content)
}
