package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahidhasan98/docs-agent/internal/filter"
	"github.com/nahidhasan98/docs-agent/internal/logger"
)

func TestWorkers(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		n     int
		want  int
	}{
		{"no items", 4, 0, 0},
		{"zero limit clamps to one", 0, 5, 1},
		{"negative limit clamps to one", -3, 5, 1},
		{"limit above items clamps to items", 8, 3, 3},
		{"limit within range", 2, 10, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Workers(tt.limit, tt.n))
		})
	}
}

func TestMapConcurrent(t *testing.T) {
	t.Run("preserves input order despite completion order", func(t *testing.T) {
		items := []int{50, 10, 30, 0, 20}
		out, err := MapConcurrent(context.Background(), items, 5, func(_ context.Context, ms int) string {
			time.Sleep(time.Duration(ms) * time.Millisecond)
			return fmt.Sprintf("item-%d", ms)
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"item-50", "item-10", "item-30", "item-0", "item-20"}, out)
	})

	t.Run("never exceeds the concurrency limit", func(t *testing.T) {
		var inFlight, peak atomic.Int32
		items := make([]int, 40)

		_, err := MapConcurrent(context.Background(), items, 3, func(_ context.Context, _ int) struct{} {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			inFlight.Add(-1)
			return struct{}{}
		})

		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int32(3))
		assert.GreaterOrEqual(t, peak.Load(), int32(1))
	})

	t.Run("processes every item exactly once", func(t *testing.T) {
		var mu sync.Mutex
		seen := map[int]int{}
		items := make([]int, 100)
		for i := range items {
			items[i] = i
		}

		_, err := MapConcurrent(context.Background(), items, 7, func(_ context.Context, i int) int {
			mu.Lock()
			seen[i]++
			mu.Unlock()
			return i
		})

		require.NoError(t, err)
		assert.Len(t, seen, 100)
		for i, c := range seen {
			assert.Equal(t, 1, c, "item %d", i)
		}
	})

	t.Run("empty input returns empty output", func(t *testing.T) {
		out, err := MapConcurrent(context.Background(), []string{}, 4, func(_ context.Context, s string) string { return s })

		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("stops handing out work after cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var calls atomic.Int32
		items := make([]int, 50)

		_, err := MapConcurrent(ctx, items, 1, func(_ context.Context, _ int) int {
			if calls.Add(1) == 3 {
				cancel()
			}
			return 0
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int32(3), calls.Load())
	})
}

func TestPipeline_Run(t *testing.T) {
	t.Run("drops failed and secret-flagged files and keeps order", func(t *testing.T) {
		var buf bytes.Buffer
		p := &Pipeline{
			Concurrency: 2,
			Log:         logger.NewWithWriter(&buf, "debug", "json"),
			SecretKind:  filter.SecretKind,
		}
		contents := map[string]string{
			"a.go":      "package a",
			"secret.js": "const password='supersecret123';",
			"c.go":      "package c",
		}

		files, err := p.Run(context.Background(), []string{"a.go", "missing.go", "secret.js", "c.go"},
			func(_ context.Context, path string) (string, error) {
				c, ok := contents[path]
				if !ok {
					return "", errors.New("404 not found")
				}
				return c, nil
			})

		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, "a.go", files[0].Path)
		assert.Equal(t, "c.go", files[1].Path)

		logs := buf.String()
		assert.Contains(t, logs, `"path":"missing.go"`)
		assert.Contains(t, logs, `"path":"secret.js"`)
		assert.Contains(t, logs, "potential secret pattern")
		assert.Contains(t, logs, `"rule":"credential assignment"`)
		assert.NotContains(t, logs, "supersecret123")
		assert.Equal(t, 2, strings.Count(logs, `"level":"warn"`))
	})

	t.Run("defaults to nop logger and default concurrency", func(t *testing.T) {
		p := &Pipeline{}

		files, err := p.Run(context.Background(), []string{"x"}, func(_ context.Context, path string) (string, error) {
			return "content of " + path, nil
		})

		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "content of x", files[0].Content)
	})
}
