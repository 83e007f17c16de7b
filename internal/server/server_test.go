package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahidhasan98/docs-agent/internal/config"
	"github.com/nahidhasan98/docs-agent/internal/handlers"
	"github.com/nahidhasan98/docs-agent/internal/logger"
	"github.com/nahidhasan98/docs-agent/internal/processor"
	"github.com/nahidhasan98/docs-agent/internal/validation"
)

type countingDispatcher struct{ n atomic.Int32 }

func (c *countingDispatcher) Dispatch(processor.RunContext) bool {
	c.n.Add(1)
	return true
}

func (c *countingDispatcher) ActiveRuns() int { return 0 }

func TestServer_Routes(t *testing.T) {
	d := &countingDispatcher{}
	h := handlers.New(d, handlers.Config{WebhookSecret: "secret"}, logger.Nop())
	srv := httptest.NewServer(New(&config.Config{}, h, logger.Nop()).Routes())
	defer srv.Close()

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	})

	t.Run("webhook end to end", func(t *testing.T) {
		body := `{"ref":"refs/heads/main","installation":{"id":1},
			"repository":{"default_branch":"main","name":"repo","owner":{"login":"owner"}}}`
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/webhook", strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set(handlers.HeaderEvent, "push")
		req.Header.Set(handlers.HeaderSignature, validation.SignaturePrefix+validation.Sign([]byte(body), "secret"))

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
		assert.Equal(t, int32(1), d.n.Load())
	})

	t.Run("unknown path", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/contacts")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
