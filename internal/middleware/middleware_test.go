package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nahidhasan98/docs-agent/internal/logger"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusAccepted)
})

func TestRateLimit(t *testing.T) {
	t.Run("rejects requests beyond the burst", func(t *testing.T) {
		m := New(logger.Nop(), 2)
		h := m.RateLimit(ok)

		codes := make([]int, 3)
		for i := range codes {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
			req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
			h.ServeHTTP(rec, req)
			codes[i] = rec.Code
		}

		assert.Equal(t, []int{http.StatusAccepted, http.StatusAccepted, http.StatusTooManyRequests}, codes)
	})

	t.Run("tracks clients separately", func(t *testing.T) {
		m := New(logger.Nop(), 1)
		h := m.RateLimit(ok)

		for _, ip := range []string{"10.0.0.1", "10.0.0.2"} {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
			req.Header.Set("X-Real-IP", ip)
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusAccepted, rec.Code, ip)
		}
	})

	t.Run("zero rate disables limiting", func(t *testing.T) {
		m := New(logger.Nop(), 0)
		h := m.RateLimit(ok)

		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", nil))
			assert.Equal(t, http.StatusAccepted, rec.Code)
		}
	})
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	m := New(logger.NewWithWriter(&buf, "info", "json"), 0)
	h := m.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "boom")
}

func TestLoggingAndSecurity(t *testing.T) {
	var buf bytes.Buffer
	m := New(logger.NewWithWriter(&buf, "info", "json"), 0)
	h := m.Security(m.Logging(ok))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Contains(t, buf.String(), `"status":202`)
	assert.Contains(t, buf.String(), `"path":"/webhook"`)
}
