package handlers

import (
	"net/http"
	"time"

	"github.com/nahidhasan98/docs-agent/internal/models"
)

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := &models.HealthResponse{Status: "ok"}

	// Add run details if requested
	if r.URL.Query().Get("detailed") == "true" {
		active := h.runner.ActiveRuns()
		response.ActiveRuns = &active
		response.Timestamp = time.Now().Unix()
	}

	h.writeJSON(w, response, http.StatusOK)
}
