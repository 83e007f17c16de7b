package models

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string `json:"status"`
	ActiveRuns *int   `json:"active_runs,omitempty"`
	Timestamp  int64  `json:"timestamp,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
