package handlers

import (
	"log/slog"
	"net/http"
	"time"
)

// Checker reports whether a dependency is usable
type Checker interface {
	Check() error
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	logger *slog.Logger
	checks map[string]Checker
}

// NewHealthHandler creates a new health handler; checks may be nil
func NewHealthHandler(logger *slog.Logger, checks map[string]Checker) *HealthHandler {
	return &HealthHandler{
		logger: logger,
		checks: checks,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ServeHTTP handles health check requests.
// Any failing check turns the response into 503 degraded.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
	}
	status := http.StatusOK

	if len(h.checks) > 0 {
		response.Checks = make(map[string]string, len(h.checks))
		for name, c := range h.checks {
			if err := c.Check(); err != nil {
				h.logger.Warn("health check failed", "check", name, "error", err)
				response.Checks[name] = err.Error()
				response.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			response.Checks[name] = "ok"
		}
	}

	WriteJSON(w, status, response, h.logger)
}
