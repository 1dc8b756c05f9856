package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is a dependency the service needs to serve traffic
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandlers handles health check endpoints
type HealthHandlers struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthHandlers creates health handlers over the named dependencies
func NewHealthHandlers(checks map[string]Pinger) *HealthHandlers {
	return &HealthHandlers{checks: checks, timeout: 2 * time.Second}
}

// HealthStatus represents the readiness of every dependency
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// LivenessCheck determines if the application is running
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck determines if the application is ready to serve traffic
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	health := &HealthStatus{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string, len(h.checks)),
	}
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			health.Services[name] = "unhealthy"
			health.Status = "not_ready"
			continue
		}
		health.Services[name] = "healthy"
	}

	if health.Status != "ready" {
		return c.JSON(http.StatusServiceUnavailable, health)
	}
	return c.JSON(http.StatusOK, health)
}
