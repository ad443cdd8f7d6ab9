package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ReadyFunc reports whether the service can answer live searches.
type ReadyFunc func(ctx context.Context) error

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	ready ReadyFunc
}

// NewHealthHandler creates a new HealthHandler. A nil ready func means
// the service is ready as soon as it serves traffic.
func NewHealthHandler(ready ReadyFunc) *HealthHandler {
	return &HealthHandler{ready: ready}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz returns 200 if the service is ready, 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if h.ready != nil {
		if err := h.ready(c.Request().Context()); err != nil {
			return c.JSON(
				http.StatusServiceUnavailable,
				map[string]string{"status": "unavailable"},
			)
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
