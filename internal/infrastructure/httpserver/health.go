package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether an external dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// healthStatus is the response body of the health endpoints.
type healthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// RegisterHealthEndpoints registers GET /health (liveness) and GET /ready
// (readiness). Each named Pinger is probed for readiness; a nil Pinger is
// skipped so optional dependencies can be wired unconditionally.
func (s *Server) RegisterHealthEndpoints(deps map[string]Pinger) {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, healthStatus{Status: "ok"})
	})

	s.echo.GET("/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
		defer cancel()

		checks := make(map[string]string, len(deps))
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = err.Error()
				healthy = false
				continue
			}
			checks[name] = "ok"
		}

		if !healthy {
			return c.JSON(http.StatusServiceUnavailable, healthStatus{Status: "degraded", Checks: checks})
		}
		return c.JSON(http.StatusOK, healthStatus{Status: "ok", Checks: checks})
	})
}
