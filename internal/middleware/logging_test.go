package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/lllypuk/cmdflow/internal/middleware"
)

func TestRequestLogging_LogsMethodPathStatus(t *testing.T) {
	// Arrange
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	e := echo.New()
	e.Use(middleware.RequestLogging(logger))
	e.POST("/api/v1/accounts", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", nil)
	rec := httptest.NewRecorder()

	// Act
	e.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusCreated, rec.Code)
	out := logs.String()
	assert.Contains(t, out, `"method":"POST"`)
	assert.Contains(t, out, `"path":"/api/v1/accounts"`)
	assert.Contains(t, out, `"status":201`)
	assert.Contains(t, out, "latency")
}

func TestRequestLogging_LogsFailedRequests(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	e := echo.New()
	e.Use(middleware.RequestLogging(logger))
	e.GET("/missing-handler-error", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "gone")
	})

	req := httptest.NewRequest(http.MethodGet, "/missing-handler-error", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, logs.String(), `"status":404`)
}
