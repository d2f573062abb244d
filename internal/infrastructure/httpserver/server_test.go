package httpserver_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/cmdflow/internal/infrastructure/httpserver"
)

func newTestServer() *httpserver.Server {
	cfg := httpserver.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 9191
	return httpserver.NewServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakePinger reports a fixed ping result.
type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := httpserver.DefaultServerConfig()

	assert.Equal(t, httpserver.DefaultHost, cfg.Host)
	assert.Equal(t, httpserver.DefaultPort, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestNewServer(t *testing.T) {
	srv := newTestServer()

	require.NotNil(t, srv.Echo())
	assert.Equal(t, "127.0.0.1:9191", srv.Address())
	assert.True(t, srv.Echo().HideBanner)
	assert.Equal(t, 30*time.Second, srv.Echo().Server.ReadTimeout)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()
	srv.RegisterHealthEndpoints(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyEndpoint_AllDependenciesHealthy(t *testing.T) {
	srv := newTestServer()
	srv.RegisterHealthEndpoints(map[string]httpserver.Pinger{
		"redis": fakePinger{},
	})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"redis":"ok"}}`, rec.Body.String())
}

func TestReadyEndpoint_DegradedDependency(t *testing.T) {
	srv := newTestServer()
	srv.RegisterHealthEndpoints(map[string]httpserver.Pinger{
		"redis": fakePinger{err: errors.New("connection refused")},
	})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"redis":"connection refused"}}`, rec.Body.String())
}

func TestReadyEndpoint_NilPingerSkipped(t *testing.T) {
	srv := newTestServer()
	srv.RegisterHealthEndpoints(map[string]httpserver.Pinger{
		"redis": nil,
	})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestShutdown_WithoutStart(t *testing.T) {
	srv := newTestServer()

	require.NoError(t, srv.Shutdown(context.Background()))
}
