// Package main provides the API server entry point.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/lllypuk/cmdflow/internal/application/account"
	"github.com/lllypuk/cmdflow/internal/config"
	httphandler "github.com/lllypuk/cmdflow/internal/handler/http"
	"github.com/lllypuk/cmdflow/internal/infrastructure/httpserver"
	"github.com/lllypuk/cmdflow/internal/infrastructure/outcomebus"
	"github.com/lllypuk/cmdflow/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		//nolint:sloglint // No context available before logger setup
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := setupLogger(cfg)

	logger.Info("starting API server",
		slog.String("app", cfg.App.Name),
		slog.String("version", "0.1.0"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is only needed for outcome publishing; handlers tolerate a nil
	// publisher.
	var publisher httphandler.OutcomePublisher
	var redisClient *redis.Client
	if cfg.OutcomeBus.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if pingErr := redisClient.Ping(ctx).Err(); pingErr != nil {
			logger.Error("failed to connect to redis", slog.String("error", pingErr.Error()))
			os.Exit(1)
		}
		publisher = outcomebus.NewPublisher(redisClient, cfg.OutcomeBus.ChannelPrefix, logger)
		logger.Info("outcome publishing enabled", slog.String("redis_addr", cfg.Redis.Addr))
	}

	svc := account.NewService(logger)

	handler, err := httphandler.NewAccountHandler(svc, publisher, logger)
	if err != nil {
		logger.Error("failed to build account handler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)
	server.Use(middleware.RequestLogging(logger))
	server.Use(middleware.Recovery(logger))
	handler.RegisterRoutes(server.Echo())

	deps := map[string]httpserver.Pinger{}
	if redisClient != nil {
		deps["redis"] = redisPinger{client: redisClient}
	}
	server.RegisterHealthEndpoints(deps)

	go gracefulShutdown(ctx, cancel, server, redisClient, logger)

	if serverErr := server.Start(); serverErr != nil && !errors.Is(serverErr, http.ErrServerClosed) {
		logger.Error("server error", slog.String("error", serverErr.Error()))
		cancel()
		os.Exit(1)
	}
}

// redisPinger adapts the Redis client to the readiness Pinger interface.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// setupLogger creates and configures the structured logger based on configuration.
func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(cfg.Log.Level),
		AddSource: cfg.IsDevelopment(),
	}

	switch cfg.Log.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default: // "json" or any other value defaults to JSON
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// gracefulShutdown handles graceful shutdown on OS signals.
func gracefulShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	server *httpserver.Server,
	redisClient *redis.Client,
	logger *slog.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("context cancelled, initiating shutdown")
	}

	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}

	cancel()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	logger.Info("server shutdown complete")
}
