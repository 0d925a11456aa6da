// Package app initializes and orchestrates the main components of the
// code-critic service. It wires together the configuration, server, and
// other services.
package app

import (
	"context"
	"log/slog"

	"github.com/sevigo/code-critic/internal/config"
	"github.com/sevigo/code-critic/internal/server"
)

// App holds the main application components.
type App struct {
	ctx    context.Context
	cfg    *config.Config
	server *server.Server
	logger *slog.Logger
}

// NewApp sets up the application with all its dependencies.
func NewApp(ctx context.Context, cfg *config.Config, srv *server.Server, logger *slog.Logger) *App {
	logger.Info("initializing code-critic",
		"db_driver", cfg.Database.Driver,
		"llm_model", cfg.LLM.Model,
		"llm_max_attempts", cfg.LLM.MaxAttempts,
		"rate_limit_per_minute", cfg.RateLimit.PerMinute,
	)

	return &App{
		ctx:    ctx,
		cfg:    cfg,
		server: srv,
		logger: logger,
	}
}

// Start runs the HTTP server and blocks until it stops.
func (a *App) Start() error {
	a.logger.Info("starting code-critic", "server_port", a.cfg.ServerPort)

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly. The database pool is closed by the
// cleanup function returned from initialization.
func (a *App) Stop() error {
	a.logger.Info("shutting down code-critic services")

	if err := a.server.Stop(); err != nil {
		a.logger.Error("error during HTTP server shutdown", "error", err)
		return err
	}

	a.logger.Info("code-critic stopped successfully")
	return nil
}
