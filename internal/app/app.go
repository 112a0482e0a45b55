// Package app initializes and orchestrates the main components of the Audit Warden application.
// It wires together the configuration, server, and other services.
package app

import (
	"context"
	"log/slog"

	"github.com/sevigo/audit-warden/internal/config"
	"github.com/sevigo/audit-warden/internal/core"
	"github.com/sevigo/audit-warden/internal/server"
)

// App holds the main application components.
type App struct {
	ctx        context.Context
	cfg        *config.Config
	server     *server.Server
	logger     *slog.Logger
	dispatcher core.ScanDispatcher
}

// NewApp assembles the application from its already constructed parts.
func NewApp(ctx context.Context, cfg *config.Config, srv *server.Server, dispatcher core.ScanDispatcher, logger *slog.Logger) *App {
	logger.Info("Audit Warden application initialized",
		"ai_provider", cfg.AI.Provider,
		"review_model", cfg.Review.ModelID,
		"reasoning_model", cfg.Review.ReasoningModelID,
		"max_workers", cfg.Jobs.MaxWorkers)

	return &App{
		ctx:        ctx,
		cfg:        cfg,
		server:     srv,
		logger:     logger,
		dispatcher: dispatcher,
	}
}

// Start runs the HTTP server.
func (a *App) Start() error {
	a.logger.Info("starting Audit Warden",
		"server_port", a.cfg.Server.Port,
		"frontend_url", a.cfg.Server.FrontendURL)

	err := a.server.Start()
	if err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}

	return nil
}

// Stop shuts down the application cleanly. The database connection is closed
// by the injector's cleanup function.
func (a *App) Stop() error {
	a.logger.Info("shutting down Audit Warden services")

	// Stop the HTTP server first to prevent new incoming requests.
	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
		// Continue to stop other components even if the server failed.
	}

	// Stop the dispatcher, allowing in-flight scans to finish.
	a.dispatcher.Stop()

	if serverErr != nil {
		a.logger.Error("Audit Warden stopped with errors", "error", serverErr)
		return serverErr
	}

	a.logger.Info("Audit Warden stopped successfully")
	return nil
}
