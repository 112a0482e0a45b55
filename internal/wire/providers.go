// Package wire builds the application's dependency graph.
package wire

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/wire"

	"github.com/sevigo/audit-warden/internal/app"
	"github.com/sevigo/audit-warden/internal/auth"
	"github.com/sevigo/audit-warden/internal/config"
	"github.com/sevigo/audit-warden/internal/core"
	"github.com/sevigo/audit-warden/internal/db"
	"github.com/sevigo/audit-warden/internal/github"
	"github.com/sevigo/audit-warden/internal/jobs"
	"github.com/sevigo/audit-warden/internal/llm"
	"github.com/sevigo/audit-warden/internal/logger"
	"github.com/sevigo/audit-warden/internal/server"
	"github.com/sevigo/audit-warden/internal/server/handler"
	"github.com/sevigo/audit-warden/internal/storage"
)

// AppSet lists every provider of the HTTP service.
var AppSet = wire.NewSet(
	config.LoadServerConfig,
	provideLoggerConfig,
	provideLogOutput,
	logger.NewLogger,
	provideDBConfig,
	db.NewDatabase,
	provideStore,
	provideSessionStore,
	provideScanStore,
	provideModelBackend,
	llm.LoadCatalog,
	provideRetryPolicy,
	llm.NewModelClient,
	llm.NewPromptManager,
	llm.NewReviewerConfig,
	llm.NewDiffReviewer,
	wire.Bind(new(core.Reviewer), new(*llm.DiffReviewer)),
	github.NewClientFactory,
	provideOAuth,
	provideTokenService,
	wire.Bind(new(handler.OAuthFlow), new(*github.OAuth)),
	wire.Bind(new(handler.TokenIssuer), new(*auth.TokenService)),
	auth.NewMiddleware,
	jobs.NewScanJob,
	provideJobsConfig,
	jobs.NewDispatcher,
	provideAuthHandler,
	handler.NewRepoHandler,
	provideReviewHandler,
	handler.NewScanHandler,
	wire.Struct(new(server.Handlers), "*"),
	server.NewRouter,
	wire.Bind(new(http.Handler), new(*chi.Mux)),
	server.NewServer,
	app.NewApp,
)

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideLogOutput(cfg logger.Config) (io.Writer, func(), error) {
	return logger.OpenOutput(cfg)
}

func provideDBConfig(cfg *config.Config) *config.DBConfig {
	return &cfg.Database
}

func provideStore(conn *db.DB) storage.Store {
	return storage.NewStore(conn.DB)
}

func provideSessionStore(store storage.Store) core.SessionStore {
	return store
}

func provideScanStore(store storage.Store) core.ScanStore {
	return store
}

func provideModelBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (core.ModelBackend, error) {
	return llm.NewBackend(ctx, cfg.AI, logger)
}

func provideRetryPolicy(cfg *config.Config) llm.RetryPolicy {
	return llm.RetryPolicyFromConfig(cfg.Retry)
}

func provideOAuth(cfg *config.Config) *github.OAuth {
	return github.NewOAuth(cfg.GitHub)
}

func provideTokenService(cfg *config.Config) *auth.TokenService {
	return auth.NewTokenService(cfg.Auth)
}

func provideJobsConfig(cfg *config.Config) config.JobsConfig {
	return cfg.Jobs
}

func provideAuthHandler(oauth handler.OAuthFlow, clients github.ClientFactory, tokens handler.TokenIssuer, sessions core.SessionStore, cfg *config.Config, logger *slog.Logger) *handler.AuthHandler {
	return handler.NewAuthHandler(oauth, clients, tokens, sessions, cfg.Server.FrontendURL, logger)
}

func provideReviewHandler(reviewer core.Reviewer, cfg *config.Config, logger *slog.Logger) *handler.ReviewHandler {
	return handler.NewReviewHandler(reviewer, cfg.Server.MaxDiffBytes, logger)
}
