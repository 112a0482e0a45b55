package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/audit-warden/internal/auth"
	"github.com/sevigo/audit-warden/internal/server/handler"
)

// proxyTimeout bounds the routes that only proxy GitHub. Review and scan routes
// are bounded by the review timeout and the server write timeout instead.
const proxyTimeout = 60 * time.Second

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Auth   *handler.AuthHandler
	Repos  *handler.RepoHandler
	Review *handler.ReviewHandler
	Scans  *handler.ScanHandler
}

// NewRouter creates and configures a new HTTP router with middleware and API routes.
func NewRouter(h *Handlers, sessions *auth.Middleware) *chi.Mux {
	r := chi.NewRouter()

	// Configure middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/auth/github", func(r chi.Router) {
		r.Use(middleware.Timeout(proxyTimeout))
		r.Get("/login", h.Auth.Login)
		r.Get("/callback", h.Auth.Callback)
	})

	r.Group(func(r chi.Router) {
		r.Use(sessions.RequireSession)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(proxyTimeout))
			r.Get("/repos", h.Repos.ListRepositories)
			r.Get("/repos/{owner}/{repo}/pulls", h.Repos.ListPullRequests)
			r.Get("/repos/{owner}/{repo}/pulls/{number}/diff", h.Repos.GetPullRequestDiff)
			r.Get("/repos/{owner}/{repo}/pulls/{number}/scans/latest", h.Scans.Latest)
			r.Post("/scan", h.Scans.Create)
			r.Get("/scan/{scanID}", h.Scans.Get)
		})

		r.Post("/analyze-diff", h.Review.AnalyzeDiff)
		r.Post("/analyze-diff/reasoning", h.Review.AnalyzeDiffWithReasoning)
	})

	return r
}
