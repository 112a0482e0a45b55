package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/sevigo/audit-warden/internal/auth"
	"github.com/sevigo/audit-warden/internal/core"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSession() *core.Session {
	return &core.Session{ID: 1, UserID: 42, Username: "octocat", GitHubAccessToken: "gho_user", BackendToken: "backend"}
}

// withSession stands in for auth.Middleware.RequireSession.
func withSession(session *core.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
		})
	}
}
