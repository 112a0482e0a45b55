package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sevigo/audit-warden/internal/core"
)

type sessionKey struct{}

// WithSession returns a copy of ctx carrying the authenticated session.
func WithSession(ctx context.Context, s *core.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored by the middleware.
func SessionFromContext(ctx context.Context) (*core.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*core.Session)
	return s, ok && s != nil
}

// Middleware rejects requests without a valid backend token whose session
// record still exists.
type Middleware struct {
	tokens   *TokenService
	sessions core.SessionStore
	logger   *slog.Logger
}

func NewMiddleware(tokens *TokenService, sessions core.SessionStore, logger *slog.Logger) *Middleware {
	return &Middleware{tokens: tokens, sessions: sessions, logger: logger}
}

func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			unauthorized(w, "missing authorization token")
			return
		}

		claims, err := m.tokens.Verify(token)
		if err != nil {
			m.logger.Debug("rejected session token", "error", err)
			unauthorized(w, "invalid or expired token")
			return
		}

		session, err := m.sessions.GetSessionByToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, core.ErrSessionNotFound) {
				unauthorized(w, "session not found")
				return
			}
			m.logger.Error("failed to load session", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "failed to load session")
			return
		}

		// The token is authoritative for the GitHub credential it was issued with.
		if claims.GitHubToken != "" {
			session.GitHubAccessToken = claims.GitHubToken
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// bearerToken accepts both "Bearer <token>" and "token <token>".
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	switch strings.ToLower(scheme) {
	case "bearer", "token":
		return strings.TrimSpace(token)
	default:
		return ""
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="audit-warden"`)
	writeJSONError(w, http.StatusUnauthorized, msg)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
