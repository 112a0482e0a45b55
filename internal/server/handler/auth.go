package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/sevigo/audit-warden/internal/core"
	"github.com/sevigo/audit-warden/internal/github"
)

const (
	stateCookieName = "audit_warden_oauth_state"
	stateCookieTTL  = 10 * time.Minute
)

// OAuthFlow is the GitHub side of the login flow.
type OAuthFlow interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
}

// TokenIssuer mints backend session tokens.
type TokenIssuer interface {
	Issue(userID int64, username, githubToken string) (string, time.Time, error)
}

// AuthHandler implements the GitHub OAuth login and callback endpoints.
type AuthHandler struct {
	oauth       OAuthFlow
	clients     github.ClientFactory
	tokens      TokenIssuer
	sessions    core.SessionStore
	frontendURL string
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(oauth OAuthFlow, clients github.ClientFactory, tokens TokenIssuer, sessions core.SessionStore, frontendURL string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		oauth:       oauth,
		clients:     clients,
		tokens:      tokens,
		sessions:    sessions,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// Login redirects the browser to the GitHub authorize page.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth/github",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusFound)
}

// Callback completes the login: it exchanges the code, records a session and
// hands the backend token to the frontend.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if errParam := query.Get("error"); errParam != "" {
		h.logger.Warn("github denied authorization", "error", errParam, "description", query.Get("error_description"))
		writeError(w, http.StatusBadRequest, "authorization was denied")
		return
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
		writeError(w, http.StatusBadRequest, "invalid oauth state")
		return
	}
	clearStateCookie(w)

	code := query.Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "code: must be provided")
		return
	}

	ctx := r.Context()
	accessToken, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		h.logger.Error("oauth code exchange failed", "error", err)
		writeError(w, http.StatusBadGateway, "failed to exchange authorization code")
		return
	}

	user, err := h.clients(ctx, accessToken).GetAuthenticatedUser(ctx)
	if err != nil {
		writeUpstreamError(w, h.logger, "failed to fetch github user", err)
		return
	}

	backendToken, expiresAt, err := h.tokens.Issue(user.ID, user.Login, accessToken)
	if err != nil {
		h.logger.Error("failed to issue session token", "user", user.Login, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to issue session token")
		return
	}

	session := &core.Session{
		UserID:            user.ID,
		Username:          user.Login,
		GitHubAccessToken: accessToken,
		BackendToken:      backendToken,
		ExpiresAt:         expiresAt,
	}
	if err := h.sessions.SaveSession(ctx, session); err != nil {
		h.logger.Error("failed to save session", "user", user.Login, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	h.logger.Info("user logged in", "user", user.Login, "user_id", user.ID)
	http.Redirect(w, r, h.frontendURL+"/oauth?token="+url.QueryEscape(backendToken), http.StatusFound)
}

func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/auth/github",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
