package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/audit-warden/internal/auth"
	"github.com/sevigo/audit-warden/internal/config"
	"github.com/sevigo/audit-warden/internal/core"
	"github.com/sevigo/audit-warden/internal/github"
	"github.com/sevigo/audit-warden/internal/server/handler"
	"github.com/sevigo/audit-warden/mocks"
)

type routerFixture struct {
	router   http.Handler
	tokens   *auth.TokenService
	sessions *mocks.MockSessionStore
	reviewer *mocks.MockReviewer
}

func newRouterFixture(t *testing.T) *routerFixture {
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &routerFixture{
		tokens:   auth.NewTokenService(config.AuthConfig{JWTSecret: strings.Repeat("s", 32), TokenTTL: time.Hour}),
		sessions: mocks.NewMockSessionStore(ctrl),
		reviewer: mocks.NewMockReviewer(ctrl),
	}
	clients := func(context.Context, string) github.Client { return mocks.NewMockClient(ctrl) }
	oauth := github.NewOAuth(config.GitHubConfig{ClientID: "id", ClientSecret: "secret", Scopes: []string{"repo"}})

	h := &Handlers{
		Auth:   handler.NewAuthHandler(oauth, clients, f.tokens, f.sessions, "http://localhost:3000", logger),
		Repos:  handler.NewRepoHandler(clients, logger),
		Review: handler.NewReviewHandler(f.reviewer, 1<<20, logger),
		Scans:  handler.NewScanHandler(mocks.NewMockScanStore(ctrl), mocks.NewMockScanDispatcher(ctrl), logger),
	}
	f.router = NewRouter(h, auth.NewMiddleware(f.tokens, f.sessions, logger))
	return f
}

func TestRouter_Health(t *testing.T) {
	f := newRouterFixture(t)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouter_LoginRedirectsToGitHub(t *testing.T) {
	f := newRouterFixture(t)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/github/login", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "github.com/login/oauth/authorize")
}

func TestRouter_RequiresSession(t *testing.T) {
	f := newRouterFixture(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/repos"},
		{http.MethodGet, "/repos/octo/hello/pulls"},
		{http.MethodPost, "/analyze-diff"},
		{http.MethodPost, "/scan"},
	} {
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
	}
}

func TestRouter_AnalyzeDiffWithSession(t *testing.T) {
	f := newRouterFixture(t)
	token, _, err := f.tokens.Issue(42, "octocat", "gho_user")
	require.NoError(t, err)

	f.sessions.EXPECT().GetSessionByToken(gomock.Any(), token).Return(&core.Session{UserID: 42, Username: "octocat", BackendToken: token}, nil)
	f.reviewer.EXPECT().ReviewDiff(gomock.Any(), "+foo").Return(&core.ReviewResult{Result: "{}", InputTokens: 10, OutputTokens: 5}, nil)

	req := httptest.NewRequest(http.MethodPost, "/analyze-diff", strings.NewReader(`{"diff": "+foo"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result": "{}", "inputTokens": 10, "outputTokens": 5}`, rec.Body.String())
}
