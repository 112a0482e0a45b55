package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
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
	"github.com/sevigo/audit-warden/mocks"
)

type fakeOAuth struct {
	code  string
	token string
	err   error
}

func (f *fakeOAuth) AuthCodeURL(state string) string {
	return "https://github.com/login/oauth/authorize?state=" + state
}

func (f *fakeOAuth) Exchange(_ context.Context, code string) (string, error) {
	f.code = code
	return f.token, f.err
}

type authFixture struct {
	oauth    *fakeOAuth
	client   *mocks.MockClient
	sessions *mocks.MockSessionStore
	tokens   *auth.TokenService
	handler  *AuthHandler
}

func newAuthFixture(t *testing.T) *authFixture {
	ctrl := gomock.NewController(t)
	f := &authFixture{
		oauth:    &fakeOAuth{token: "gho_user"},
		client:   mocks.NewMockClient(ctrl),
		sessions: mocks.NewMockSessionStore(ctrl),
		tokens:   auth.NewTokenService(config.AuthConfig{JWTSecret: strings.Repeat("s", 32), TokenTTL: 12 * time.Hour}),
	}
	factory := func(_ context.Context, token string) github.Client {
		assert.Equal(t, "gho_user", token)
		return f.client
	}
	f.handler = NewAuthHandler(f.oauth, factory, f.tokens, f.sessions, "http://localhost:3000", discardLogger())
	return f
}

func callback(t *testing.T, h *AuthHandler, query, cookieState string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/auth/github/callback?"+query, nil)
	if cookieState != "" {
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: cookieState})
	}
	rec := httptest.NewRecorder()
	h.Callback(rec, req)
	return rec
}

func TestAuthHandler_Login(t *testing.T) {
	f := newAuthFixture(t)
	rec := httptest.NewRecorder()
	f.handler.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/github/login", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, stateCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "https://github.com/login/oauth/authorize?state="+cookies[0].Value, rec.Header().Get("Location"))
}

func TestAuthHandler_Callback(t *testing.T) {
	f := newAuthFixture(t)
	f.client.EXPECT().GetAuthenticatedUser(gomock.Any()).Return(&core.GitHubUser{ID: 42, Login: "octocat"}, nil)
	f.sessions.EXPECT().SaveSession(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *core.Session) error {
		assert.Equal(t, int64(42), s.UserID)
		assert.Equal(t, "octocat", s.Username)
		assert.Equal(t, "gho_user", s.GitHubAccessToken)
		assert.NotEmpty(t, s.BackendToken)
		assert.WithinDuration(t, time.Now().Add(12*time.Hour), s.ExpiresAt, time.Minute)
		return nil
	})

	rec := callback(t, f.handler, "code=abc&state=xyz", "xyz")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "abc", f.oauth.code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/oauth", location.Path)
	token := location.Query().Get("token")
	require.NotEmpty(t, token)

	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "octocat", claims.Username)
	assert.Equal(t, "gho_user", claims.GitHubToken)
}

func TestAuthHandler_CallbackFailures(t *testing.T) {
	t.Run("state mismatch", func(t *testing.T) {
		f := newAuthFixture(t)
		rec := callback(t, f.handler, "code=abc&state=xyz", "other")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, f.oauth.code)
	})

	t.Run("missing state cookie", func(t *testing.T) {
		f := newAuthFixture(t)
		rec := callback(t, f.handler, "code=abc&state=xyz", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("denied", func(t *testing.T) {
		f := newAuthFixture(t)
		rec := callback(t, f.handler, "error=access_denied&state=xyz", "xyz")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("exchange fails", func(t *testing.T) {
		f := newAuthFixture(t)
		f.oauth.err = errors.New("bad_verification_code")
		rec := callback(t, f.handler, "code=abc&state=xyz", "xyz")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("session store fails", func(t *testing.T) {
		f := newAuthFixture(t)
		f.client.EXPECT().GetAuthenticatedUser(gomock.Any()).Return(&core.GitHubUser{ID: 42, Login: "octocat"}, nil)
		f.sessions.EXPECT().SaveSession(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
		rec := callback(t, f.handler, "code=abc&state=xyz", "xyz")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
