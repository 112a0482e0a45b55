package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/audit-warden/internal/core"
	"github.com/sevigo/audit-warden/mocks"
)

func TestMiddleware_RequireSession(t *testing.T) {
	svc := newTestTokenService()
	token, _, err := svc.Issue(42, "octocat", "gho_abc")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		setup      func(store *mocks.MockSessionStore)
		wantStatus int
	}{
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown scheme",
			header:     "Basic " + token,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "bad token",
			header:     "Bearer nope",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "session missing",
			header: "Bearer " + token,
			setup: func(store *mocks.MockSessionStore) {
				store.EXPECT().GetSessionByToken(gomock.Any(), token).Return(nil, core.ErrSessionNotFound)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "store failure",
			header: "Bearer " + token,
			setup: func(store *mocks.MockSessionStore) {
				store.EXPECT().GetSessionByToken(gomock.Any(), token).Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:   "bearer scheme",
			header: "Bearer " + token,
			setup: func(store *mocks.MockSessionStore) {
				store.EXPECT().GetSessionByToken(gomock.Any(), token).Return(&core.Session{UserID: 42, Username: "octocat"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "token scheme",
			header: "token " + token,
			setup: func(store *mocks.MockSessionStore) {
				store.EXPECT().GetSessionByToken(gomock.Any(), token).Return(&core.Session{UserID: 42, Username: "octocat"}, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockSessionStore(ctrl)
			if tt.setup != nil {
				tt.setup(store)
			}

			mw := NewMiddleware(svc, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				session, ok := SessionFromContext(r.Context())
				require.True(t, ok)
				assert.Equal(t, int64(42), session.UserID)
				assert.Equal(t, "gho_abc", session.GitHubAccessToken)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/repos", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mw.RequireSession(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Equal(t, "abc", bearerToken("token abc"))
	assert.Empty(t, bearerToken("abc"))
	assert.Empty(t, bearerToken(""))
}
