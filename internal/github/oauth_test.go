package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/sevigo/audit-warden/internal/config"
)

func TestOAuth_AuthCodeURL(t *testing.T) {
	o := NewOAuth(config.GitHubConfig{ClientID: "client", ClientSecret: "secret", Scopes: []string{"repo"}})

	u, err := url.Parse(o.AuthCodeURL("state-123"))
	require.NoError(t, err)
	assert.Equal(t, "github.com", u.Host)
	assert.Equal(t, "/login/oauth/authorize", u.Path)
	assert.Equal(t, "client", u.Query().Get("client_id"))
	assert.Equal(t, "repo", u.Query().Get("scope"))
	assert.Equal(t, "state-123", u.Query().Get("state"))
}

func TestOAuth_Exchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "bad_verification_code"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "gho_abc", "token_type": "bearer", "scope": "repo"}`))
	}))
	defer srv.Close()

	o := newOAuth(config.GitHubConfig{ClientID: "client", ClientSecret: "secret"}, oauth2.Endpoint{
		AuthURL:  srv.URL + "/authorize",
		TokenURL: srv.URL + "/token",
	})

	token, err := o.Exchange(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "gho_abc", token)

	_, err = o.Exchange(context.Background(), "bad")
	assert.Error(t, err)

	_, err = o.Exchange(context.Background(), "")
	assert.Error(t, err)
}
