package github

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/sevigo/audit-warden/internal/config"
)

// OAuth runs the web application flow of a GitHub OAuth app.
type OAuth struct {
	cfg *oauth2.Config
}

func NewOAuth(cfg config.GitHubConfig) *OAuth {
	return newOAuth(cfg, githuboauth.Endpoint)
}

func newOAuth(cfg config.GitHubConfig, endpoint oauth2.Endpoint) *OAuth {
	return &OAuth{cfg: &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       cfg.Scopes,
		Endpoint:     endpoint,
	}}
}

// AuthCodeURL returns the GitHub authorize URL carrying state.
func (o *OAuth) AuthCodeURL(state string) string {
	return o.cfg.AuthCodeURL(state)
}

// Exchange trades an authorization code for a user access token.
func (o *OAuth) Exchange(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", errors.New("authorization code is empty")
	}
	token, err := o.cfg.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if token.AccessToken == "" {
		return "", errors.New("github returned no access token")
	}
	return token.AccessToken, nil
}
