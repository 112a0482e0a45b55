package core

import (
	"context"
	"time"
)

// Session is the record kept for every successful GitHub login.
type Session struct {
	ID                int64     `db:"id"`
	UserID            int64     `db:"user_id"`
	Username          string    `db:"username"`
	GitHubAccessToken string    `db:"github_access_token"`
	BackendToken      string    `db:"backend_token"`
	CreatedAt         time.Time `db:"created_at"`
	ExpiresAt         time.Time `db:"expires_at"`
}

// GitHubUser is the subset of the GitHub user profile the service needs.
type GitHubUser struct {
	ID    int64
	Login string
}

// SessionStore persists login sessions. Records are only appended and looked up.
//
//go:generate mockgen -destination=../../mocks/mock_session_store.go -package=mocks . SessionStore
type SessionStore interface {
	SaveSession(ctx context.Context, session *Session) error
	GetSessionByToken(ctx context.Context, backendToken string) (*Session, error)
}
