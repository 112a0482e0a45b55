package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sevigo/audit-warden/internal/core"
)

// SaveSession appends a login record and fills in its generated id.
func (s *postgresStore) SaveSession(ctx context.Context, session *core.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO sessions (user_id, username, github_access_token, backend_token, created_at, expires_at)
		VALUES (:user_id, :username, :github_access_token, :backend_token, :created_at, :expires_at)
		RETURNING id`

	rows, err := s.db.NamedQueryContext(ctx, query, session)
	if err != nil {
		return fmt.Errorf("failed to save session for user %d: %w", session.UserID, err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&session.ID); err != nil {
			return fmt.Errorf("failed to read session id: %w", err)
		}
	}
	return rows.Err()
}

// GetSessionByToken looks up the session created together with a backend token.
// Expired sessions are reported as not found.
func (s *postgresStore) GetSessionByToken(ctx context.Context, backendToken string) (*core.Session, error) {
	query := `
		SELECT id, user_id, username, github_access_token, backend_token, created_at, expires_at
		FROM sessions
		WHERE backend_token = $1 AND expires_at > NOW()`

	var session core.Session
	if err := s.db.GetContext(ctx, &session, query, backendToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}
