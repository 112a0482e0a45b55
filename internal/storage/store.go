// Package storage persists login sessions and pull request scans in Postgres.
package storage

import (
	"github.com/jmoiron/sqlx"

	"github.com/sevigo/audit-warden/internal/core"
)

// Store bundles every persistence contract the service needs.
type Store interface {
	core.SessionStore
	core.ScanStore
}

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}
