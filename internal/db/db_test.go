package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/audit-warden/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(&config.DBConfig{Host: "db", Port: 5433, Username: "u", Password: "p", Database: "audit_ai"})
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=audit_ai sslmode=disable", dsn)
}

func TestMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}
