package store

import (
	stdsql "database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"

	"github.com/flightops/skymarshal/test/util"
)

// newTestClient connects to a disposable Postgres (testcontainers locally,
// or an external service container in CI via CI_DATABASE_URL) and applies
// migrations, mirroring the store's own migration path.
func newTestClient(t *testing.T) *Client {
	var connStr string
	if ciURL := os.Getenv("CI_DATABASE_URL"); ciURL != "" {
		t.Log("using external PostgreSQL from CI_DATABASE_URL")
		connStr = ciURL
	} else {
		connStr = util.StartPostgres(t).ConnStr
	}

	db, err := stdsql.Open("pgx", connStr)
	require.NoError(t, err)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	require.NoError(t, runMigrations(db, "test"))

	client := NewClientFromDB(db)
	t.Cleanup(func() { _ = client.Close() })
	return client
}
