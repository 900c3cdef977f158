// Package util provides shared helpers for integration tests that need a
// real Postgres instance.
package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Instance describes a running disposable Postgres, in both discrete
// connection fields and DSN form so callers can feed whichever their
// client constructor wants.
type Instance struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	ConnStr  string
}

// StartPostgres launches a disposable Postgres container and registers its
// teardown with the test. Each call gets its own container; isolation
// between packages and tests comes from that, not from schema juggling.
// Schema setup is the caller's job — the store client applies its own
// embedded migrations on connect.
func StartPostgres(t *testing.T) Instance {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return Instance{
		Host:     host,
		Port:     port.Int(),
		User:     "test",
		Password: "test",
		Database: "test",
		ConnStr:  connStr,
	}
}
