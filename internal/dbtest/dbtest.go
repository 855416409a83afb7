// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/fanaberia/fanaberia/internal/db"
)

var seq atomic.Int64

// Open returns a fresh sqlite database with all migrations applied.
// The database is closed when the test finishes.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:fanaberia_test_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", seq.Add(1))
	database, err := db.Init(context.Background(), "sqlite", dsn)
	require.NoError(t, err)

	err = db.RunMigrations(context.Background(), database.DB, "sqlite")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}
