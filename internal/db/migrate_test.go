package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanaberia/fanaberia/internal/db"
	"github.com/fanaberia/fanaberia/internal/dbtest"
)

func TestMigrationsCreateSchema(t *testing.T) {
	database := dbtest.Open(t)

	for _, table := range []string{"users", "admins", "categories", "posts", "pages", "files"} {
		var n int
		err := database.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1`, table)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s", table)
	}

	version, err := db.MigrationVersion(t.Context(), database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)
}

func TestMigrateDownRollsBackOneStep(t *testing.T) {
	database := dbtest.Open(t)

	require.NoError(t, db.MigrateDown(t.Context(), database.DB, "sqlite"))

	var n int
	err := database.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'files'`)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, db.RunMigrations(t.Context(), database.DB, "sqlite"))
}

func TestUnsupportedDriver(t *testing.T) {
	err := db.RunMigrations(t.Context(), nil, "mysql")
	assert.ErrorContains(t, err, "unsupported database driver")
}
