package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteDir(t *testing.T) {
	tests := []struct {
		conn string
		want string
	}{
		{"./data/pps.db?_pragma=foreign_keys(1)", "data"},
		{"file:/var/lib/pps/pps.db", "/var/lib/pps"},
		{":memory:", ""},
		{"pps.db", "."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sqliteDir(tt.conn), tt.conn)
	}
}

func TestMigrations(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "pps.db")

	conn, err := Init("sqlite", path+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	defer Close(conn)

	require.NoError(t, RunMigrations(ctx, conn.DB, "sqlite"))

	version, err := Version(ctx, conn.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(5), version)

	for _, table := range []string{"users", "user_categories", "tasks", "metric_definitions", "daily_metric_values", "goal_themes", "goal_sets", "goal_set_items", "daily_reflections"} {
		var n int
		err := conn.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1`, table)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}

	// Running again is a no-op
	require.NoError(t, RunMigrations(ctx, conn.DB, "sqlite"))

	require.NoError(t, MigrateDown(ctx, conn.DB, "sqlite"))
	version, err = Version(ctx, conn.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(4), version)

	var n int
	require.NoError(t, conn.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'daily_reflections'`))
	assert.Zero(t, n)
}

func TestUnsupportedDriver(t *testing.T) {
	err := RunMigrations(context.Background(), nil, "mysql")
	assert.ErrorContains(t, err, "unsupported database driver")
}
