// Package testutil provides migrated sqlite databases and seed rows for
// package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/davidtseymour/personal-productivity-system/internal/db"
	"github.com/davidtseymour/personal-productivity-system/internal/validation"
)

// SQLiteDSN returns a file-backed sqlite DSN with the pragmas the app
// runs with.
func SQLiteDSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)&_txlock=immediate"
}

// NewDB returns a fresh migrated database that is closed when the test ends.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	conn, err := db.Init("sqlite", SQLiteDSN(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.RunMigrations(context.Background(), conn.DB, "sqlite"))
	return conn
}

// CreateUser inserts an active user and returns its id.
func CreateUser(t testing.TB, conn *sqlx.DB, username string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := conn.Exec(
		`INSERT INTO users (id, username, display_name, is_active, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, username, username, true, time.Now().UTC(),
	)
	require.NoError(t, err)
	return id
}

// CreateCategory inserts a category for userID and returns its id.
func CreateCategory(t testing.TB, conn *sqlx.DB, userID, name string, sortOrder int, active bool) string {
	t.Helper()
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := conn.Exec(
		`INSERT INTO user_categories (id, user_id, name, name_norm, is_active, sort_order, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, userID, name, validation.NormalizeName(name), active, sortOrder, now, now,
	)
	require.NoError(t, err)
	return id
}

// DefineMetric inserts a metric definition.
func DefineMetric(t testing.TB, conn *sqlx.DB, userID, key string, isDuration bool, sortOrder int, categoryID *string, factor *float64) {
	t.Helper()
	_, err := conn.Exec(
		`INSERT INTO metric_definitions (user_id, metric_key, display_name, is_duration, sort_order, category_id, subcategory, to_minutes_factor)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		userID, key, key, isDuration, sortOrder, categoryID, nil, factor,
	)
	require.NoError(t, err)
}

func Ptr[T any](v T) *T {
	return &v
}
