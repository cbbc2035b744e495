package repository

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	logger := zap.NewNop()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "data", "bot.sqlite3"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, MigrateDB(db, logger))
	return db
}

func strPtr(s string) *string { return &s }

func TestMigrateDB_Idempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, MigrateDB(db, zap.NewNop()))

	var tables []string
	require.NoError(t, db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`))
	require.Subset(t, tables, []string{"genre_positions", "genres", "groups", "history", "polls", "suggestions", "user_activity"})
}
