package service

import (
	"path/filepath"
	"testing"
	"time"

	"bookclub/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repository.NewSQLiteDB(filepath.Join(t.TempDir(), "bot.sqlite3"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repository.MigrateDB(db, zap.NewNop()))
	return db
}

func fixedClock(year int, month time.Month, day int) Clock {
	return func() time.Time { return time.Date(year, month, day, 12, 0, 0, 0, time.UTC) }
}

func strPtr(s string) *string { return &s }
