// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"issue-tracker/internal/core/database"
	"issue-tracker/internal/domain"
)

// OpenDB opens a fresh file-backed SQLite database under t.TempDir() and
// migrates the given models (all domain models when none are given).
func OpenDB(t testing.TB, models ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          dsn,
		MaxOpenConns: 4,
		MaxIdleConns: 4,
		LogLevel:     "silent",
	})
	require.NoError(t, err)

	if len(models) == 0 {
		models = domain.Models()
	}
	require.NoError(t, db.AutoMigrate(models...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
