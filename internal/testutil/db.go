// Package testutil provides shared helpers for tests that need a real database.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"ministry/internal/infra/persistence/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated SQLite database in a temp directory that is removed with the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "ministry.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, jt := range model.JoinTables() {
		require.NoError(t, db.SetupJoinTable(jt.Model, jt.Field, jt.Join))
	}
	require.NoError(t, db.AutoMigrate(model.All()...))

	return db
}
