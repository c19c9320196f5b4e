package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/qingyun/xiuxian/server/cache"
	"github.com/qingyun/xiuxian/server/config"
	dbadapter "github.com/qingyun/xiuxian/server/db"
	"github.com/qingyun/xiuxian/server/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupTestDB opens a file-backed SQLite database in a per-test temp
// directory and runs AutoMigrate. It requires no external services and is
// safe to use in parallel tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dbadapter.Open(config.DatabaseConfig{
		Mode:       dbadapter.ModeSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err, "SetupTestDB: Open")
	require.NoError(t, model.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// SetupTestCache creates an in-process cache (no Redis required).
func SetupTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewCache(cache.CacheConfig{LocalGCInterval: time.Minute})
	require.NoError(t, err, "SetupTestCache: NewCache")
	t.Cleanup(func() { c.Close() })
	return c
}

// Logger returns a no-op logger for tests.
func Logger(t *testing.T) *zap.Logger {
	t.Helper()
	return zap.NewNop()
}
