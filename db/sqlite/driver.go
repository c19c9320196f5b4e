package sqlite

import (
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates a GORM *DB backed by SQLite. A busy timeout is added to the
// path unless the caller already supplied query parameters.
func Open(path string) (*gorm.DB, error) {
	if !strings.Contains(path, "?") {
		path += "?_busy_timeout=5000&_journal_mode=WAL"
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
}
