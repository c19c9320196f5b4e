package mysql

import (
	"fmt"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates a GORM *DB backed by MySQL. The DSN is normalised so that
// DATETIME columns scan into time.Time and dialing honours connectTimeout.
func Open(dsn string, connectTimeout time.Duration) (*gorm.DB, error) {
	c, err := mysqldrv.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: parse dsn: %w", err)
	}
	c.ParseTime = true
	if connectTimeout > 0 {
		c.Timeout = connectTimeout
	}

	return gorm.Open(mysql.Open(c.FormatDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}
