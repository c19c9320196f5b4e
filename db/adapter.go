package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/qingyun/xiuxian/server/config"
	dbmysql "github.com/qingyun/xiuxian/server/db/mysql"
	dbpostgres "github.com/qingyun/xiuxian/server/db/postgres"
	dbsqlite "github.com/qingyun/xiuxian/server/db/sqlite"
	"github.com/xo/dburl"
	"gorm.io/gorm"
)

const (
	ModeSQLite   = "sqlite"
	ModeMySQL    = "mysql"
	ModePostgres = "postgres"
)

// Open returns a *gorm.DB for the configured database mode. When cfg.URL is
// set it takes precedence: the URL scheme selects the driver and the DSN is
// derived from the URL.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	mode, dsn, err := resolve(cfg)
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	switch mode {
	case ModeSQLite:
		db, err = dbsqlite.Open(dsn)
	case ModeMySQL:
		db, err = dbmysql.Open(dsn, cfg.ConnectTimeout)
	case ModePostgres:
		db, err = dbpostgres.Open(dsn, cfg.ConnectTimeout)
	default:
		return nil, fmt.Errorf("db: unknown mode %q", mode)
	}
	if err != nil {
		return nil, err
	}
	if err := configurePool(db, cfg.MaxOpen, cfg.MaxIdle, cfg.MaxLife); err != nil {
		return nil, err
	}
	return db, nil
}

// resolve turns the config into a (mode, dsn) pair.
func resolve(cfg config.DatabaseConfig) (string, string, error) {
	if cfg.URL == "" {
		switch cfg.Mode {
		case ModeSQLite:
			return ModeSQLite, cfg.SQLitePath, nil
		default:
			return cfg.Mode, cfg.DSN, nil
		}
	}

	u, err := dburl.Parse(cfg.URL)
	if err != nil {
		return "", "", fmt.Errorf("db: parse url: %w", err)
	}
	switch strings.ToLower(u.Driver) {
	case "sqlite3", "sqlite", "moderncsqlite":
		return ModeSQLite, u.DSN, nil
	case "mysql":
		return ModeMySQL, u.DSN, nil
	case "postgres", "pgx":
		return ModePostgres, u.DSN, nil
	default:
		return "", "", fmt.Errorf("db: unsupported url driver %q", u.Driver)
	}
}

func configurePool(db *gorm.DB, maxOpen, maxIdle int, maxLife time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}
	if maxLife > 0 {
		sqlDB.SetConnMaxLifetime(maxLife)
	}
	return nil
}
