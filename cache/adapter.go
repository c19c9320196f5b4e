package cache

import (
	"context"
	"time"

	"github.com/qingyun/xiuxian/server/cache/local"
	cacheredis "github.com/qingyun/xiuxian/server/cache/redis"
)

// Cache holds short-lived coordination state such as per-character locks.
// It is not a read-through cache for rows.
type Cache interface {
	// SetNX stores value under key for ttl unless a live value is present,
	// and reports whether it was stored.
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	// CompareAndDelete removes key only if it currently holds value.
	CompareAndDelete(ctx context.Context, key, value string) (bool, error)
	Close() error
}

// CacheConfig holds configuration for both Redis and LocalCache.
type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
}

// NewCache returns a Cache backed by Redis if RedisAddr is set,
// otherwise returns an in-process LocalCache.
func NewCache(cfg CacheConfig) (Cache, error) {
	if cfg.RedisAddr != "" {
		return cacheredis.NewCache(cacheredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	return local.NewCache(local.Config{
		GCInterval: cfg.LocalGCInterval,
	})
}
