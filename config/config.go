package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Game     GameConfig     `mapstructure:"game"`
	Security SecurityConfig `mapstructure:"security"`
	Resource ResourceConfig `mapstructure:"resource"`
}

type ServerConfig struct {
	Port  int  `mapstructure:"port"`
	Debug bool `mapstructure:"debug"`
}

type DatabaseConfig struct {
	Mode           string        `mapstructure:"mode"` // sqlite | mysql | postgres
	URL            string        `mapstructure:"url"`  // overrides Mode/DSN when set, e.g. mysql://u:p@host/db
	SQLitePath     string        `mapstructure:"sqlite_path"`
	DSN            string        `mapstructure:"dsn"`
	MaxOpen        int           `mapstructure:"max_open"`
	MaxIdle        int           `mapstructure:"max_idle"`
	MaxLife        time.Duration `mapstructure:"max_life"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
}

type GameConfig struct {
	MaxRealmLevel    int                `mapstructure:"max_realm_level"`
	DefaultLimitBase int64              `mapstructure:"default_limit_base"`
	DefaultSpeedBase int64              `mapstructure:"default_speed_base"`
	MaxSectLevel     int                `mapstructure:"max_sect_level"`
	MaxReputation    int64              `mapstructure:"max_reputation"`
	MaxCurrency      int64              `mapstructure:"max_currency"`
	// CultivationTick is how often cultivating characters gain their speed.
	// Zero, the default, leaves the background task off.
	CultivationTick  time.Duration      `mapstructure:"cultivation_tick"`
	Breakthrough     BreakthroughConfig `mapstructure:"breakthrough"`
}

type BreakthroughConfig struct {
	// FailureProbability is the chance in [0,1] that an eligible attempt fails.
	FailureProbability float64       `mapstructure:"failure_probability"`
	LockTTL            time.Duration `mapstructure:"lock_ttl"`
}

type SecurityConfig struct {
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

type ResourceConfig struct {
	SeedDir string `mapstructure:"seed_dir"`
}

// DefaultGame returns the game rules used when no file overrides a key.
func DefaultGame() GameConfig {
	return GameConfig{
		MaxRealmLevel:    63,
		DefaultLimitBase: 100,
		DefaultSpeedBase: 1,
		MaxSectLevel:     100,
		MaxReputation:    100000,
		MaxCurrency:      999999,
		Breakthrough: BreakthroughConfig{
			LockTTL: 10 * time.Second,
		},
	}
}

// Load reads config from the given YAML file path. A .env file in the working
// directory, if present, is loaded into the environment first; environment
// variables prefixed with XIUXIAN_ override file values.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("XIUXIAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultGame()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("database.mode", "sqlite")
	v.SetDefault("database.url", "")
	v.SetDefault("database.sqlite_path", "./data/xiuxian.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open", 20)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("database.max_life", "1h")
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("game.max_realm_level", def.MaxRealmLevel)
	v.SetDefault("game.default_limit_base", def.DefaultLimitBase)
	v.SetDefault("game.default_speed_base", def.DefaultSpeedBase)
	v.SetDefault("game.max_sect_level", def.MaxSectLevel)
	v.SetDefault("game.max_reputation", def.MaxReputation)
	v.SetDefault("game.max_currency", def.MaxCurrency)
	v.SetDefault("game.cultivation_tick", "0s")
	v.SetDefault("game.breakthrough.failure_probability", 0.0)
	v.SetDefault("game.breakthrough.lock_ttl", "10s")
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 200)
	v.SetDefault("resource.seed_dir", "./data/seed")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
