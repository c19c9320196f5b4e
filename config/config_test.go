package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 9090\n"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Mode)
	assert.Equal(t, 20, cfg.Database.MaxOpen)
	assert.Equal(t, time.Hour, cfg.Database.MaxLife)
	assert.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, 63, cfg.Game.MaxRealmLevel)
	assert.Equal(t, int64(999999), cfg.Game.MaxCurrency)
	assert.Equal(t, int64(100000), cfg.Game.MaxReputation)
	assert.Equal(t, 100, cfg.Game.MaxSectLevel)
	assert.Zero(t, cfg.Game.Breakthrough.FailureProbability)
	assert.Equal(t, 10*time.Second, cfg.Game.Breakthrough.LockTTL)
	assert.Zero(t, cfg.Game.CultivationTick, "the tick is opt-in")
}

func TestLoad_FileOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
database:
  mode: mysql
  dsn: "root:pw@tcp(localhost:3306)/xiuxian?parseTime=true"
  max_open: 8
game:
  max_realm_level: 66
  cultivation_tick: 30s
  breakthrough:
    failure_probability: 0.25
`))
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Mode)
	assert.Equal(t, 8, cfg.Database.MaxOpen)
	assert.Equal(t, 66, cfg.Game.MaxRealmLevel)
	assert.Equal(t, 30*time.Second, cfg.Game.CultivationTick)
	assert.InDelta(t, 0.25, cfg.Game.Breakthrough.FailureProbability, 1e-9)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("XIUXIAN_SERVER_PORT", "7070")
	cfg, err := Load(writeConfig(t, "server:\n  port: 9090\n"))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
