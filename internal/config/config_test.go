package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerrors "github.com/axellelanca/linkshortener/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, 10, cfg.Store.Redis.PoolSize)
	assert.Equal(t, "ius:", cfg.Keys.Prefix)
	assert.Equal(t, int64(9999), cfg.Generator.JitterMin)
	assert.Equal(t, int64(999999), cfg.Generator.JitterMax)
	assert.Equal(t, 2*time.Second, cfg.ClickTimeout())
	assert.False(t, cfg.Monitor.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("STORE_REDIS_HOST", "cache.internal")
	t.Setenv("ANALYTICS_WORKER_COUNT", "3")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "cache.internal:6379", cfg.RedisAddr())
	assert.Equal(t, 3, cfg.Analytics.WorkerCount)
}

func TestLoadRejectsZeroClickTimeout(t *testing.T) {
	t.Setenv("ANALYTICS_CLICK_TIMEOUT_MS", "0")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9091
store:
  redis:
    password: s3cret
keys:
  prefix: "links:"
monitor:
  enabled: true
  interval_minutes: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9091, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.Store.Redis.Password)
	assert.Equal(t, "links:", cfg.Keys.Prefix)
	assert.True(t, cfg.Monitor.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.MonitorInterval())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	var loadErr customerrors.ErrConfigLoad
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidate(t *testing.T) {
	for _, testCase := range []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "memcached" }},
		{name: "empty jitter range", mutate: func(c *Config) { c.Generator.JitterMax = c.Generator.JitterMin }},
		{name: "negative jitter", mutate: func(c *Config) { c.Generator.JitterMin = -1 }},
		{name: "no workers", mutate: func(c *Config) { c.Analytics.WorkerCount = 0 }},
		{name: "zero click timeout", mutate: func(c *Config) { c.Analytics.ClickTimeoutMs = 0 }},
		{name: "negative click timeout", mutate: func(c *Config) { c.Analytics.ClickTimeoutMs = -5 }},
		{name: "monitor without interval", mutate: func(c *Config) {
			c.Monitor.Enabled = true
			c.Monitor.IntervalMinutes = 0
		}},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			testCase.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
