package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	customerrors "github.com/axellelanca/linkshortener/internal/errors"
)

const (
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Config represents the main structure mapping the entire application configuration.
// This struct uses mapstructure tags to map YAML keys to Go struct fields.
type Config struct {
	Server struct {
		Port    int    `mapstructure:"port"`
		BaseURL string `mapstructure:"base_url"` // Base URL for generating short links
	} `mapstructure:"server"`

	// Store selects and configures the key-value backend
	Store struct {
		Driver string `mapstructure:"driver"` // redis or sqlite

		Redis struct {
			Host               string `mapstructure:"host"`
			Port               int    `mapstructure:"port"`
			Password           string `mapstructure:"password"`
			DB                 int    `mapstructure:"db"`
			PoolSize           int    `mapstructure:"pool_size"`
			MinIdleConns       int    `mapstructure:"min_idle_conns"`
			DialTimeoutSeconds int    `mapstructure:"dial_timeout_seconds"`
		} `mapstructure:"redis"`

		SQLite struct {
			Name string `mapstructure:"name"` // SQLite database file name
		} `mapstructure:"sqlite"`
	} `mapstructure:"store"`

	Keys struct {
		Prefix string `mapstructure:"prefix"`
	} `mapstructure:"keys"`

	// Generator bounds the random jitter mixed into every identifier
	Generator struct {
		JitterMin int64 `mapstructure:"jitter_min"`
		JitterMax int64 `mapstructure:"jitter_max"`
	} `mapstructure:"generator"`

	// Analytics configuration for asynchronous click accounting
	Analytics struct {
		BufferSize     int `mapstructure:"buffer_size"`
		WorkerCount    int `mapstructure:"worker_count"`
		ClickTimeoutMs int `mapstructure:"click_timeout_ms"`
	} `mapstructure:"analytics"`

	// Monitor configuration for URL health checking
	Monitor struct {
		Enabled         bool `mapstructure:"enabled"`
		IntervalMinutes int  `mapstructure:"interval_minutes"`
	} `mapstructure:"monitor"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // json or text
	} `mapstructure:"log"`
}

// RedisAddr returns host:port for the Redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Store.Redis.Host, c.Store.Redis.Port)
}

func (c *Config) RedisDialTimeout() time.Duration {
	return time.Duration(c.Store.Redis.DialTimeoutSeconds) * time.Second
}

func (c *Config) ClickTimeout() time.Duration {
	return time.Duration(c.Analytics.ClickTimeoutMs) * time.Millisecond
}

func (c *Config) MonitorInterval() time.Duration {
	return time.Duration(c.Monitor.IntervalMinutes) * time.Minute
}

// Validate rejects configurations the store and workers cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverRedis, DriverSQLite:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Generator.JitterMin < 0 || c.Generator.JitterMax <= c.Generator.JitterMin {
		return fmt.Errorf("invalid jitter range [%d, %d)", c.Generator.JitterMin, c.Generator.JitterMax)
	}
	if c.Analytics.WorkerCount < 1 {
		return fmt.Errorf("analytics.worker_count must be at least 1, got %d", c.Analytics.WorkerCount)
	}
	if c.Analytics.BufferSize < 0 {
		return fmt.Errorf("analytics.buffer_size must not be negative, got %d", c.Analytics.BufferSize)
	}
	if c.Analytics.ClickTimeoutMs < 1 {
		return fmt.Errorf("analytics.click_timeout_ms must be at least 1, got %d", c.Analytics.ClickTimeoutMs)
	}
	if c.Monitor.Enabled && c.Monitor.IntervalMinutes < 1 {
		return fmt.Errorf("monitor.interval_minutes must be at least 1, got %d", c.Monitor.IntervalMinutes)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("store.driver", DriverRedis)
	v.SetDefault("store.redis.host", "localhost")
	v.SetDefault("store.redis.port", 6379)
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.pool_size", 10)
	v.SetDefault("store.redis.min_idle_conns", 2)
	v.SetDefault("store.redis.dial_timeout_seconds", 5)
	v.SetDefault("store.sqlite.name", "url_shortener.db")
	v.SetDefault("keys.prefix", "ius:")
	v.SetDefault("generator.jitter_min", 9999)
	v.SetDefault("generator.jitter_max", 999999)
	v.SetDefault("analytics.buffer_size", 1000)
	v.SetDefault("analytics.worker_count", 5)
	v.SetDefault("analytics.click_timeout_ms", 2000)
	v.SetDefault("monitor.enabled", false)
	v.SetDefault("monitor.interval_minutes", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration from configFile, or from ./configs/config.yaml when empty.
// A missing config file is not an error; defaults and environment variables apply.
func Load(configFile string) (*Config, error) {
	// .env is optional, e.g. absent in production
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	// "store.redis.host" becomes "STORE_REDIS_HOST"
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath("./configs")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, customerrors.ErrConfigLoad{Path: configFile, Reason: err.Error()}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
