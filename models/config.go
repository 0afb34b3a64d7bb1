package models

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "bookfreq.yaml"

// Config is the runtime configuration. Values are resolved in order:
// defaults, YAML file, BOOKFREQ_* environment, CLI flags.
type Config struct {
	Top      int            `yaml:"top"`
	Database DatabaseConfig `yaml:"database"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Cache    CacheConfig    `yaml:"cache"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// DatabaseConfig selects the store driver. DSN is a file path for sqlite
// and a lib/pq connection string for postgres.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// FetchConfig holds the text source settings.
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
	Progress  bool          `yaml:"progress"`
	HTMLText  bool          `yaml:"htmlText"` // count the visible text of HTML bodies instead of the markup
}

// CacheConfig controls the downloaded text cache. Backend is one of
// "file", "redis" or "none".
type CacheConfig struct {
	Backend string        `yaml:"backend"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig points at a Prometheus textfile written on exit.
// An empty File disables the export.
type MetricsConfig struct {
	File string `yaml:"file"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Top: 10,
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "bookfreq.db",
		},
		Fetch: FetchConfig{
			Timeout:   10 * time.Second,
			UserAgent: "bookfreq/1.0",
		},
		Cache: CacheConfig{
			Backend: "file",
			Dir:     ".bookfreq-cache",
			TTL:     24 * time.Hour,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "bookfreq:text:",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig reads the YAML file at path on top of the defaults and applies
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BOOKFREQ_TOP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Top = n
		}
	}
	if v := os.Getenv("BOOKFREQ_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("BOOKFREQ_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("BOOKFREQ_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Fetch.Timeout = d
		}
	}
	if v := os.Getenv("BOOKFREQ_FETCH_HTML_TEXT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Fetch.HTMLText = b
		}
	}
	if v := os.Getenv("BOOKFREQ_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("BOOKFREQ_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("BOOKFREQ_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if v := os.Getenv("BOOKFREQ_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("BOOKFREQ_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("BOOKFREQ_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("BOOKFREQ_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("BOOKFREQ_METRICS_FILE"); v != "" {
		cfg.Metrics.File = v
	}
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.Top <= 0 || c.Top > MaxTop {
		return fmt.Errorf("top must be between 1 and %d, got %d", MaxTop, c.Top)
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database driver: %s (use: sqlite or postgres)", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return fmt.Errorf("unknown cache backend: %s (use: file, redis, or none)", c.Cache.Backend)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.Fetch.Timeout)
	}
	return nil
}
