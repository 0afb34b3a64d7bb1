package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dtnitsch/bookfreq/models"
	"github.com/dtnitsch/bookfreq/pkg/caching"
	"github.com/dtnitsch/bookfreq/pkg/db"
	"github.com/dtnitsch/bookfreq/pkg/detector"
	"github.com/dtnitsch/bookfreq/pkg/fetcher"
	"github.com/dtnitsch/bookfreq/pkg/library"
	"github.com/dtnitsch/bookfreq/pkg/metrics"
	"github.com/urfave/cli/v2"
)

// App is everything a command needs, opened once per invocation.
type App struct {
	Config  *models.Config
	Logger  *slog.Logger
	Store   *db.DB
	Cache   caching.TextCache
	Metrics *metrics.Metrics
	Library *library.Library
}

// LoadConfig resolves the configuration for c: the YAML file and
// environment first, then any global flag the user set.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("db-driver") {
		cfg.Database.Driver = c.String("db-driver")
	}
	if c.IsSet("db-dsn") {
		cfg.Database.DSN = c.String("db-dsn")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if c.IsSet("metrics-file") {
		cfg.Metrics.File = c.String("metrics-file")
	}
	if c.IsSet("top") {
		cfg.Top = c.Int("top")
	}
	if c.IsSet("progress") {
		cfg.Fetch.Progress = c.Bool("progress")
	}
	if c.IsSet("html-text") {
		cfg.Fetch.HTMLText = c.Bool("html-text")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Setup loads the configuration and opens the store, the text cache and
// the library for one command. Callers must Close the result.
func Setup(c *cli.Context) (*App, error) {
	cfg, err := LoadConfig(c)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := NewLogger(c.App.ErrWriter, cfg.Logging.Level, cfg.Logging.Format, c.Bool("quiet"))

	store, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	cache, err := openCache(c.Context, cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	m := metrics.New()
	lib := library.New(library.Options{
		Store: store,
		Source: fetcher.NewFetcher(fetcher.Options{
			Timeout:   cfg.Fetch.Timeout,
			UserAgent: cfg.Fetch.UserAgent,
			Progress:  cfg.Fetch.Progress,
			Output:    c.App.ErrWriter,
		}),
		Cache:    cache,
		Detector: detector.New(),
		Metrics:  m,
		Logger:   logger,
		Top:      cfg.Top,
		HTMLText: cfg.Fetch.HTMLText,
	})

	logger.Debug("store opened", "driver", store.Driver(), "path", store.Path(), "cache", cfg.Cache.Backend)
	return &App{Config: cfg, Logger: logger, Store: store, Cache: cache, Metrics: m, Library: lib}, nil
}

func openCache(ctx context.Context, cfg *models.Config, logger *slog.Logger) (caching.TextCache, error) {
	switch cfg.Cache.Backend {
	case "none":
		return caching.Nop{}, nil
	case "redis":
		cache, err := caching.NewRedisCache(ctx, caching.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			// A missing redis only costs a re-download.
			logger.Warn("redis cache unavailable, continuing without cache", "addr", cfg.Redis.Addr, "error", err)
			return caching.Nop{}, nil
		}
		return cache, nil
	default:
		cache, err := caching.NewCache(cfg.Cache.Dir, cfg.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize text cache: %w", err)
		}
		return cache, nil
	}
}

// Close writes the metrics textfile, if configured, and releases the
// cache and the store.
func (a *App) Close() error {
	var errs []error
	if a.Config.Metrics.File != "" {
		if err := a.Metrics.WriteFile(a.Config.Metrics.File); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.Cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close cache: %w", err))
	}
	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	}
	return errors.Join(errs...)
}

// Exit converts an action error into a cli exit error: 1 for missing
// input, 2 for everything else.
func Exit(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, library.ErrEmptyInput) {
		return cli.Exit("Warning: "+err.Error(), 1)
	}
	var re *fetcher.RetrievalError
	if errors.As(err, &re) {
		return cli.Exit("Error: "+re.Error(), 2)
	}
	return cli.Exit("Error: "+err.Error(), 2)
}

// Warn prints an informational line for the user on stderr.
func Warn(c *cli.Context, format string, args ...any) {
	w := c.App.ErrWriter
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, format+"\n", args...)
}
