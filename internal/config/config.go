package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Batch conversion
	InputDir    string
	OutputDir   string
	Workers     int
	MaxGridRows int

	// Logging
	LogLevel string

	// Fetch
	FetchDelay   time.Duration
	FetchTimeout time.Duration
	FetchRetries int
	UserAgent    string
}

func Load() Config {
	cfg := Config{
		InputDir:    envOr("JBOOKS_INPUT_DIR", "fy2026_budget"),
		OutputDir:   envOr("JBOOKS_OUTPUT_DIR", "data"),
		Workers:     envInt("JBOOKS_WORKERS", 4),
		MaxGridRows: envInt("JBOOKS_MAX_GRID_ROWS", 500),

		LogLevel: envOr("JBOOKS_LOG_LEVEL", "info"),

		FetchDelay:   envDuration("JBOOKS_FETCH_DELAY", 300*time.Millisecond),
		FetchTimeout: envDuration("JBOOKS_FETCH_TIMEOUT", 120*time.Second),
		FetchRetries: envInt("JBOOKS_FETCH_RETRIES", 3),
		UserAgent: envOr("JBOOKS_USER_AGENT",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"),
	}

	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.MaxGridRows <= 0 {
		cfg.MaxGridRows = 500
	}
	if cfg.FetchDelay < 0 {
		cfg.FetchDelay = 300 * time.Millisecond
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 120 * time.Second
	}
	if cfg.FetchRetries < 0 {
		cfg.FetchRetries = 3
	}

	return cfg
}

func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("JBOOKS_OUTPUT_DIR must not be empty")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses the configured log level.
func (c Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
