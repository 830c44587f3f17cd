// Package config provides environment-based configuration loading.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// dbFileName is the database file created inside the configured directory.
const dbFileName = "capacity.db"

// Config holds the process configuration.
type Config struct {
	ListenAddr   string
	DBDir        string
	APIURL       string
	PollInterval time.Duration
	LogLevel     string
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() Config {
	return Config{
		ListenAddr:   envStr("LISTEN_ADDR", ":8080"),
		DBDir:        envStr("DB_PATH", "."),
		APIURL:       envStr("CAPACITY_API_URL", ""),
		PollInterval: envDuration("POLL_INTERVAL", 5*time.Minute),
		LogLevel:     envStr("LOG_LEVEL", "info"),
	}
}

// DBFile returns the full path of the SQLite database file.
func (c Config) DBFile() string {
	return filepath.Join(c.DBDir, dbFileName)
}

// SlogLevel maps the configured log level string to a slog.Level,
// defaulting to info for unknown values.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
