package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"LISTEN_ADDR", "DB_PATH", "CAPACITY_API_URL", "POLL_INTERVAL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, ".", cfg.DBDir)
	assert.Empty(t, cfg.APIURL)
	assert.Equal(t, 5*time.Minute, cfg.PollInterval)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/var/lib/capacity")
	t.Setenv("CAPACITY_API_URL", "http://localhost:1234/capacity")
	t.Setenv("POLL_INTERVAL", "30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/var/lib/capacity", cfg.DBDir)
	assert.Equal(t, "http://localhost:1234/capacity", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "five minutes")

	cfg := Load()

	assert.Equal(t, 5*time.Minute, cfg.PollInterval)
}

func TestDBFile(t *testing.T) {
	cfg := Config{DBDir: "/data"}
	assert.Equal(t, filepath.Join("/data", "capacity.db"), cfg.DBFile())

	cfg = Config{DBDir: "."}
	assert.Equal(t, "capacity.db", cfg.DBFile())
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "info", want: slog.LevelInfo},
		{level: "warn", want: slog.LevelWarn},
		{level: "error", want: slog.LevelError},
		{level: "loud", want: slog.LevelInfo},
		{level: "", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		cfg := Config{LogLevel: tt.level}
		assert.Equal(t, tt.want, cfg.SlogLevel(), "level %q", tt.level)
	}
}
