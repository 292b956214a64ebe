package main_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/pricetrack"
	main "github.com/fwojciec/pricetrack/cmd/pricetrack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pricetrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		path := writeConfig(t, "db: /tmp/items.db\n")

		cfg, err := main.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "/tmp/items.db", cfg.DB)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout)
		assert.Equal(t, 5, cfg.Fetch.MaxRedirects)
		assert.InDelta(t, 1.0, cfg.Fetch.RequestsPerSecond, 1e-9)
		assert.True(t, cfg.Browser.Enabled)
		assert.True(t, cfg.Browser.Stealth)
		assert.Equal(t, 12*time.Hour, cfg.Scheduler.Interval)
		assert.Equal(t, time.Second, cfg.Scheduler.ItemDelay)
		assert.Equal(t, 1, cfg.Scheduler.Concurrency)
		assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
		assert.Equal(t, 587, cfg.SMTP.Port)
		assert.Equal(t, 30*time.Second, cfg.SMTP.Timeout)
	})

	t.Run("reads nested values from file", func(t *testing.T) {
		path := writeConfig(t, `
db: /tmp/items.db
log:
  level: debug
scheduler:
  interval: 30m
  concurrency: 2
smtp:
  host: mail.example.com
  from: alerts@example.com
  to:
    - me@example.com
`)

		cfg, err := main.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 30*time.Minute, cfg.Scheduler.Interval)
		assert.Equal(t, 2, cfg.Scheduler.Concurrency)
		assert.Equal(t, []string{"me@example.com"}, cfg.SMTP.To)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "db: /tmp/items.db\nscheduler:\n  interval: 30m\n")
		t.Setenv("PRICETRACK_SCHEDULER_INTERVAL", "2h")
		t.Setenv("PRICETRACK_BROWSER_ENABLED", "false")

		cfg, err := main.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour, cfg.Scheduler.Interval)
		assert.False(t, cfg.Browser.Enabled)
	})

	t.Run("fails for missing explicit file", func(t *testing.T) {
		_, err := main.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.Equal(t, pricetrack.ECONFIG, pricetrack.ErrorCode(err))
	})

	t.Run("rejects non-positive interval", func(t *testing.T) {
		path := writeConfig(t, "scheduler:\n  interval: 0s\n")

		_, err := main.LoadConfig(path)

		assert.Equal(t, pricetrack.ECONFIG, pricetrack.ErrorCode(err))
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *main.Config {
		return &main.Config{
			DB:        "items.db",
			Log:       main.LogConfig{Level: "info"},
			Fetch:     main.FetchConfig{Timeout: time.Second, MaxRedirects: 5, RequestsPerSecond: 1},
			Scheduler: main.SchedulerConfig{Interval: time.Hour, Concurrency: 1},
		}
	}

	t.Run("accepts valid config", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, valid().Validate())
	})

	t.Run("rejects zero concurrency", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Scheduler.Concurrency = 0

		assert.Equal(t, pricetrack.ECONFIG, pricetrack.ErrorCode(cfg.Validate()))
	})

	t.Run("rejects non-positive fetch timeout", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Fetch.Timeout = 0

		assert.Equal(t, pricetrack.ECONFIG, pricetrack.ErrorCode(cfg.Validate()))
	})

	t.Run("rejects unknown log level", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Log.Level = "verbose"

		assert.Equal(t, pricetrack.ECONFIG, pricetrack.ErrorCode(cfg.Validate()))
	})

	t.Run("requires sender and recipients with smtp host", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.SMTP.Host = "mail.example.com"

		assert.Equal(t, pricetrack.ECONFIG, pricetrack.ErrorCode(cfg.Validate()))
	})

	t.Run("rejects non-positive smtp timeout", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.SMTP = main.SMTPConfig{Host: "mail.example.com", From: "alerts@example.com", To: []string{"me@example.com"}}

		assert.Equal(t, pricetrack.ECONFIG, pricetrack.ErrorCode(cfg.Validate()))
	})
}
