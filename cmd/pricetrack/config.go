package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/pricetrack"
	"github.com/spf13/viper"
)

// Config holds the program configuration.
type Config struct {
	DB        string          `mapstructure:"db"`
	Log       LogConfig       `mapstructure:"log"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
}

// LogConfig configures the stderr logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// FetchConfig configures static page fetching.
type FetchConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRedirects      int           `mapstructure:"max_redirects"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// BrowserConfig configures headless rendering.
type BrowserConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Stealth bool   `mapstructure:"stealth"`
	Bin     string `mapstructure:"bin"`
}

// SchedulerConfig configures price check sweeps.
type SchedulerConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	ItemDelay   time.Duration `mapstructure:"item_delay"`
	Concurrency int           `mapstructure:"concurrency"`
	RunOnStart  bool          `mapstructure:"run_on_start"`
}

// GeminiConfig configures product categorization. An empty key disables it.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// SMTPConfig configures email notifications. An empty host disables them.
type SMTPConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from"`
	To       []string      `mapstructure:"to"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// LoadConfig reads configuration. PRICETRACK_ environment variables
// override the config file, which overrides defaults. An empty path
// searches for pricetrack.yaml in the working directory and ~/.pricetrack.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix("PRICETRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pricetrack")
		v.AddConfigPath(".")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, pricetrack.Errorf(pricetrack.ECONFIG, "failed to read config file: %v", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, pricetrack.Errorf(pricetrack.ECONFIG, "unable to decode config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", defaultDBPath())

	v.SetDefault("log.level", "info")

	v.SetDefault("fetch.timeout", "15s")
	v.SetDefault("fetch.max_redirects", 5)
	v.SetDefault("fetch.requests_per_second", 1.0)

	v.SetDefault("browser.enabled", true)
	v.SetDefault("browser.stealth", true)
	v.SetDefault("browser.bin", "")

	v.SetDefault("scheduler.interval", "12h")
	v.SetDefault("scheduler.item_delay", "1s")
	v.SetDefault("scheduler.concurrency", 1)
	v.SetDefault("scheduler.run_on_start", false)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.to", []string{})
	v.SetDefault("smtp.timeout", "30s")
}

// Validate returns ECONFIG for unusable settings.
func (c *Config) Validate() error {
	if c.DB == "" {
		return pricetrack.Errorf(pricetrack.ECONFIG, "db path required")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Fetch.Timeout <= 0 {
		return pricetrack.Errorf(pricetrack.ECONFIG, "fetch.timeout must be positive")
	}
	if c.Fetch.MaxRedirects < 0 {
		return pricetrack.Errorf(pricetrack.ECONFIG, "fetch.max_redirects must not be negative")
	}
	if c.Fetch.RequestsPerSecond <= 0 {
		return pricetrack.Errorf(pricetrack.ECONFIG, "fetch.requests_per_second must be positive")
	}
	if c.Scheduler.Interval <= 0 {
		return pricetrack.Errorf(pricetrack.ECONFIG, "scheduler.interval must be positive")
	}
	if c.Scheduler.ItemDelay < 0 {
		return pricetrack.Errorf(pricetrack.ECONFIG, "scheduler.item_delay must not be negative")
	}
	if c.Scheduler.Concurrency < 1 {
		return pricetrack.Errorf(pricetrack.ECONFIG, "scheduler.concurrency must be at least 1")
	}
	if c.SMTP.Host != "" && (c.SMTP.From == "" || len(c.SMTP.To) == 0) {
		return pricetrack.Errorf(pricetrack.ECONFIG, "smtp.from and smtp.to are required when smtp.host is set")
	}
	if c.SMTP.Host != "" && c.SMTP.Timeout <= 0 {
		return pricetrack.Errorf(pricetrack.ECONFIG, "smtp.timeout must be positive")
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, pricetrack.Errorf(pricetrack.ECONFIG, "invalid log.level %q", c.Log.Level)
	}
	return level, nil
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pricetrack")
}

func defaultDBPath() string {
	dir := configDir()
	if dir == "" {
		return "pricetrack.db"
	}
	return filepath.Join(dir, "pricetrack.db")
}

// ensureDBDir creates the directory holding the database file.
func ensureDBDir(path string) error {
	if path == ":memory:" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}
