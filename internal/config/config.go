package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingBaseURL is returned when no API base URL is configured.
var ErrMissingBaseURL = errors.New("API base URL is not set (CCWEB_API_BASE_URL)")

// APIConfig configures the REST client.
type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
	LogCalls  bool   `yaml:"log_calls"`
}

// RealtimeConfig configures the WebSocket connection.
type RealtimeConfig struct {
	URL         string `yaml:"url"`
	MaxAttempts int    `yaml:"max_attempts"`
	IntervalMs  int    `yaml:"interval_ms"`
}

// CalendarConfig configures the week cache and the calendar grid.
type CalendarConfig struct {
	RefetchIntervalSec int    `yaml:"refetch_interval_sec"`
	LongPressMenuMs    int    `yaml:"long_press_menu_ms"`
	LongPressEditMs    int    `yaml:"long_press_edit_ms"`
	SlotMinutes        int    `yaml:"slot_minutes"`
	DayStartHour       int    `yaml:"day_start_hour"`
	DayEndHour         int    `yaml:"day_end_hour"`
	RefreshCron        string `yaml:"refresh_cron"`
	Timezone           string `yaml:"timezone"`
}

// Config is the full client configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Realtime RealtimeConfig `yaml:"realtime"`
	Calendar CalendarConfig `yaml:"calendar"`
	DBPath   string         `yaml:"db_path"`
	LogLevel string         `yaml:"log_level"`
}

// DefaultConfig returns a Config with every default filled in except the
// API base URL, which has no sensible default.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			TimeoutMs: 10000,
		},
		Realtime: RealtimeConfig{
			MaxAttempts: 5,
			IntervalMs:  3000,
		},
		Calendar: CalendarConfig{
			RefetchIntervalSec: 30,
			LongPressMenuMs:    500,
			LongPressEditMs:    1000,
			SlotMinutes:        30,
			DayStartHour:       6,
			DayEndHour:         22,
			RefreshCron:        "*/5 * * * *",
		},
		LogLevel: "info",
	}
}

// DefaultPath returns the config file location: CCWEB_CONFIG or
// ~/.ccweb/config.yaml.
func DefaultPath() (string, error) {
	if v := os.Getenv("CCWEB_CONFIG"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".ccweb", "config.yaml"), nil
}

// Load builds the configuration from defaults, the optional YAML file at
// path, then environment variables, and validates the result. A missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CCWEB_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	} else if v := os.Getenv("NEXT_PUBLIC_API_BASE_URL"); v != "" && cfg.API.BaseURL == "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("CCWEB_API_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.API.TimeoutMs = n
		}
	}
	if v := os.Getenv("CCWEB_LOG_CALLS"); v != "" {
		cfg.API.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CCWEB_WS_URL"); v != "" {
		cfg.Realtime.URL = v
	}
	if v := os.Getenv("CCWEB_WS_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Realtime.MaxAttempts = n
		}
	}
	if v := os.Getenv("CCWEB_WS_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Realtime.IntervalMs = n
		}
	}
	if v := os.Getenv("CCWEB_REFETCH_INTERVAL_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Calendar.RefetchIntervalSec = n
		}
	}
	if v := os.Getenv("CCWEB_REFRESH_CRON"); v != "" {
		cfg.Calendar.RefreshCron = v
	}
	if v := os.Getenv("CCWEB_TIMEZONE"); v != "" {
		cfg.Calendar.Timezone = v
	}
	if v := os.Getenv("CCWEB_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CCWEB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Normalize fills zero values left by a partial config file.
func (c *Config) Normalize() {
	def := DefaultConfig()
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.TimeoutMs <= 0 {
		c.API.TimeoutMs = def.API.TimeoutMs
	}
	if c.Realtime.IntervalMs <= 0 {
		c.Realtime.IntervalMs = def.Realtime.IntervalMs
	}
	if c.Realtime.MaxAttempts < 0 {
		c.Realtime.MaxAttempts = def.Realtime.MaxAttempts
	}
	if c.Calendar.LongPressMenuMs <= 0 {
		c.Calendar.LongPressMenuMs = def.Calendar.LongPressMenuMs
	}
	if c.Calendar.LongPressEditMs <= 0 {
		c.Calendar.LongPressEditMs = def.Calendar.LongPressEditMs
	}
	if c.Calendar.SlotMinutes <= 0 || 60%c.Calendar.SlotMinutes != 0 {
		c.Calendar.SlotMinutes = def.Calendar.SlotMinutes
	}
	if c.Calendar.DayEndHour <= c.Calendar.DayStartHour || c.Calendar.DayEndHour > 24 || c.Calendar.DayStartHour < 0 {
		c.Calendar.DayStartHour = def.Calendar.DayStartHour
		c.Calendar.DayEndHour = def.Calendar.DayEndHour
	}
	if c.Calendar.RefreshCron == "" {
		c.Calendar.RefreshCron = def.Calendar.RefreshCron
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// Validate checks required settings and derives the WebSocket URL from the
// API base URL when it was not set explicitly.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrMissingBaseURL
	}
	base, err := url.Parse(c.API.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("invalid API base URL %q", c.API.BaseURL)
	}
	if c.Realtime.URL == "" {
		c.Realtime.URL = DeriveWebSocketURL(base)
	}
	if c.Calendar.LongPressEditMs <= c.Calendar.LongPressMenuMs {
		return fmt.Errorf("long_press_edit_ms (%d) must exceed long_press_menu_ms (%d)",
			c.Calendar.LongPressEditMs, c.Calendar.LongPressMenuMs)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// DeriveWebSocketURL maps http(s)://host/... to ws(s)://host/ws.
func DeriveWebSocketURL(base *url.URL) string {
	scheme := "ws"
	if base.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{Scheme: scheme, Host: base.Host, Path: "/ws"}).String()
}

// APITimeout returns the per-request timeout.
func (c Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutMs) * time.Millisecond
}

// RefetchInterval returns the minimum spacing between fetches of one week.
func (c Config) RefetchInterval() time.Duration {
	return time.Duration(c.Calendar.RefetchIntervalSec) * time.Second
}

// ReconnectInterval returns the fixed delay between reconnect attempts.
func (c Config) ReconnectInterval() time.Duration {
	return time.Duration(c.Realtime.IntervalMs) * time.Millisecond
}

// LongPressDelays returns the context-menu and edit-mode delays.
func (c Config) LongPressDelays() (menu, edit time.Duration) {
	return time.Duration(c.Calendar.LongPressMenuMs) * time.Millisecond,
		time.Duration(c.Calendar.LongPressEditMs) * time.Millisecond
}

// Location resolves the configured timezone, defaulting to time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Calendar.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Calendar.Timezone, err)
	}
	return loc, nil
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to Info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ResolveDBPath returns DBPath or the default ~/.ccweb/ccweb.db.
func (c Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".ccweb", "ccweb.db"), nil
}
