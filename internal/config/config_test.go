package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so host settings do not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CCWEB_API_BASE_URL", "NEXT_PUBLIC_API_BASE_URL", "CCWEB_API_TIMEOUT_MS",
		"CCWEB_LOG_CALLS", "CCWEB_WS_URL", "CCWEB_WS_MAX_ATTEMPTS", "CCWEB_WS_INTERVAL_MS",
		"CCWEB_REFETCH_INTERVAL_SEC", "CCWEB_REFRESH_CRON", "CCWEB_TIMEZONE",
		"CCWEB_DB", "CCWEB_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingBaseURL(t *testing.T) {
	clearEnv(t)
	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingBaseURL)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CCWEB_API_BASE_URL", "https://api.example.com/")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, "wss://api.example.com/ws", cfg.Realtime.URL)
	assert.Equal(t, 30*time.Second, cfg.RefetchInterval())
	assert.Equal(t, 3*time.Second, cfg.ReconnectInterval())
	assert.Equal(t, 5, cfg.Realtime.MaxAttempts)

	menu, edit := cfg.LongPressDelays()
	assert.Equal(t, 500*time.Millisecond, menu)
	assert.Equal(t, time.Second, edit)
}

func TestLoad_LegacyEnvName(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEXT_PUBLIC_API_BASE_URL", "http://localhost:8000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, "ws://localhost:8000/ws", cfg.Realtime.URL)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://file.example.com
  timeout_ms: 2500
realtime:
  url: ws://file.example.com/socket
  max_attempts: 2
calendar:
  slot_minutes: 15
  refresh_cron: "*/10 * * * *"
log_level: debug
`), 0o600))
	t.Setenv("CCWEB_WS_MAX_ATTEMPTS", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://file.example.com", cfg.API.BaseURL)
	assert.Equal(t, 2500*time.Millisecond, cfg.APITimeout())
	assert.Equal(t, "ws://file.example.com/socket", cfg.Realtime.URL)
	assert.Equal(t, 7, cfg.Realtime.MaxAttempts)
	assert.Equal(t, 15, cfg.Calendar.SlotMinutes)
	assert.Equal(t, "*/10 * * * *", cfg.Calendar.RefreshCron)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, 1000, cfg.Calendar.LongPressEditMs, "unset values keep defaults")
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	clearEnv(t)
	t.Setenv("CCWEB_API_BASE_URL", "http://localhost:8000")
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestNormalize_InvalidGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Calendar.SlotMinutes = 7
	cfg.Calendar.DayStartHour = 20
	cfg.Calendar.DayEndHour = 8
	cfg.Normalize()
	assert.Equal(t, 30, cfg.Calendar.SlotMinutes)
	assert.Equal(t, 6, cfg.Calendar.DayStartHour)
	assert.Equal(t, 22, cfg.Calendar.DayEndHour)
}

func TestValidate_EditDelayMustExceedMenuDelay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://localhost"
	cfg.Calendar.LongPressEditMs = 400
	assert.Error(t, cfg.Validate())
}

func TestValidate_BadBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.BaseURL = "not a url"
	assert.Error(t, cfg.Validate())
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, Config{LogLevel: in}.SlogLevel(), in)
	}
}
