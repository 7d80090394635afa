package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	colors.SetOutput(&discard{}, &discard{})
	t.Cleanup(func() {
		colors.SetOutput(nil, nil)
		reset()
	})
	return tmp
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestDefaults(t *testing.T) {
	tmp := isolate(t)
	reset()
	Load()

	require.Equal(t, filepath.Join(tmp, "config", "orderdesk"), Get("config_dir", ""))
	require.Equal(t, filepath.Join(tmp, "state", "orderdesk"), Get("state_dir", ""))
	require.Equal(t, 5*time.Minute, GetSeconds("cache_ttl_seconds", 0))
	require.Equal(t, 2*time.Minute, GetSeconds("cache_evict_grace_seconds", 0))
	require.Equal(t, 100, GetInt("fetch_page_limit", 0))
	require.Equal(t, 10, GetInt("fetch_max_pages", 0))
	require.Equal(t, 15*time.Second, GetSeconds("detail_timeout_seconds", 0))
	require.Equal(t, 10*time.Second, GetSeconds("poll_interval_seconds", 0))
	require.Equal(t, 2*time.Second, GetSeconds("poll_baseline_delay_seconds", 0))
	require.True(t, GetBool("breaker_enabled", false))
	require.InDelta(t, 0.5, GetFloat("breaker_failure_ratio", 0), 1e-9)
}

func TestSampleConfigCreated(t *testing.T) {
	tmp := isolate(t)
	reset()
	Load()

	data, err := os.ReadFile(filepath.Join(tmp, "config", "orderdesk", "config.toml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "# orderdesk configuration")
	require.Contains(t, string(data), "cache_ttl_seconds = 300")
}

func TestPrecedenceEnvOverFileOverDefaults(t *testing.T) {
	tmp := isolate(t)
	configFile := filepath.Join(tmp, "custom.toml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
fetch_page_limit = 50
cache_backend = "memory"
api_base_url = "https://shop.example.com/api/admin/"
poll_interval_seconds = 30
`), 0644))

	t.Setenv("ORDERDESK_CONFIG_PATH", configFile)
	t.Setenv("ORDERDESK_POLL_INTERVAL_SECONDS", "5")
	reset()
	Load()

	require.Equal(t, 50, GetInt("fetch_page_limit", 0))
	require.Equal(t, "memory", Get("cache_backend", ""))
	require.Equal(t, "https://shop.example.com/api/admin", Get("api_base_url", ""))
	require.Equal(t, 5*time.Second, GetSeconds("poll_interval_seconds", 0))
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("ORDERDESK_CACHE_TTL_SECONDS", "-3")
	t.Setenv("ORDERDESK_CACHE_BACKEND", "redis")
	t.Setenv("ORDERDESK_DEBUG", "maybe")
	t.Setenv("ORDERDESK_API_BASE_URL", "ftp://nope")
	t.Setenv("ORDERDESK_BREAKER_FAILURE_RATIO", "2")
	reset()
	Load()

	require.Equal(t, "300", Get("cache_ttl_seconds", ""))
	require.Equal(t, "sqlite", Get("cache_backend", ""))
	require.Equal(t, "false", Get("debug", ""))
	require.Equal(t, "http://localhost:5000/api/admin", Get("api_base_url", ""))
	require.Equal(t, "0.5", Get("breaker_failure_ratio", ""))
}

func TestBoolNormalization(t *testing.T) {
	isolate(t)
	t.Setenv("ORDERDESK_HOOKS_ENABLED", "off")
	t.Setenv("ORDERDESK_LOGGING_ENABLED", "YES")
	reset()
	Load()

	require.False(t, GetBool("hooks_enabled", true))
	require.True(t, GetBool("logging_enabled", false))
	require.Equal(t, 7, GetInt("missing_key", 7))
}

func TestRegisterValidatorPanicsOnDuplicate(t *testing.T) {
	require.Panics(t, func() {
		RegisterValidator("cache_backend", BoolValidator())
	})
}
