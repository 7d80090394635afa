package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/config"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	config.Load()
	return tmp
}

func TestConfigFromGlobal(t *testing.T) {
	setupTest(t)
	t.Setenv("ORDERDESK_LOGGING_ENABLED", "true")
	t.Setenv("ORDERDESK_LOGGING_LEVEL", "warn")
	t.Setenv("ORDERDESK_LOGGING_MAX_FILES", "5")
	config.Load()

	cfg := FromGlobalConfig()
	require.True(t, cfg.Enabled)
	require.Equal(t, "warn", cfg.Level)
	require.Equal(t, 5, cfg.MaxFiles)
	require.Equal(t, os.Getpid(), cfg.PID)
}

func TestDebugAndQuietOverrideLevel(t *testing.T) {
	setupTest(t)
	t.Setenv("ORDERDESK_QUIET", "true")
	config.Load()
	require.Equal(t, "error", FromGlobalConfig().Level)

	t.Setenv("ORDERDESK_DEBUG", "true")
	config.Load()
	require.Equal(t, "debug", FromGlobalConfig().Level)
}

func TestDisabledLoggerIsNoop(t *testing.T) {
	l, err := Init(Config{Enabled: false})
	require.NoError(t, err)
	l.Info("ignored")
	require.NoError(t, l.Shutdown())
	require.Equal(t, l, l.With("a", 1))
}

func readEntries(t *testing.T, dir string) []map[string]any {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, logFilePrefix+"*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	f, err := os.Open(matches[0])
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestFileLoggerWritesRedactedJSON(t *testing.T) {
	dir := t.TempDir()
	l, err := Init(Config{Enabled: true, Level: "debug", MaxFiles: 3, Dir: dir, Command: "list", PID: 42})
	require.NoError(t, err)

	l.With("component", "api").Info("request", "path", "/orders", "api_token", "abc123")
	l.Debug("cache", "cache_key", "orders_cache_all_all")
	require.NoError(t, l.Shutdown())

	entries := readEntries(t, dir)
	require.Len(t, entries, 2)
	require.Equal(t, "request", entries[0]["msg"])
	require.Equal(t, "api", entries[0]["component"])
	require.Equal(t, "[REDACTED]", entries[0]["api_token"])
	require.Equal(t, "/orders", entries[0]["path"])
	require.EqualValues(t, 42, entries[0]["pid"])
	require.Equal(t, "[REDACTED]", entries[1]["cache_key"])
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	l, err := Init(Config{Enabled: true, Level: "warn", Dir: dir, Command: "follow"})
	require.NoError(t, err)
	l.Info("dropped")
	l.Warn("kept")
	require.NoError(t, l.Shutdown())

	entries := readEntries(t, dir)
	require.Len(t, entries, 1)
	require.Equal(t, "kept", entries[0]["msg"])
}

func TestRotateKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		p := filepath.Join(dir, logFilePrefix+string(rune('a'+i))+".log")
		require.NoError(t, os.WriteFile(p, []byte("x"), 0600))
		mod := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(p, mod, mod))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.log"), []byte("x"), 0600))

	require.NoError(t, rotate(dir, 3))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	joined := strings.Join(names, ",")
	require.Contains(t, joined, "other.log")
	require.Contains(t, joined, logFilePrefix+"d.log")
	require.Contains(t, joined, logFilePrefix+"e.log")
	require.NotContains(t, joined, logFilePrefix+"a.log")
	require.NotContains(t, joined, logFilePrefix+"c.log")
}

func TestRedactorSegments(t *testing.T) {
	r := newRedactor()
	require.True(t, r.isSensitive("api_token"))
	require.True(t, r.isSensitive("Authorization"))
	require.False(t, r.isSensitive("monkey"))
	require.False(t, r.isSensitive("order_id"))
}
