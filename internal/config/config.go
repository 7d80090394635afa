// Package config provides configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/pelletier/go-toml/v2"
)

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x).
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--).
	FileModeFile os.FileMode = 0644
	// FileModeSecret is used for files that may hold the API token.
	FileModeSecret os.FileMode = 0600

	// FileExtTOML is the file extension for TOML configuration files.
	FileExtTOML = ".toml"

	envPrefix = "ORDERDESK_"
)

var (
	config    map[string]string
	configMap map[string]string
	mu        sync.RWMutex
)

// Load initializes configuration.
//
// Precedence: environment, then config file, then defaults.
func Load() {
	mu.Lock()
	defer mu.Unlock()

	config = make(map[string]string)
	configMap = make(map[string]string)

	setDefaults()
	loadFromEnv()
	loadFromFile()
	// Re-apply environment variable overrides so env wins
	loadFromEnv()
	validate()
	createSampleConfig()
}

// setDefaults populates config with default values.
func setDefaults() {
	home, _ := os.UserHomeDir()
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(home, ".config")
	}
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		xdgStateHome = filepath.Join(home, ".local", "state")
	}

	configDir := filepath.Join(xdgConfigHome, "orderdesk")
	stateDir := filepath.Join(xdgStateHome, "orderdesk")

	setDefault("config_dir", configDir)
	setDefault("state_dir", stateDir)
	setDefault("hooks_dir", filepath.Join(configDir, "hooks"))

	setDefault("api_base_url", "http://localhost:5000/api/admin")
	setDefault("api_token", "")
	setDefault("api_timeout_seconds", "30")

	setDefault("cache_backend", "sqlite")
	setDefault("cache_ttl_seconds", "300")
	setDefault("cache_evict_grace_seconds", "120")
	setDefault("cache_max_bytes", "5242880")

	setDefault("fetch_page_limit", "100")
	setDefault("fetch_max_pages", "10")
	setDefault("detail_timeout_seconds", "15")

	setDefault("poll_interval_seconds", "10")
	setDefault("poll_baseline_delay_seconds", "2")
	setDefault("poll_latest_limit", "10")
	setDefault("notification_ttl_seconds", "10")

	setDefault("breaker_enabled", "true")
	setDefault("breaker_min_requests", "5")
	setDefault("breaker_failure_ratio", "0.5")
	setDefault("breaker_open_seconds", "30")

	setDefault("currency_symbol", "₹")
	setDefault("table_format", "default")
	setDefault("hooks_enabled", "true")
	setDefault("hooks_failure_mode", "warn")
	setDefault("hooks_async", "false")
	setDefault("hooks_async_timeout_seconds", "30")
	setDefault("hooks_max_async", "10")
	setDefault("logging_enabled", "false")
	setDefault("logging_level", "info")
	setDefault("logging_max_files", "10")
	setDefault("debug", "false")
	setDefault("quiet", "false")
}

func setDefault(key, value string) {
	config[key] = value
	configMap[key] = value
}

// loadFromFile reads configuration from ORDERDESK_CONFIG_PATH or config_dir/config.toml.
func loadFromFile() {
	configPath := os.Getenv(envPrefix + "CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(config["config_dir"], "config"+FileExtTOML)
		if _, err := os.Stat(configPath); err != nil {
			return
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		colors.Debug(fmt.Sprintf("unable to read config file %s: %v", configPath, err))
		return
	}
	if strings.ToLower(filepath.Ext(configPath)) != FileExtTOML {
		colors.Warning(fmt.Sprintf("unsupported config file extension: %s", configPath))
		return
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", configPath, err))
		return
	}

	for k, v := range raw {
		key := strings.ToLower(k)
		converted, ok := coerceConfigValue(v)
		if !ok {
			colors.Warning(fmt.Sprintf("unsupported config value type for %s: %T", key, v))
			continue
		}
		config[key] = converted
	}
}

// coerceConfigValue converts a TOML value to its string representation.
func coerceConfigValue(value interface{}) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

// loadFromEnv applies ORDERDESK_* environment overrides.
func loadFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(parts[0], envPrefix))
		if key == "config_path" {
			continue
		}
		config[key] = parts[1]
	}
}

// validate checks and normalizes configuration values using registered validators.
func validate() {
	for key, value := range config {
		validator := getValidator(key)
		if validator == nil {
			continue
		}
		defaultValue := configMap[key]
		normalized, err := validator(key, value, defaultValue)
		if err != nil {
			colors.Warning(fmt.Sprintf("validation error for %s: %v, using default: %s", key, err, defaultValue))
			config[key] = defaultValue
			continue
		}
		config[key] = normalized
	}
}

// valueToInterface converts a configuration value to the TOML type it reads best as.
func valueToInterface(val string) interface{} {
	if n, err := strconv.Atoi(val); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return val
}

// createSampleConfig writes the defaults as config.toml if none exists.
func createSampleConfig() {
	configDir := config["config_dir"]
	if configDir == "" || os.Getenv(envPrefix+"CONFIG_PATH") != "" {
		return
	}
	samplePath := filepath.Join(configDir, "config"+FileExtTOML)
	if _, err := os.Stat(samplePath); err == nil {
		return
	}
	if err := os.MkdirAll(configDir, FileModeDir); err != nil {
		colors.Debug(fmt.Sprintf("unable to create config dir %s: %v", configDir, err))
		return
	}

	typed := make(map[string]interface{}, len(configMap))
	for k, v := range configMap {
		typed[k] = valueToInterface(v)
	}
	data, err := toml.Marshal(typed)
	if err != nil {
		colors.Warning(fmt.Sprintf("unable to marshal sample config: %v", err))
		return
	}
	header := "# orderdesk configuration\n# This file is in TOML format.\n# Environment variables ORDERDESK_<KEY> override these values.\n\n"
	if err := os.WriteFile(samplePath, append([]byte(header), data...), FileModeSecret); err != nil {
		colors.Warning(fmt.Sprintf("unable to write sample config to %s: %v", samplePath, err))
	}
}

// Get returns a configuration value or default.
func Get(key, defaultValue string) string {
	mu.RLock()
	defer mu.RUnlock()
	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

// GetInt returns a configuration value as integer, or default.
func GetInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(Get(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

// GetFloat returns a configuration value as float64, or default.
func GetFloat(key string, defaultValue float64) float64 {
	f, err := strconv.ParseFloat(Get(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return f
}

// GetBool returns a configuration value as boolean, or default.
func GetBool(key string, defaultValue bool) bool {
	switch normalizeBool(Get(key, "")) {
	case "true":
		return true
	case "false":
		return false
	default:
		return defaultValue
	}
}

// GetSeconds reads an integer number of seconds as a duration.
func GetSeconds(key string, defaultValue time.Duration) time.Duration {
	n := GetInt(key, -1)
	if n < 0 {
		return defaultValue
	}
	return time.Duration(n) * time.Second
}

// Set overrides a single value in the loaded configuration.
func Set(key, value string) {
	mu.Lock()
	defer mu.Unlock()
	if config == nil {
		config = make(map[string]string)
	}
	config[key] = value
}

// reset clears loaded configuration.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	config = nil
	configMap = nil
}
