package settings

import (
	"os"
	"path/filepath"

	"github.com/cristianoliveira/orderdesk/internal/config"
)

// Path returns the settings file location. settings_path overrides the
// default of config_dir/settings.json.
func Path() string {
	if override := config.Get("settings_path", ""); override != "" {
		return override
	}
	return filepath.Join(resolveConfigDir(), FileName)
}

// resolveConfigDir returns the configured config directory, falling back to
// the XDG default if needed.
func resolveConfigDir() string {
	configDir := config.Get("config_dir", "")
	if configDir != "" {
		return configDir
	}
	home, _ := os.UserHomeDir()
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfigHome, "orderdesk")
}
