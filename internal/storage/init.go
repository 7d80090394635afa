// Package storage selects and builds the local cache backend.
package storage

import (
	"fmt"
	"os"

	"github.com/cristianoliveira/orderdesk/internal/config"
)

const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for cache files (rw-------)
	FileModeFile os.FileMode = 0600
)

// StateDir returns the configured state directory, creating it if needed.
func StateDir() (string, error) {
	dir := config.Get("state_dir", "")
	if dir == "" {
		return "", fmt.Errorf("storage: state_dir not configured")
	}
	if err := os.MkdirAll(dir, FileModeDir); err != nil {
		return "", fmt.Errorf("storage: create state directory: %w", err)
	}
	return dir, nil
}
