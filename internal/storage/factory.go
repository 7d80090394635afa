package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/orderdesk/internal/cache"
	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/config"
	"github.com/cristianoliveira/orderdesk/internal/storage/sqlite"
)

const (
	// BackendSQLite selects the SQLite cache database.
	BackendSQLite = "sqlite"
	// BackendFile selects one JSON file per cache key.
	BackendFile = "file"
	// BackendMemory selects a process-local cache.
	BackendMemory = "memory"

	cacheDBFileName = "cache.db"
	cacheDirName    = "cache"
	defaultMaxBytes = 5 * 1024 * 1024
)

var _ cache.Store = (*sqlite.Store)(nil)

// NewFromConfig creates a cache store based on configuration.
func NewFromConfig() (cache.Store, error) {
	backend := config.Get("cache_backend", BackendSQLite)
	maxBytes := int64(config.GetInt("cache_max_bytes", defaultMaxBytes))
	if backend == BackendMemory {
		return NewForBackend(backend, "", maxBytes)
	}
	stateDir, err := StateDir()
	if err != nil {
		colors.Warning(fmt.Sprintf("cache disabled on disk, using memory: %v", err))
		return cache.NewMemoryStore(int(maxBytes)), nil
	}
	return NewForBackend(backend, stateDir, maxBytes)
}

// NewForBackend creates a cache store for the provided backend name.
// Disk backends that fail to open fall back to memory with a warning.
func NewForBackend(backend, stateDir string, maxBytes int64) (cache.Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendMemory:
		return cache.NewMemoryStore(int(maxBytes)), nil
	case "", BackendSQLite:
		store, err := sqlite.NewStore(filepath.Join(stateDir, cacheDBFileName), maxBytes)
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to initialize sqlite cache, falling back to memory: %v", err))
			return cache.NewMemoryStore(int(maxBytes)), nil
		}
		return store, nil
	case BackendFile:
		store, err := NewFileStore(filepath.Join(stateDir, cacheDirName), maxBytes)
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to initialize file cache, falling back to memory: %v", err))
			return cache.NewMemoryStore(int(maxBytes)), nil
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
