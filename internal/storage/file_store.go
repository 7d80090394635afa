package storage

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cristianoliveira/orderdesk/internal/cache"
)

const fileStoreExt = ".json"

// FileStore implements cache.Store with one file per key in a directory.
// Writes are serialized across processes with a directory lock and land
// atomically through a rename.
type FileStore struct {
	dir      string
	lockDir  string
	maxBytes int64
}

var _ cache.Store = (*FileStore)(nil)

// NewFileStore creates the directory if needed. maxBytes <= 0 disables the budget.
func NewFileStore(dir string, maxBytes int64) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("file store: directory cannot be empty")
	}
	if err := os.MkdirAll(dir, FileModeDir); err != nil {
		return nil, fmt.Errorf("file store: create directory: %w", err)
	}
	return &FileStore{dir: dir, lockDir: filepath.Join(dir, ".lock"), maxBytes: maxBytes}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+fileStoreExt)
}

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("file store: read %s: %w", key, err)
	}
	return data, true, nil
}

func (s *FileStore) Set(key string, value []byte) error {
	return WithLock(s.lockDir, func() error {
		if s.maxBytes > 0 {
			used, err := s.usedExcept(key)
			if err != nil {
				return err
			}
			if used+int64(len(value)) > s.maxBytes {
				return cache.ErrQuotaExceeded
			}
		}
		target := s.path(key)
		tmp, err := os.CreateTemp(s.dir, ".tmp-*")
		if err != nil {
			return fmt.Errorf("file store: create temp file: %w", err)
		}
		tmpName := tmp.Name()
		if _, err := tmp.Write(value); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("file store: write %s: %w", key, err)
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmpName)
			return fmt.Errorf("file store: close %s: %w", key, err)
		}
		if err := os.Chmod(tmpName, FileModeFile); err != nil {
			os.Remove(tmpName)
			return fmt.Errorf("file store: chmod %s: %w", key, err)
		}
		if err := os.Rename(tmpName, target); err != nil {
			os.Remove(tmpName)
			return fmt.Errorf("file store: rename %s: %w", key, err)
		}
		return nil
	})
}

func (s *FileStore) usedExcept(key string) (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("file store: list directory: %w", err)
	}
	skip := filepath.Base(s.path(key))
	var used int64
	for _, e := range entries {
		if e.IsDir() || e.Name() == skip || !strings.HasSuffix(e.Name(), fileStoreExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		used += info.Size()
	}
	return used, nil
}

func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("file store: delete %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Keys(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("file store: list directory: %w", err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileStoreExt) {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(name, fileStoreExt))
		if err != nil {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Close() error {
	return nil
}
