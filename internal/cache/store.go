// Package cache provides the size-bounded local cache for order lists.
package cache

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrQuotaExceeded is returned by a Store when a write would exceed its byte budget.
	ErrQuotaExceeded = errors.New("cache quota exceeded")
	// ErrClosed is returned when a closed store is used.
	ErrClosed = errors.New("cache store closed")
)

// Store is a key-value medium with a byte budget.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Set writes key. It fails with ErrQuotaExceeded when the budget is exhausted.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Keys lists keys with the given prefix in lexical order.
	Keys(prefix string) ([]string, error)
	// Close releases the store.
	Close() error
}

// MemoryStore is an in-process Store with a byte budget over stored values.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string][]byte
	maxBytes int
	closed   bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a MemoryStore. maxBytes <= 0 means unbounded.
func NewMemoryStore(maxBytes int) *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte), maxBytes: maxBytes}
}

func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, false, ErrClosed
	}
	v, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.maxBytes > 0 {
		used := 0
		for k, v := range m.entries {
			if k != key {
				used += len(v)
			}
		}
		if used+len(value) > m.maxBytes {
			return ErrQuotaExceeded
		}
	}
	m.entries[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.entries, key)
	return nil
}

func (m *MemoryStore) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	var keys []string
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
