package settings

import (
	"fmt"
	"sync"

	"github.com/cristianoliveira/orderdesk/internal/cache"
)

// Manager loads settings once and writes every change back to disk.
type Manager struct {
	mu       sync.Mutex
	path     string
	settings *Settings
}

// NewManager loads the settings at path.
func NewManager(path string) (*Manager, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Manager{path: path, settings: s}, nil
}

// Settings returns a copy of the current settings.
func (m *Manager) Settings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := *m.settings
	s.Columns = append([]string(nil), m.settings.Columns...)
	return s
}

// PageSize returns the stored page size of a cache namespace.
func (m *Manager) PageSize(namespace string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if namespace == cache.NamespaceTransactions {
		return m.settings.TransactionsPerPage
	}
	return m.settings.OrdersPerPage
}

// SavePageSize stores the page size of a cache namespace.
func (m *Manager) SavePageSize(namespace string, size int) error {
	if err := ValidatePageSize(size); err != nil {
		return err
	}
	return m.Update(func(s *Settings) {
		if namespace == cache.NamespaceTransactions {
			s.TransactionsPerPage = size
		} else {
			s.OrdersPerPage = size
		}
	})
}

// Filter returns the stored filter of a cache namespace.
func (m *Manager) Filter(namespace string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if namespace == cache.NamespaceTransactions {
		return m.settings.TransactionFilter
	}
	return m.settings.OrderFilter
}

// SaveFilter stores the filter of a cache namespace.
func (m *Manager) SaveFilter(namespace, filter string) error {
	return m.Update(func(s *Settings) {
		if namespace == cache.NamespaceTransactions {
			s.TransactionFilter = filter
		} else {
			s.OrderFilter = filter
		}
	})
}

// Update applies fn and persists the result. Invalid results are rejected
// and leave the stored settings unchanged.
func (m *Manager) Update(fn func(*Settings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := *m.settings
	next.Columns = append([]string(nil), m.settings.Columns...)
	fn(&next)
	if err := Save(m.path, &next); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	m.settings = &next
	return nil
}
