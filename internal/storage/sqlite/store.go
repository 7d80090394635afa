// Package sqlite provides a SQLite-backed cache store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/cache"
	_ "modernc.org/sqlite"
)

// Store implements cache.Store on a single SQLite table. The byte budget is
// enforced over SUM(length(value)) inside the write transaction.
type Store struct {
	db       *sql.DB
	maxBytes int64
	now      func() time.Time
}

var _ cache.Store = (*Store)(nil)

// NewStore opens (or creates) the cache database at dbPath.
// maxBytes <= 0 disables the budget.
func NewStore(dbPath string, maxBytes int64) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite store: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite store: create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open db: %w", err)
	}
	// One writer keeps the quota check and the upsert in the same view.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, maxBytes: maxBytes, now: time.Now}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite store: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return fmt.Errorf("sqlite store: set journal mode: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite store: create schema: %w", err)
	}
	return nil
}

// Close closes the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the value stored under key.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(context.Background(),
		`SELECT value FROM cache_entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite store: get %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts key. Concurrent writers resolve as last write wins.
func (s *Store) Set(key string, value []byte) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite store: begin: %w", err)
	}
	defer tx.Rollback()

	if s.maxBytes > 0 {
		var used int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(length(value)), 0) FROM cache_entries WHERE key <> ?`, key).Scan(&used); err != nil {
			return fmt.Errorf("sqlite store: measure usage: %w", err)
		}
		if used+int64(len(value)) > s.maxBytes {
			return cache.ErrQuotaExceeded
		}
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO cache_entries (key, value, stored_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, stored_at = excluded.stored_at`,
		key, value, s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlite store: set %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite store: commit: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(key string) error {
	if _, err := s.db.ExecContext(context.Background(),
		`DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite store: delete %s: %w", key, err)
	}
	return nil
}

// Keys lists keys starting with prefix in lexical order.
func (s *Store) Keys(prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT key FROM cache_entries WHERE substr(key, 1, ?) = ? ORDER BY key`, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("sqlite store: scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Usage returns the number of entries and the bytes they occupy.
func (s *Store) Usage() (entries int, bytes int64, err error) {
	err = s.db.QueryRowContext(context.Background(),
		`SELECT COUNT(*), COALESCE(SUM(length(value)), 0) FROM cache_entries`).Scan(&entries, &bytes)
	if err != nil {
		return 0, 0, fmt.Errorf("sqlite store: usage: %w", err)
	}
	return entries, bytes, nil
}
