package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/logging"
)

// DefaultEvictGrace is the minimum age of entries removed under quota pressure.
const DefaultEvictGrace = 2 * time.Minute

type entry struct {
	Payload  json.RawMessage `json:"payload"`
	StoredAt time.Time       `json:"storedAt"`
}

// LocalCache stores timestamped JSON payloads in a Store.
// Absence, expiry and corruption all read as a miss; writes never fail loudly.
type LocalCache struct {
	store      Store
	now        func() time.Time
	evictGrace time.Duration
	families   []string
}

// Option configures a LocalCache.
type Option func(*LocalCache)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(c *LocalCache) { c.now = now }
}

// WithEvictGrace sets the minimum age of entries evicted on quota errors.
func WithEvictGrace(d time.Duration) Option {
	return func(c *LocalCache) { c.evictGrace = d }
}

// WithFamilies sets the key prefixes scanned on quota errors.
func WithFamilies(prefixes ...string) Option {
	return func(c *LocalCache) { c.families = prefixes }
}

// NewLocalCache wraps store.
func NewLocalCache(store Store, opts ...Option) *LocalCache {
	c := &LocalCache{
		store:      store,
		now:        time.Now,
		evictGrace: DefaultEvictGrace,
		families:   Families,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the underlying store.
func (c *LocalCache) Store() Store {
	return c.store
}

// Write stores value under key with the current time.
//
// On ErrQuotaExceeded it evicts stale entries across the cache families and
// retries once. A failure after that is logged and dropped.
func (c *LocalCache) Write(key string, value any) {
	data, err := c.encode(value)
	if err != nil {
		colors.StructuredWarn("cache", "write", "encode_failed", err, key, nil)
		return
	}
	err = c.store.Set(key, data)
	if err == nil {
		return
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		colors.StructuredWarn("cache", "write", "failed", err, key, nil)
		return
	}

	evicted := 0
	for _, prefix := range c.families {
		n, evictErr := c.EvictStale(prefix, c.evictGrace)
		evicted += n
		if evictErr != nil {
			colors.StructuredWarn("cache", "evict", "failed", evictErr, prefix, nil)
		}
	}
	if err := c.store.Set(key, data); err != nil {
		logging.With("component", "cache").Warn("cache write dropped", "key", key, "bytes", len(data), "error", err)
		colors.StructuredWarn("cache", "write", "dropped", err, key, map[string]interface{}{
			"bytes":   len(data),
			"evicted": evicted,
		})
		return
	}
	colors.StructuredDebug("cache", "write", "retried", nil, key, map[string]interface{}{"evicted": evicted})
}

func (c *LocalCache) encode(value any) ([]byte, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(entry{Payload: payload, StoredAt: c.now().UTC()})
}

// Read decodes the payload under key into dst. It returns true only when the
// entry exists, parses and is no older than ttl.
func (c *LocalCache) Read(key string, ttl time.Duration, dst any) bool {
	e, ok := c.load(key)
	if !ok {
		return false
	}
	if c.now().Sub(e.StoredAt) > ttl {
		return false
	}
	if err := json.Unmarshal(e.Payload, dst); err != nil {
		colors.StructuredDebug("cache", "read", "decode_failed", err, key, nil)
		return false
	}
	return true
}

// Age returns how long ago key was written.
func (c *LocalCache) Age(key string) (time.Duration, bool) {
	e, ok := c.load(key)
	if !ok {
		return 0, false
	}
	return c.now().Sub(e.StoredAt), true
}

func (c *LocalCache) load(key string) (entry, bool) {
	raw, ok, err := c.store.Get(key)
	if err != nil {
		colors.StructuredDebug("cache", "read", "failed", err, key, nil)
		return entry{}, false
	}
	if !ok {
		return entry{}, false
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil || e.StoredAt.IsZero() {
		return entry{}, false
	}
	return e, true
}

// EvictStale removes entries under prefix older than maxAge or unparseable.
// It returns the number of removed entries.
func (c *LocalCache) EvictStale(prefix string, maxAge time.Duration) (int, error) {
	keys, err := c.store.Keys(prefix)
	if err != nil {
		return 0, fmt.Errorf("list cache keys: %w", err)
	}
	now := c.now()
	removed := 0
	for _, key := range keys {
		e, ok := c.load(key)
		if ok && now.Sub(e.StoredAt) <= maxAge {
			continue
		}
		if err := c.store.Delete(key); err != nil {
			return removed, fmt.Errorf("delete cache key %s: %w", key, err)
		}
		removed++
	}
	return removed, nil
}

// Clear removes every entry under prefix.
func (c *LocalCache) Clear(prefix string) (int, error) {
	keys, err := c.store.Keys(prefix)
	if err != nil {
		return 0, fmt.Errorf("list cache keys: %w", err)
	}
	for i, key := range keys {
		if err := c.store.Delete(key); err != nil {
			return i, fmt.Errorf("delete cache key %s: %w", key, err)
		}
	}
	return len(keys), nil
}

// Info describes one cached entry.
type Info struct {
	Key   string
	Bytes int
	Age   time.Duration
	Valid bool
}

// List describes every entry under prefix.
func (c *LocalCache) List(prefix string) ([]Info, error) {
	keys, err := c.store.Keys(prefix)
	if err != nil {
		return nil, fmt.Errorf("list cache keys: %w", err)
	}
	infos := make([]Info, 0, len(keys))
	for _, key := range keys {
		raw, ok, err := c.store.Get(key)
		if err != nil || !ok {
			continue
		}
		info := Info{Key: key, Bytes: len(raw)}
		if e, ok := c.load(key); ok {
			info.Age = c.now().Sub(e.StoredAt)
			info.Valid = true
		}
		infos = append(infos, info)
	}
	return infos, nil
}
