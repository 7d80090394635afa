package sqlite

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/cache"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, maxBytes int64) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "cache.db")
	s, err := NewStore(dbPath, maxBytes)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestNewStoreRejectsEmptyPath(t *testing.T) {
	_, err := NewStore("  ", 0)
	require.Error(t, err)
}

func TestSetGetDelete(t *testing.T) {
	s := newTestStore(t, 0)

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set("orders_cache_all_all", []byte(`{"a":1}`)))
	require.NoError(t, s.Set("orders_cache_all_all", []byte(`{"a":2}`)))

	v, ok, err := s.Get("orders_cache_all_all")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"a":2}`, string(v))

	require.NoError(t, s.Delete("orders_cache_all_all"))
	require.NoError(t, s.Delete("orders_cache_all_all"))
	_, ok, err = s.Get("orders_cache_all_all")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKeysByPrefix(t *testing.T) {
	s := newTestStore(t, 0)
	for _, k := range []string{"orders_cache_b", "orders_cache_a", "transactions_cache_a", "orders_x%"} {
		require.NoError(t, s.Set(k, []byte("v")))
	}

	keys, err := s.Keys("orders_cache_")
	require.NoError(t, err)
	require.Equal(t, []string{"orders_cache_a", "orders_cache_b"}, keys)

	// prefix matching is literal, not LIKE
	keys, err = s.Keys("orders_x%")
	require.NoError(t, err)
	require.Equal(t, []string{"orders_x%"}, keys)

	all, err := s.Keys("")
	require.NoError(t, err)
	require.Len(t, all, 4)
}

func TestQuotaEnforced(t *testing.T) {
	s := newTestStore(t, 10)
	require.NoError(t, s.Set("a", bytes.Repeat([]byte("x"), 6)))
	require.ErrorIs(t, s.Set("b", bytes.Repeat([]byte("x"), 5)), cache.ErrQuotaExceeded)
	// replacing a key does not count its old value
	require.NoError(t, s.Set("a", bytes.Repeat([]byte("y"), 10)))

	n, used, err := s.Usage()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.EqualValues(t, 10, used)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "cache.db")
	s, err := NewStore(dbPath, 0)
	require.NoError(t, err)
	require.NoError(t, s.Set("k", []byte("v")))
	require.NoError(t, s.Close())

	s, err = NewStore(dbPath, 0)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", string(v))
}

func TestWorksWithLocalCache(t *testing.T) {
	s := newTestStore(t, 0)
	c := cache.NewLocalCache(s)
	c.Write(cache.AllKey(cache.NamespaceOrders, "all"), []int{1, 2, 3})

	var got []int
	require.True(t, c.Read(cache.AllKey(cache.NamespaceOrders, "all"), time.Minute, &got))
	require.Equal(t, []int{1, 2, 3}, got)
}
