package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/cristianoliveira/orderdesk/internal/cache"
	"github.com/cristianoliveira/orderdesk/internal/config"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend serves the orders endpoints from an in-memory set.
type fakeBackend struct {
	mu         sync.Mutex
	orders     []domain.Order
	listCalls  int
	statusSent []string
	failStatus bool
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/orders")
	switch {
	case r.Method == http.MethodGet && path == "":
		b.listCalls++
		writeJSONBody(w, map[string]any{"data": b.orders, "total": len(b.orders), "totalPages": 1})
	case r.Method == http.MethodGet:
		for _, o := range b.orders {
			if o.Matches(strings.TrimPrefix(path, "/")) {
				detail := o.Clone()
				detail.Items = []domain.LineItem{}
				writeJSONBody(w, map[string]any{"success": true, "data": detail})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		writeJSONBody(w, map[string]any{"success": false, "message": "Order not found"})
	case r.Method == http.MethodPatch && strings.HasSuffix(path, "/status"):
		if b.failStatus {
			w.WriteHeader(http.StatusInternalServerError)
			writeJSONBody(w, map[string]any{"success": false, "message": "database unavailable"})
			return
		}
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Status domain.OrderStatus `json:"status"`
		}
		_ = json.Unmarshal(body, &req)
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/status")
		b.statusSent = append(b.statusSent, id+"="+string(req.Status))
		for i := range b.orders {
			if b.orders[i].Matches(id) {
				b.orders[i].OrderStatus = req.Status
			}
		}
		writeJSONBody(w, map[string]any{"success": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeJSONBody(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestApp(t *testing.T, backend *fakeBackend) *app {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	for key, value := range map[string]string{
		"cache_backend":   "memory",
		"api_base_url":    srv.URL,
		"settings_path":   filepath.Join(dir, "settings.json"),
		"hooks_enabled":   "false",
		"breaker_enabled": "false",
	} {
		config.Set(key, value)
	}
	a := &app{}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func backendWithOrders() *fakeBackend {
	return &fakeBackend{orders: sampleOrders()}
}

func TestAppListOrdersUsesStoredPreferencesAndCache(t *testing.T) {
	backend := backendWithOrders()
	a := newTestApp(t, backend)
	ctx := context.Background()

	res, err := a.ListOrders(ctx, listRequest{Namespace: cache.NamespaceOrders, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.FilterAll, res.Page.Filter)
	assert.Equal(t, 10, res.Page.PageSize)
	assert.Len(t, res.Rows, 2)
	assert.False(t, res.Page.FromCache)

	res, err = a.ListOrders(ctx, listRequest{Namespace: cache.NamespaceOrders, Page: 1})
	require.NoError(t, err)
	assert.True(t, res.Page.FromCache)
	assert.Equal(t, 1, backend.listCalls)

	_, err = a.ListOrders(ctx, listRequest{Namespace: cache.NamespaceOrders, Page: 1, Force: true})
	require.NoError(t, err)
	assert.Equal(t, 2, backend.listCalls)
}

func TestAppListOrdersSearchModes(t *testing.T) {
	a := newTestApp(t, backendWithOrders())
	ctx := context.Background()

	res, err := a.ListOrders(ctx, listRequest{Namespace: cache.NamespaceOrders, Page: 1, Search: "ravi"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "b2", res.Rows[0].ID)
	assert.Len(t, res.All, 2)

	res, err = a.ListOrders(ctx, listRequest{Namespace: cache.NamespaceOrders, Page: 1, Search: "^ORD-1$", SearchMode: search.ProviderRegex})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "a1", res.Rows[0].ID)
}

func TestAppSaveListPreferences(t *testing.T) {
	a := newTestApp(t, backendWithOrders())

	require.NoError(t, a.SaveListPreferences(cache.NamespaceTransactions, domain.TxnPending, 50))
	s, err := a.CurrentSettings()
	require.NoError(t, err)
	assert.Equal(t, domain.TxnPending, s.TransactionFilter)
	assert.Equal(t, 50, s.TransactionsPerPage)

	assert.Error(t, a.SaveListPreferences(cache.NamespaceOrders, domain.FilterAll, 15))
}

func TestAppSetStatusUpdatesListAndDetail(t *testing.T) {
	backend := backendWithOrders()
	a := newTestApp(t, backend)
	ctx := context.Background()

	_, err := a.ListOrders(ctx, listRequest{Namespace: cache.NamespaceOrders, Page: 1})
	require.NoError(t, err)

	updated, err := a.SetStatus(ctx, "a1", domain.StatusConfirmed, domain.StatusPlaced)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.OrderStatus)
	assert.Equal(t, []string{"a1=CONFIRMED"}, backend.statusSent)

	o, ok := a.orders.Lookup("a1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusConfirmed, o.OrderStatus)
}

func TestAppSetStatusRevertsOnFailure(t *testing.T) {
	backend := backendWithOrders()
	backend.failStatus = true
	a := newTestApp(t, backend)
	ctx := context.Background()

	_, err := a.ListOrders(ctx, listRequest{Namespace: cache.NamespaceOrders, Page: 1})
	require.NoError(t, err)

	_, err = a.OrderDetail(ctx, "a1")
	require.NoError(t, err)

	_, err = a.SetStatus(ctx, "a1", domain.StatusCancelled, domain.StatusPlaced)
	require.Error(t, err)

	o, ok := a.orders.Lookup("a1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusPlaced, o.OrderStatus)
	detail, err := a.OrderDetail(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlaced, detail.OrderStatus)
}

func TestAppCacheMaintenance(t *testing.T) {
	a := newTestApp(t, backendWithOrders())
	ctx := context.Background()

	_, err := a.ListOrders(ctx, listRequest{Namespace: cache.NamespaceOrders, Page: 1})
	require.NoError(t, err)

	infos, err := a.ListCache(cache.FamilyPrefix(cache.NamespaceOrders))
	require.NoError(t, err)
	assert.NotEmpty(t, infos)

	removed, err := a.ClearCache(cache.FamilyPrefix(cache.NamespaceOrders))
	require.NoError(t, err)
	assert.Equal(t, len(infos), removed)
}

func TestAppOrderDetail(t *testing.T) {
	a := newTestApp(t, backendWithOrders())

	o, err := a.OrderDetail(context.Background(), "b2")
	require.NoError(t, err)
	assert.Equal(t, "ORD-2", o.OrderNumber)
	assert.True(t, o.IsDetailed())

	_, err = a.OrderDetail(context.Background(), "zz")
	assert.Error(t, err)
}
