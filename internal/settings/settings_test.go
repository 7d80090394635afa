package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cristianoliveira/orderdesk/internal/cache"
	"github.com/cristianoliveira/orderdesk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSettingsTest(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("HOME", tmpDir)
	config.Load()

	return filepath.Join(tmpDir, "orderdesk")
}

func TestPathUsesConfigDir(t *testing.T) {
	dir := setupSettingsTest(t)
	assert.Equal(t, filepath.Join(dir, FileName), Path())

	override := filepath.Join(t.TempDir(), "prefs.json")
	config.Set("settings_path", override)
	assert.Equal(t, override, Path())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	want := &Settings{
		OrdersPerPage:       20,
		TransactionsPerPage: 50,
		OrderFilter:         "SHIPPED",
		TransactionFilter:   "Failed",
		Columns:             []string{ColumnOrder, ColumnStatus},
		ActiveTab:           TabTransactions,
	}
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"ordersPerPage": 50, "activeTab": "bogus"}`), FileModeFile))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, s.OrdersPerPage)
	assert.Equal(t, DefaultPageSize, s.TransactionsPerPage)
	assert.Equal(t, DefaultColumns, s.Columns)
	assert.Equal(t, TabOrders, s.ActiveTab)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	require.NoError(t, os.WriteFile(path, []byte(`{not json`), FileModeFile))
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse")

	require.NoError(t, os.WriteFile(path, []byte(`{"ordersPerPage": 7}`), FileModeFile))
	_, err = Load(path)
	assert.ErrorContains(t, err, "ordersPerPage")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Settings) {}},
		{name: "bad column", mutate: func(s *Settings) { s.Columns = []string{"weight"} }, wantErr: "invalid column"},
		{name: "bad page size", mutate: func(s *Settings) { s.TransactionsPerPage = 15 }, wantErr: "transactionsPerPage"},
		{name: "bad order filter", mutate: func(s *Settings) { s.OrderFilter = "RETURNED" }, wantErr: "orderFilter"},
		{name: "order status is not a payment filter", mutate: func(s *Settings) { s.TransactionFilter = "SHIPPED" }, wantErr: "transactionFilter"},
		{name: "bad tab", mutate: func(s *Settings) { s.ActiveTab = "reports" }, wantErr: "activeTab"},
		{name: "filters are case-insensitive", mutate: func(s *Settings) { s.OrderFilter = "placed" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := Validate(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	assert.Error(t, Validate(nil))
}

func TestManagerPersistsPerNamespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	m, err := NewManager(path)
	require.NoError(t, err)

	require.NoError(t, m.SavePageSize(cache.NamespaceOrders, 20))
	require.NoError(t, m.SavePageSize(cache.NamespaceTransactions, 50))
	require.NoError(t, m.SaveFilter(cache.NamespaceTransactions, "Pending"))

	assert.Equal(t, 20, m.PageSize(cache.NamespaceOrders))
	assert.Equal(t, 50, m.PageSize(cache.NamespaceTransactions))
	assert.Equal(t, "Pending", m.Filter(cache.NamespaceTransactions))
	assert.Equal(t, "all", m.Filter(cache.NamespaceOrders))

	reloaded, err := NewManager(path)
	require.NoError(t, err)
	assert.Equal(t, m.Settings(), reloaded.Settings())
}

func TestManagerRejectsInvalidUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	m, err := NewManager(path)
	require.NoError(t, err)

	assert.Error(t, m.SavePageSize(cache.NamespaceOrders, 3))
	assert.Error(t, m.SaveFilter(cache.NamespaceOrders, "LOST"))
	assert.Equal(t, DefaultPageSize, m.PageSize(cache.NamespaceOrders))
	assert.Equal(t, "all", m.Filter(cache.NamespaceOrders))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing valid was saved")
}

func TestNormalizeTab(t *testing.T) {
	assert.Equal(t, TabTransactions, NormalizeTab(" Transactions "))
	assert.Equal(t, TabOrders, NormalizeTab(""))
	assert.Equal(t, TabOrders, NormalizeTab("grouped"))
}
