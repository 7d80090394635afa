package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cristianoliveira/orderdesk/internal/domain"
)

// Settings holds console preferences persisted to disk.
//
// JSON Schema:
//
//	{
//	  "ordersPerPage": 10,
//	  "transactionsPerPage": 10,
//	  "orderFilter": "all",
//	  "transactionFilter": "all",
//	  "columns": ["order", "customer", "amount", "payment_method", "status", "date"],
//	  "activeTab": "orders"
//	}
type Settings struct {
	// OrdersPerPage is the page size of the order list.
	OrdersPerPage int `json:"ordersPerPage"`

	// TransactionsPerPage is the page size of the transaction view.
	TransactionsPerPage int `json:"transactionsPerPage"`

	// OrderFilter is the last order status filter.
	OrderFilter string `json:"orderFilter"`

	// TransactionFilter is the last payment filter.
	TransactionFilter string `json:"transactionFilter"`

	// Columns defines which order columns are displayed and their order.
	// Empty slice means use default column order.
	Columns []string `json:"columns"`

	// ActiveTab is the TUI view opened on start.
	ActiveTab Tab `json:"activeTab"`
}

// DefaultSettings returns settings with all default values.
func DefaultSettings() *Settings {
	return &Settings{
		OrdersPerPage:       DefaultPageSize,
		TransactionsPerPage: DefaultPageSize,
		OrderFilter:         domain.FilterAll,
		TransactionFilter:   domain.FilterAll,
		Columns:             append([]string(nil), DefaultColumns...),
		ActiveTab:           DefaultTab(),
	}
}

// Load reads settings from path.
// If the file does not exist, returns default settings.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	settings.ActiveTab = NormalizeTab(string(settings.ActiveTab))

	if err := Validate(settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return settings, nil
}

// Save writes settings to path, creating its directory if needed.
func Save(path string, settings *Settings) error {
	if err := Validate(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), FileModeDir); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, FileModeFile); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace settings file: %w", err)
	}

	return nil
}
