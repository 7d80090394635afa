package settings

import "strings"

// Tab identifies the active view in the TUI.
type Tab string

const (
	// TabOrders shows the order list.
	TabOrders Tab = "orders"

	// TabTransactions shows the payment view of the same orders.
	TabTransactions Tab = "transactions"
)

// IsValid returns whether the tab is one of the supported values.
func (t Tab) IsValid() bool {
	switch t {
	case TabOrders, TabTransactions:
		return true
	default:
		return false
	}
}

// DefaultTab returns the default tab used when value is missing or invalid.
func DefaultTab() Tab {
	return TabOrders
}

// NormalizeTab converts arbitrary persisted input to a valid tab value.
// Missing or invalid values always resolve to the default tab.
func NormalizeTab(raw string) Tab {
	tab := Tab(strings.ToLower(strings.TrimSpace(raw)))
	if tab.IsValid() {
		return tab
	}

	return DefaultTab()
}
