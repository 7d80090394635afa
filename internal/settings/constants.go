// Package settings persists console preferences.
package settings

import "os"

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--)
	FileModeFile os.FileMode = 0644

	// FileName is the settings file inside the config directory.
	FileName = "settings.json"
)

// Order table columns.
const (
	ColumnOrder         = "order"
	ColumnCustomer      = "customer"
	ColumnAmount        = "amount"
	ColumnPaymentMethod = "payment_method"
	ColumnPayment       = "payment"
	ColumnStatus        = "status"
	ColumnDate          = "date"
	ColumnItems         = "items"
)

// DefaultColumns is the order table layout used when none is configured.
var DefaultColumns = []string{
	ColumnOrder,
	ColumnCustomer,
	ColumnAmount,
	ColumnPaymentMethod,
	ColumnStatus,
	ColumnDate,
}

var validColumns = map[string]bool{
	ColumnOrder: true, ColumnCustomer: true, ColumnAmount: true,
	ColumnPaymentMethod: true, ColumnPayment: true, ColumnStatus: true,
	ColumnDate: true, ColumnItems: true,
}

// PageSizes lists the selectable rows per page.
var PageSizes = []int{10, 20, 50}

// DefaultPageSize is used when no preference is stored.
const DefaultPageSize = 10
