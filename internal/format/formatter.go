// Package format provides output formatting functionality for CLI commands.
// It includes formatters for order and transaction listings.
package format

import (
	"io"

	"github.com/cristianoliveira/orderdesk/internal/domain"
)

// Formatter defines the interface for output formatters.
type Formatter interface {
	// FormatOrders formats a slice of orders and writes to the writer.
	FormatOrders(orders []domain.Order, writer io.Writer) error

	// FormatTransactions formats a slice of transactions and writes to the writer.
	FormatTransactions(txns []domain.Transaction, writer io.Writer) error
}

// FormatterType represents the type of formatter to use.
type FormatterType string

const (
	// FormatterTypeTable displays rows in a table with headers.
	FormatterTypeTable FormatterType = "table"

	// FormatterTypeSimple displays one line per row without headers.
	FormatterTypeSimple FormatterType = "simple"

	// FormatterTypeCompact displays only identifiers, one per line.
	FormatterTypeCompact FormatterType = "compact"

	// FormatterTypeJSON displays rows in JSON format.
	FormatterTypeJSON FormatterType = "json"
)

// Options tune the formatters.
type Options struct {
	// Columns selects and orders the order table columns.
	Columns []string
	// Currency prefixes amounts.
	Currency string
	// Color enables ANSI header colors.
	Color bool
}

// NewFormatter creates a new formatter of the specified type.
func NewFormatter(formatterType FormatterType, opts Options) Formatter {
	if opts.Currency == "" {
		opts.Currency = "₹"
	}
	switch formatterType {
	case FormatterTypeSimple:
		return &SimpleFormatter{opts: opts}
	case FormatterTypeCompact:
		return &CompactFormatter{}
	case FormatterTypeJSON:
		return NewJSONFormatter()
	default:
		return NewTableFormatter(opts)
	}
}
