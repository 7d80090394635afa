package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/settings"
)

// DateLayout is used for every timestamp in listings.
const DateLayout = "02 Jan 2006 15:04"

// Amount renders v with a currency prefix.
func Amount(currency string, v float64) string {
	return currency + domain.FormatAmount(v)
}

// ShortID returns the order number, or the last 8 characters of the id.
func ShortID(o domain.Order) string {
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	if len(o.ID) > 8 {
		return "#" + strings.ToUpper(o.ID[len(o.ID)-8:])
	}
	return o.ID
}

func orderColumn(name, currency string) (TableColumn[domain.Order], bool) {
	switch name {
	case settings.ColumnOrder:
		return TableColumn[domain.Order]{Name: "ORDER", Width: 14, Extractor: func(o *domain.Order) string { return ShortID(*o) }}, true
	case settings.ColumnCustomer:
		return TableColumn[domain.Order]{Name: "CUSTOMER", Width: 20, Extractor: func(o *domain.Order) string { return o.CustomerName() }}, true
	case settings.ColumnAmount:
		return TableColumn[domain.Order]{Name: "AMOUNT", Width: 10, Alignment: "right", Extractor: func(o *domain.Order) string {
			return Amount(currency, float64(o.TotalAmount))
		}}, true
	case settings.ColumnPaymentMethod:
		return TableColumn[domain.Order]{Name: "PAYMENT", Width: 16, Extractor: func(o *domain.Order) string {
			return domain.PaymentMethodLabel(o.PaymentMethod)
		}}, true
	case settings.ColumnPayment:
		return TableColumn[domain.Order]{Name: "PAID", Width: 8, Extractor: func(o *domain.Order) string {
			return domain.TransactionStatus(o.PaymentStatus)
		}}, true
	case settings.ColumnStatus:
		return TableColumn[domain.Order]{Name: "STATUS", Width: 10, Extractor: func(o *domain.Order) string { return string(o.OrderStatus) }}, true
	case settings.ColumnDate:
		return TableColumn[domain.Order]{Name: "DATE", Width: 17, Extractor: func(o *domain.Order) string { return formatDate(o.CreatedAt) }}, true
	case settings.ColumnItems:
		return TableColumn[domain.Order]{Name: "ITEMS", Width: 5, Alignment: "right", Extractor: func(o *domain.Order) string {
			if o.Items == nil {
				return "-"
			}
			return fmt.Sprint(len(o.Items))
		}}, true
	}
	return TableColumn[domain.Order]{}, false
}

func transactionColumns(currency string) []TableColumn[domain.Transaction] {
	return []TableColumn[domain.Transaction]{
		{Name: "TRANSACTION", Width: 20, Extractor: func(t *domain.Transaction) string { return t.ID }},
		{Name: "CUSTOMER", Width: 20, Extractor: func(t *domain.Transaction) string { return t.Customer }},
		{Name: "AMOUNT", Width: 10, Alignment: "right", Extractor: func(t *domain.Transaction) string { return Amount(currency, t.Amount) }},
		{Name: "METHOD", Width: 16, Extractor: func(t *domain.Transaction) string { return t.PaymentMethod }},
		{Name: "STATUS", Width: 8, Extractor: func(t *domain.Transaction) string { return t.Status }},
		{Name: "DATE", Width: 17, Extractor: func(t *domain.Transaction) string { return formatDate(t.CreatedAt) }},
	}
}

// TableFormatter formats rows in a table with headers.
type TableFormatter struct {
	opts Options
}

// NewTableFormatter creates a new TableFormatter.
func NewTableFormatter(opts Options) *TableFormatter {
	if opts.Currency == "" {
		opts.Currency = "₹"
	}
	if len(opts.Columns) == 0 {
		opts.Columns = settings.DefaultColumns
	}
	return &TableFormatter{opts: opts}
}

func (f *TableFormatter) headerColor() string {
	if f.opts.Color {
		return colors.Blue
	}
	return ""
}

// FormatOrders formats orders with the configured columns.
func (f *TableFormatter) FormatOrders(orders []domain.Order, writer io.Writer) error {
	t := table[domain.Order]{headerColor: f.headerColor()}
	for _, name := range f.opts.Columns {
		if col, ok := orderColumn(name, f.opts.Currency); ok {
			t.columns = append(t.columns, col)
		}
	}
	return t.write(orders, writer)
}

// FormatTransactions formats transactions in a fixed layout.
func (f *TableFormatter) FormatTransactions(txns []domain.Transaction, writer io.Writer) error {
	t := table[domain.Transaction]{columns: transactionColumns(f.opts.Currency), headerColor: f.headerColor()}
	return t.write(txns, writer)
}

// SimpleFormatter prints one line per row without headers.
type SimpleFormatter struct {
	opts Options
}

// FormatOrders formats orders in simple format.
func (f *SimpleFormatter) FormatOrders(orders []domain.Order, writer io.Writer) error {
	for _, o := range orders {
		_, err := fmt.Fprintf(writer, "%s  %-10s  %s  %s\n", ShortID(o), o.OrderStatus,
			Amount(f.opts.Currency, float64(o.TotalAmount)), o.CustomerName())
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatTransactions formats transactions in simple format.
func (f *SimpleFormatter) FormatTransactions(txns []domain.Transaction, writer io.Writer) error {
	for _, t := range txns {
		_, err := fmt.Fprintf(writer, "%s  %-7s  %s  %s\n", t.ID, t.Status, Amount(f.opts.Currency, t.Amount), t.Customer)
		if err != nil {
			return err
		}
	}
	return nil
}

// CompactFormatter prints only identifiers.
type CompactFormatter struct{}

// FormatOrders prints order ids.
func (f *CompactFormatter) FormatOrders(orders []domain.Order, writer io.Writer) error {
	for _, o := range orders {
		if _, err := fmt.Fprintln(writer, o.Key()); err != nil {
			return err
		}
	}
	return nil
}

// FormatTransactions prints transaction ids.
func (f *CompactFormatter) FormatTransactions(txns []domain.Transaction, writer io.Writer) error {
	for _, t := range txns {
		if _, err := fmt.Fprintln(writer, t.ID); err != nil {
			return err
		}
	}
	return nil
}
