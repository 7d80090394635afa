package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrders() []domain.Order {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)
	return []domain.Order{
		{
			ID:            "665f1c2e9b1d4a0012ab34cd",
			OrderNumber:   "ORD-1001",
			Customer:      &domain.Customer{Name: "Asha Rao", Email: "asha@example.com"},
			TotalAmount:   1499,
			PaymentMethod: "razorpay",
			PaymentStatus: domain.PaymentPaid,
			OrderStatus:   domain.StatusShipped,
			CreatedAt:     created,
		},
		{
			ID:          "665f1c2e9b1d4a0012ab99ff",
			TotalAmount: 250.5,
			OrderStatus: domain.StatusPlaced,
			CreatedAt:   created.Add(-time.Hour),
		},
	}
}

func TestNewFormatterTypes(t *testing.T) {
	assert.IsType(t, &TableFormatter{}, NewFormatter(FormatterTypeTable, Options{}))
	assert.IsType(t, &SimpleFormatter{}, NewFormatter(FormatterTypeSimple, Options{}))
	assert.IsType(t, &CompactFormatter{}, NewFormatter(FormatterTypeCompact, Options{}))
	assert.IsType(t, &JSONFormatter{}, NewFormatter(FormatterTypeJSON, Options{}))
	assert.IsType(t, &TableFormatter{}, NewFormatter("unknown", Options{}))
}

func TestTableFormatterOrders(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(Options{})
	require.NoError(t, f.FormatOrders(sampleOrders(), &buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ORDER"))
	assert.Contains(t, lines[0], "CUSTOMER")
	assert.Contains(t, lines[0], "DATE")
	assert.True(t, strings.HasPrefix(lines[1], "-----"))
	assert.Contains(t, lines[2], "ORD-1001")
	assert.Contains(t, lines[2], "Asha Rao")
	assert.Contains(t, lines[2], "₹1499")
	assert.Contains(t, lines[2], "Razorpay")
	assert.Contains(t, lines[2], "01 Mar 2026 09:30")
	assert.Contains(t, lines[3], "#12AB99FF")
	assert.Contains(t, lines[3], "Unknown Customer")
	assert.Contains(t, lines[3], "₹250.50")
	assert.Contains(t, lines[3], "Cash on Delivery")
}

func TestTableFormatterColumnsAndAlignment(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(Options{Columns: []string{settings.ColumnAmount, settings.ColumnStatus, "bogus"}, Currency: "$"})
	require.NoError(t, f.FormatOrders(sampleOrders()[:1], &buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "AMOUNT      STATUS", lines[0])
	assert.Equal(t, "     $1499  SHIPPED", lines[2])
}

func TestTableFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(Options{}).FormatOrders(nil, &buf))
	assert.Empty(t, buf.String())
}

func TestTableFormatterHeaderColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(Options{Color: true}).FormatOrders(sampleOrders(), &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "\033[0;34mORDER"))
}

func TestTransactionsTable(t *testing.T) {
	var buf bytes.Buffer
	txns := domain.Transactions(sampleOrders())
	require.NoError(t, NewTableFormatter(Options{}).FormatTransactions(txns, &buf))
	out := buf.String()
	assert.Contains(t, out, "TRANSACTION")
	assert.Contains(t, out, "TXN-665F1C2E")
	assert.Contains(t, out, "Success")
	assert.Contains(t, out, "Pending")
}

func TestSimpleAndCompact(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatterTypeSimple, Options{}).FormatOrders(sampleOrders()[:1], &buf))
	assert.Equal(t, "ORD-1001  SHIPPED     ₹1499  Asha Rao\n", buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(FormatterTypeCompact, Options{}).FormatOrders(sampleOrders(), &buf))
	assert.Equal(t, "665f1c2e9b1d4a0012ab34cd\n665f1c2e9b1d4a0012ab99ff\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().FormatOrders(nil, &buf))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, NewJSONFormatter().FormatTransactions(domain.Transactions(sampleOrders()[:1]), &buf))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Success", decoded[0]["status"])
	assert.Equal(t, 1499.0, decoded[0]["amount"])
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "a very ...", truncateString("a very long customer name", 10))
	assert.Equal(t, "ab", truncateString("abcdef", 2))
	assert.Equal(t, "₹₹₹...", truncateString("₹₹₹₹₹₹₹₹", 6))
}

func TestOrderDetail(t *testing.T) {
	placed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)
	o := sampleOrders()[0]
	o.Customer.Phone = "9988776655"
	o.DeliveryAddress = &domain.Address{FullName: "Asha Rao", Line1: "12 MG Road", City: "Pune", State: "MH", Pincode: "411001"}
	o.Items = []domain.LineItem{{Product: &domain.ProductRef{Name: "Linen Shirt"}, Quantity: 2, Price: 749.5, Size: "M"}}
	o.StatusHistory = []domain.StatusChange{{Status: domain.StatusPlaced, CreatedAt: &placed}}

	var buf bytes.Buffer
	require.NoError(t, OrderDetail(&buf, o, "₹"))
	out := buf.String()
	assert.Contains(t, out, "Order ORD-1001")
	assert.Contains(t, out, "Razorpay (Success)")
	assert.Contains(t, out, "9988776655")
	assert.Contains(t, out, "Pune, MH, 411001")
	assert.Contains(t, out, "2 x Linen Shirt (size M)  ₹1499")
	assert.Contains(t, out, "PLACED     01 Mar 2026 09:30")
	assert.Contains(t, out, "SHIPPED    pending")
	assert.Contains(t, out, "Can move to:")
	assert.NotContains(t, out, "Can move to: PLACED")
}

func TestStatsLines(t *testing.T) {
	assert.Equal(t, "3 orders, 1 pending, revenue ₹1200", OrderStats(domain.OrderStats{Total: 3, Pending: 1, Revenue: 1200}, "₹"))
	assert.Equal(t, "2 transactions, 1 successful, 1 pending, 0 failed, inflow ₹99.90",
		TransactionStats(domain.TransactionSummary{Count: 2, Success: 1, Pending: 1, Inflow: 99.9}, "₹"))
	assert.Equal(t, "Page 2 of 3 (10 of 25)", PageFooter(2, 3, 10, 25))
}
