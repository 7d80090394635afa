package format

import (
	"encoding/json"
	"io"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/domain"
)

// JSONFormatter writes indented JSON arrays.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatOrders writes orders in their backend wire shape.
func (f *JSONFormatter) FormatOrders(orders []domain.Order, writer io.Writer) error {
	if orders == nil {
		orders = []domain.Order{}
	}
	return writeJSON(writer, orders)
}

type transactionJSON struct {
	ID               string  `json:"id"`
	OrderID          string  `json:"orderId"`
	Customer         string  `json:"customer"`
	CustomerEmail    string  `json:"customerEmail,omitempty"`
	CustomerPhone    string  `json:"customerPhone,omitempty"`
	Amount           float64 `json:"amount"`
	Status           string  `json:"status"`
	PaymentMethod    string  `json:"paymentMethod"`
	OrderStatus      string  `json:"orderStatus"`
	GatewayOrderID   string  `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string  `json:"gatewayPaymentId,omitempty"`
	CreatedAt        string  `json:"createdAt"`
}

// FormatTransactions writes transactions with camelCase keys.
func (f *JSONFormatter) FormatTransactions(txns []domain.Transaction, writer io.Writer) error {
	out := make([]transactionJSON, len(txns))
	for i, t := range txns {
		out[i] = transactionJSON{
			ID:               t.ID,
			OrderID:          t.OrderID,
			Customer:         t.Customer,
			CustomerEmail:    t.CustomerEmail,
			CustomerPhone:    t.CustomerPhone,
			Amount:           t.Amount,
			Status:           t.Status,
			PaymentMethod:    t.PaymentMethod,
			OrderStatus:      string(t.OrderStatus),
			GatewayOrderID:   t.GatewayOrderID,
			GatewayPaymentID: t.GatewayPaymentID,
			CreatedAt:        t.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return writeJSON(writer, out)
}

// WriteJSON writes any value as indented JSON.
func WriteJSON(writer io.Writer, v any) error {
	return writeJSON(writer, v)
}

func writeJSON(writer io.Writer, v any) error {
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
