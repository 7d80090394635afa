package domain

import (
	"strings"
	"time"
)

// Transaction outcome labels.
const (
	TxnSuccess = "Success"
	TxnPending = "Pending"
	TxnFailed  = "Failed"
)

const cashOnDelivery = "Cash on Delivery"

// Transaction is a read-only payment view of an order.
type Transaction struct {
	ID               string
	OrderID          string
	Customer         string
	CustomerEmail    string
	CustomerPhone    string
	Amount           float64
	Status           string
	PaymentMethod    string
	PaymentStatus    PaymentStatus
	OrderStatus      OrderStatus
	GatewayOrderID   string
	GatewayPaymentID string
	CreatedAt        time.Time
}

// FromOrder projects an order into a transaction.
func FromOrder(o Order) Transaction {
	var email, phone string
	if o.Customer != nil {
		email, phone = o.Customer.Email, o.Customer.Phone
	}
	return Transaction{
		ID:               transactionID(o),
		OrderID:          o.ID,
		Customer:         o.CustomerName(),
		CustomerEmail:    email,
		CustomerPhone:    phone,
		Amount:           float64(o.TotalAmount),
		Status:           TransactionStatus(o.PaymentStatus),
		PaymentMethod:    PaymentMethodLabel(o.PaymentMethod),
		PaymentStatus:    o.PaymentStatus,
		OrderStatus:      o.OrderStatus,
		GatewayOrderID:   o.GatewayOrderID,
		GatewayPaymentID: o.GatewayPaymentID,
		CreatedAt:        o.CreatedAt,
	}
}

// Transactions projects a slice of orders.
func Transactions(orders []Order) []Transaction {
	out := make([]Transaction, len(orders))
	for i, o := range orders {
		out[i] = FromOrder(o)
	}
	return out
}

// TransactionStatus maps PAID to Success, FAILED to Failed and anything else to Pending.
func TransactionStatus(p PaymentStatus) string {
	switch p {
	case PaymentPaid:
		return TxnSuccess
	case PaymentFailed:
		return TxnFailed
	default:
		return TxnPending
	}
}

// PaymentMethodLabel returns a display label for a raw payment method.
func PaymentMethodLabel(method string) string {
	if method == "" {
		return cashOnDelivery
	}
	m := strings.ToLower(method)
	switch {
	case strings.Contains(m, "razorpay"):
		return "Razorpay"
	case strings.Contains(m, "upi"):
		return "UPI"
	case strings.Contains(m, "card"):
		return "Credit Card"
	case strings.Contains(m, "wallet"):
		return "Wallet"
	case strings.Contains(m, "netbanking"), strings.Contains(m, "net banking"):
		return "Net Banking"
	case strings.Contains(m, "cod"), strings.Contains(m, "cash"):
		return cashOnDelivery
	default:
		return method
	}
}

func transactionID(o Order) string {
	if o.GatewayPaymentID != "" {
		return o.GatewayPaymentID
	}
	id := o.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "TXN-" + strings.ToUpper(id)
}

// TransactionSummary aggregates a transaction set.
type TransactionSummary struct {
	Count   int
	Success int
	Pending int
	Failed  int
	Inflow  float64
}

// TransactionStats sums successful amounts as inflow and counts each outcome.
func TransactionStats(txns []Transaction) TransactionSummary {
	s := TransactionSummary{Count: len(txns)}
	for _, t := range txns {
		switch t.Status {
		case TxnSuccess:
			s.Success++
			s.Inflow += t.Amount
		case TxnFailed:
			s.Failed++
		default:
			s.Pending++
		}
	}
	return s
}
