package domain

import (
	"fmt"
	"strings"
)

// OrderStatus is the fulfilment status of an order.
type OrderStatus string

const (
	StatusPlaced    OrderStatus = "PLACED"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// OrderStatuses lists every order status in lifecycle order.
var OrderStatuses = []OrderStatus{
	StatusPlaced, StatusConfirmed, StatusShipped,
	StatusDelivered, StatusCompleted, StatusCancelled,
}

// ParseOrderStatus parses a status case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// IsValid checks if the order status is known.
func (s OrderStatus) IsValid() bool {
	return s.Rank() >= 0
}

// Rank returns the lifecycle position of the status, or -1 if unknown.
func (s OrderStatus) Rank() int {
	for i, st := range OrderStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether no further transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// String returns the string representation of the status.
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransition reports whether an order may move from one status to another.
// Moves go forward along PLACED..COMPLETED; CANCELLED is reachable from any
// non-terminal status.
func CanTransition(from, to OrderStatus) bool {
	if !from.IsValid() || !to.IsValid() || from == to || from.IsTerminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return to.Rank() > from.Rank()
}

// ValidateTransition returns ErrInvalidTransition when CanTransition is false.
func ValidateTransition(from, to OrderStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// PaymentStatus is the payment state of an order.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// IsValid checks if the payment status is known.
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the payment status.
func (p PaymentStatus) String() string {
	return string(p)
}
