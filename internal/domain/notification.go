package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notification announces a newly placed order.
type Notification struct {
	ID        string
	OrderID   string
	Message   string
	CreatedAt time.Time
}

// NewOrderNotification builds the notification for a new order.
func NewOrderNotification(o Order, currency string, now time.Time) Notification {
	return Notification{
		ID:        uuid.NewString(),
		OrderID:   o.Key(),
		Message:   fmt.Sprintf("New order placed by %s - %s%s", o.CustomerName(), currency, FormatAmount(float64(o.TotalAmount))),
		CreatedAt: now,
	}
}

// FormatAmount renders an amount without trailing zero decimals.
func FormatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
