package hooks

import (
	"context"

	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/domain"
)

// OrderEnv describes an order to hook scripts.
func OrderEnv(o domain.Order) []string {
	return []string{
		"ORDER_ID=" + o.ID,
		"ORDER_NUMBER=" + o.OrderNumber,
		"ORDER_STATUS=" + string(o.OrderStatus),
		"PAYMENT_STATUS=" + string(o.PaymentStatus),
		"PAYMENT_METHOD=" + o.PaymentMethod,
		"CUSTOMER_NAME=" + o.CustomerName(),
		"TOTAL_AMOUNT=" + domain.FormatAmount(float64(o.TotalAmount)),
	}
}

// NewOrder runs the on-new-order scripts for a notification.
// Failures are reported, never returned, so polling carries on.
func (r *Runner) NewOrder(ctx context.Context, n domain.Notification, o domain.Order) {
	env := append(OrderEnv(o),
		"NOTIFICATION_ID="+n.ID,
		"NOTIFICATION_MESSAGE="+n.Message,
	)
	if err := r.Run(ctx, PointNewOrder, env...); err != nil {
		colors.StructuredWarn("hooks", PointNewOrder, "failed", err, o.Key(), nil)
	}
}

// StatusChanged runs the on-status-change scripts after a successful status update.
func (r *Runner) StatusChanged(ctx context.Context, o domain.Order, previous domain.OrderStatus) error {
	return r.Run(ctx, PointStatusChange, append(OrderEnv(o), "PREVIOUS_STATUS="+string(previous))...)
}
