package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/domain"
)

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(DateLayout)
}

// OrderDetail writes the full view of one order: summary, customer,
// delivery address, items, status timeline and the statuses it can move to.
func OrderDetail(w io.Writer, o domain.Order, currency string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Order %s\n", ShortID(o))
	field(&b, "ID", o.ID)
	field(&b, "Placed", formatDate(o.CreatedAt))
	field(&b, "Status", string(o.OrderStatus))
	field(&b, "Payment", fmt.Sprintf("%s (%s)", domain.PaymentMethodLabel(o.PaymentMethod), domain.TransactionStatus(o.PaymentStatus)))
	field(&b, "Total", Amount(currency, float64(o.TotalAmount)))
	if o.GatewayPaymentID != "" {
		field(&b, "Gateway payment", o.GatewayPaymentID)
	}

	b.WriteString("\nCustomer\n")
	field(&b, "Name", o.CustomerName())
	if c := o.Customer; c != nil {
		field(&b, "Email", orDash(c.RealEmail()))
		field(&b, "Phone", orDash(c.Phone))
	}

	if a := o.DeliveryAddress; a != nil {
		b.WriteString("\nDelivery address\n")
		for _, line := range addressLines(a) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}

	if len(o.Items) > 0 {
		b.WriteString("\nItems\n")
		for _, item := range o.Items {
			name := "Unknown product"
			if item.Product != nil && item.Product.Name != "" {
				name = item.Product.Name
			}
			var variant []string
			if item.Size != "" {
				variant = append(variant, "size "+item.Size)
			}
			if item.Color != "" {
				variant = append(variant, item.Color)
			}
			if len(variant) > 0 {
				name += " (" + strings.Join(variant, ", ") + ")"
			}
			fmt.Fprintf(&b, "  %d x %s  %s\n", item.Quantity, name,
				Amount(currency, float64(item.Price)*float64(item.Quantity)))
		}
	}

	b.WriteString("\nTimeline\n")
	for _, entry := range domain.Timeline(o) {
		at := "pending"
		if entry.At != nil {
			at = formatDate(*entry.At)
		}
		fmt.Fprintf(&b, "  %-10s %s\n", entry.Status, at)
	}

	options := domain.StatusOptions(o)
	names := make([]string, len(options))
	for i, st := range options {
		names[i] = string(st)
	}
	fmt.Fprintf(&b, "\nCan move to: %s\n", strings.Join(names, ", "))

	_, err := io.WriteString(w, b.String())
	return err
}

func field(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %-16s %s\n", label+":", value)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func addressLines(a *domain.Address) []string {
	var lines []string
	for _, s := range []string{a.FullName, a.Line1, a.Line2} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	var cityLine []string
	for _, s := range []string{a.City, a.State, a.Pincode} {
		if s != "" {
			cityLine = append(cityLine, s)
		}
	}
	if len(cityLine) > 0 {
		lines = append(lines, strings.Join(cityLine, ", "))
	}
	if a.Phone != "" {
		lines = append(lines, "Phone: "+a.Phone)
	}
	return lines
}
