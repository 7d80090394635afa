package domain

// Patch is a local mutation of an order. Zero fields leave the order unchanged.
type Patch struct {
	OrderStatus   OrderStatus
	PaymentStatus PaymentStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.OrderStatus == "" && p.PaymentStatus == ""
}

// Apply writes the patch onto o.
func (p Patch) Apply(o *Order) {
	if p.OrderStatus != "" {
		o.OrderStatus = p.OrderStatus
	}
	if p.PaymentStatus != "" {
		o.PaymentStatus = p.PaymentStatus
	}
}

// RevertPatch returns the patch that restores prev's fields touched by p.
func RevertPatch(prev Order, p Patch) Patch {
	var r Patch
	if p.OrderStatus != "" {
		r.OrderStatus = prev.OrderStatus
	}
	if p.PaymentStatus != "" {
		r.PaymentStatus = prev.PaymentStatus
	}
	return r
}
