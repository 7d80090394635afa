package orders

import "github.com/cristianoliveira/orderdesk/internal/domain"

// Placeholder names the backend writes when it failed to resolve a user.
const (
	userNotFound   = "User not found"
	userLoadFailed = "Failed to load user"
)

// Reconcile picks the best customer record for a detail view.
//
// The detail customer wins when it carries a name, full name or real email.
// Otherwise the list customer is used when it carries a name, full name or
// phone. A missing or placeholder name, a missing phone and a missing email
// are then filled from the delivery address first and the list customer
// second. With no customer at all one is synthesized from the address.
// The inputs are never modified.
func Reconcile(detail, list *domain.Customer, addr *domain.Address) *domain.Customer {
	var base *domain.Customer
	switch {
	case detail.IsPopulated():
		base = detail
	case list != nil && (list.Name != "" || list.FullName != "" || list.Phone != ""):
		base = list
	case detail != nil && *detail != (domain.Customer{}):
		base = detail
	}

	if base == nil {
		if addr != nil && (addr.FullName != "" || addr.Phone != "") {
			return &domain.Customer{Name: addr.FullName, Phone: addr.Phone, Email: addr.Email}
		}
		if list != nil {
			c := *list
			return &c
		}
		return nil
	}

	c := *base
	if (c.Name == "" || c.Name == userNotFound || c.Name == userLoadFailed) && c.FullName == "" {
		c.Name = firstNonEmpty(
			addressField(addr, func(a *domain.Address) string { return a.FullName }),
			listField(list, func(l *domain.Customer) string { return firstNonEmpty(l.Name, l.FullName) }),
			c.Name)
	}
	if c.Phone == "" {
		c.Phone = firstNonEmpty(
			addressField(addr, func(a *domain.Address) string { return a.Phone }),
			listField(list, func(l *domain.Customer) string { return l.Phone }))
	}
	if c.Email == "" {
		c.Email = firstNonEmpty(
			addressField(addr, func(a *domain.Address) string { return a.Email }),
			listField(list, func(l *domain.Customer) string { return l.Email }))
	}
	return &c
}

func addressField(a *domain.Address, get func(*domain.Address) string) string {
	if a == nil {
		return ""
	}
	return get(a)
}

func listField(l *domain.Customer, get func(*domain.Customer) string) string {
	if l == nil {
		return ""
	}
	return get(l)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
