package cache

import "fmt"

// Cache namespaces. Quota eviction spans every namespace family.
const (
	NamespaceOrders       = "orders"
	NamespaceTransactions = "transactions"
)

// Families lists the key prefixes owned by the list caches.
var Families = []string{
	FamilyPrefix(NamespaceOrders),
	FamilyPrefix(NamespaceTransactions),
}

// FamilyPrefix returns the prefix shared by every key of namespace.
func FamilyPrefix(namespace string) string {
	return namespace + "_cache_"
}

// AllKey is the key of the full record set for a filter.
func AllKey(namespace, filter string) string {
	return fmt.Sprintf("%sall_%s", FamilyPrefix(namespace), filter)
}

// PageKey is the key of one visible page for a filter and page size.
func PageKey(namespace, filter string, page, perPage int) string {
	return fmt.Sprintf("%s%s_page%d_perPage%d", FamilyPrefix(namespace), filter, page, perPage)
}
