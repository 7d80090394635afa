package domain

import "sort"

// SortByCreatedDesc sorts orders newest first in place. Ties keep input order.
func SortByCreatedDesc(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
