package domain

// OrderStats summarizes a full order set.
type OrderStats struct {
	Total   int
	Pending int
	Revenue float64
}

// Stats counts PLACED orders as pending and sums every order amount as revenue.
func Stats(orders []Order) OrderStats {
	s := OrderStats{Total: len(orders)}
	for _, o := range orders {
		if currentStatus(o) == StatusPlaced {
			s.Pending++
		}
		s.Revenue += float64(o.TotalAmount)
	}
	return s
}
