package format

import (
	"fmt"

	"github.com/cristianoliveira/orderdesk/internal/domain"
)

// OrderStats renders the one-line summary shown above the order list.
func OrderStats(s domain.OrderStats, currency string) string {
	return fmt.Sprintf("%d orders, %d pending, revenue %s", s.Total, s.Pending, Amount(currency, s.Revenue))
}

// TransactionStats renders the one-line summary shown above the transaction list.
func TransactionStats(s domain.TransactionSummary, currency string) string {
	return fmt.Sprintf("%d transactions, %d successful, %d pending, %d failed, inflow %s",
		s.Count, s.Success, s.Pending, s.Failed, Amount(currency, s.Inflow))
}

// PageFooter renders the pagination line under a listing.
func PageFooter(page, totalPages, shown, total int) string {
	return fmt.Sprintf("Page %d of %d (%d of %d)", page, totalPages, shown, total)
}
