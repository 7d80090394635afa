package settings

import (
	"fmt"
	"slices"

	"github.com/cristianoliveira/orderdesk/internal/domain"
)

// Validate checks that settings values are valid.
// Preconditions: settings must be non-nil.
func Validate(settings *Settings) error {
	if settings == nil {
		return fmt.Errorf("settings cannot be nil")
	}
	if err := validateColumns(settings.Columns); err != nil {
		return err
	}
	if err := ValidatePageSize(settings.OrdersPerPage); err != nil {
		return fmt.Errorf("ordersPerPage: %w", err)
	}
	if err := ValidatePageSize(settings.TransactionsPerPage); err != nil {
		return fmt.Errorf("transactionsPerPage: %w", err)
	}
	if _, err := domain.OrderFilters.Normalize(settings.OrderFilter); err != nil {
		return fmt.Errorf("orderFilter: %w", err)
	}
	if _, err := domain.TransactionFilters.Normalize(settings.TransactionFilter); err != nil {
		return fmt.Errorf("transactionFilter: %w", err)
	}
	if settings.ActiveTab != "" && !settings.ActiveTab.IsValid() {
		return fmt.Errorf("invalid activeTab value: %s", settings.ActiveTab)
	}
	return nil
}

func validateColumns(columns []string) error {
	for _, col := range columns {
		if !validColumns[col] {
			return fmt.Errorf("invalid column name: %s", col)
		}
	}
	return nil
}

// ValidatePageSize accepts one of PageSizes.
func ValidatePageSize(n int) error {
	if !slices.Contains(PageSizes, n) {
		return fmt.Errorf("invalid page size %d (allowed: %v)", n, PageSizes)
	}
	return nil
}
