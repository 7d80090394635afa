package domain

import (
	"fmt"
	"strings"
)

// FilterAll is the filter value that selects every order.
const FilterAll = "all"

// FilterVocabulary maps user-facing filter values to backend order query values.
type FilterVocabulary struct {
	// Name identifies the vocabulary ("orders", "transactions").
	Name string
	// Values lists the filter values in display order, FilterAll first.
	Values []string
	// toQuery maps each non-"all" value to the backend status parameter.
	toQuery map[string]string
}

// NewFilterVocabulary builds a vocabulary. FilterAll is always accepted.
func NewFilterVocabulary(name string, values []string, toQuery map[string]string) FilterVocabulary {
	return FilterVocabulary{
		Name:    name,
		Values:  append([]string{FilterAll}, values...),
		toQuery: toQuery,
	}
}

// OrderFilters filters by order status.
var OrderFilters = NewFilterVocabulary("orders",
	[]string{"PLACED", "CONFIRMED", "SHIPPED", "DELIVERED", "COMPLETED", "CANCELLED"},
	map[string]string{
		"PLACED":    "PLACED",
		"CONFIRMED": "CONFIRMED",
		"SHIPPED":   "SHIPPED",
		"DELIVERED": "DELIVERED",
		"COMPLETED": "COMPLETED",
		"CANCELLED": "CANCELLED",
	})

// TransactionFilters filters by payment outcome.
var TransactionFilters = NewFilterVocabulary("transactions",
	[]string{TxnSuccess, TxnPending, TxnFailed},
	map[string]string{
		TxnSuccess: string(PaymentPaid),
		TxnPending: string(PaymentPending),
		TxnFailed:  string(PaymentFailed),
	})

// Normalize resolves value to its canonical spelling in the vocabulary.
// An empty value means FilterAll.
func (v FilterVocabulary) Normalize(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, FilterAll) {
		return FilterAll, nil
	}
	for _, candidate := range v.Values {
		if strings.EqualFold(candidate, value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w %q for %s (allowed: %s)", ErrInvalidFilter, value, v.Name, strings.Join(v.Values, ", "))
}

// ToStatus returns the backend status query value. ok is false for FilterAll,
// meaning the status parameter is omitted.
func (v FilterVocabulary) ToStatus(value string) (status string, ok bool) {
	if value == FilterAll || value == "" {
		return "", false
	}
	status, ok = v.toQuery[value]
	return status, ok
}
