package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cristianoliveira/orderdesk/internal/domain"
)

// VariableContext contains all data needed for template variable resolution.
type VariableContext struct {
	Currency string
	Filter   string

	TotalCount int
	// PendingCount is the number of PLACED orders.
	PendingCount int
	StatusCounts map[domain.OrderStatus]int
	Revenue      float64

	LatestOrder    string
	LatestCustomer string
	LatestAmount   float64
	HasLatest      bool
}

// NewVariableContext summarizes a full order set.
func NewVariableContext(orders []domain.Order, filter, currency string) VariableContext {
	stats := domain.Stats(orders)
	ctx := VariableContext{
		Currency:     currency,
		Filter:       filter,
		TotalCount:   stats.Total,
		PendingCount: stats.Pending,
		Revenue:      stats.Revenue,
		StatusCounts: make(map[domain.OrderStatus]int),
	}
	for _, o := range orders {
		ctx.StatusCounts[o.OrderStatus]++
	}
	if len(orders) > 0 {
		latest := append([]domain.Order(nil), orders...)
		domain.SortByCreatedDesc(latest)
		newest := latest[0]
		ctx.LatestOrder = shortID(newest)
		ctx.LatestCustomer = newest.CustomerName()
		ctx.LatestAmount = float64(newest.TotalAmount)
		ctx.HasLatest = true
	}
	return ctx
}

func shortID(o domain.Order) string {
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	return o.ID
}

// VariableResolver resolves template variables to their values.
type VariableResolver interface {
	// Resolve returns the string value for a given variable name and context.
	Resolve(varName string, ctx VariableContext) (string, error)
}

type variableResolver struct{}

// NewVariableResolver creates a new variable resolver instance.
func NewVariableResolver() VariableResolver {
	return &variableResolver{}
}

// Resolve returns the string value for a variable from the context. Every
// order status also has a "<status>-count" variable, e.g. shipped-count.
func (vr *variableResolver) Resolve(varName string, ctx VariableContext) (string, error) {
	switch varName {
	case "total-count":
		return strconv.Itoa(ctx.TotalCount), nil
	case "pending-count":
		return strconv.Itoa(ctx.PendingCount), nil
	case "has-pending":
		return strconv.FormatBool(ctx.PendingCount > 0), nil
	case "revenue":
		return ctx.Currency + domain.FormatAmount(ctx.Revenue), nil
	case "currency":
		return ctx.Currency, nil
	case "filter":
		return ctx.Filter, nil
	case "latest-order":
		return ctx.LatestOrder, nil
	case "latest-customer":
		return ctx.LatestCustomer, nil
	case "latest-amount":
		if !ctx.HasLatest {
			return "", nil
		}
		return ctx.Currency + domain.FormatAmount(ctx.LatestAmount), nil
	}

	if name, ok := strings.CutSuffix(varName, "-count"); ok {
		if status, err := domain.ParseOrderStatus(name); err == nil {
			return strconv.Itoa(ctx.StatusCounts[status]), nil
		}
	}
	return "", fmt.Errorf("unknown variable: %s (available: %s)", varName, strings.Join(Variables(), ", "))
}

// Variables lists every variable name the resolver knows.
func Variables() []string {
	names := []string{
		"total-count", "pending-count", "has-pending", "revenue", "currency",
		"filter", "latest-order", "latest-customer", "latest-amount",
	}
	for _, st := range domain.OrderStatuses {
		names = append(names, strings.ToLower(string(st))+"-count")
	}
	sort.Strings(names)
	return names
}
