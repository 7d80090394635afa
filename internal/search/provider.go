// Package search provides a unified search abstraction for filtering orders.
// It supports multiple search strategies (substring, regex, token-based) through
// a common Provider interface shared by the CLI and the TUI.
package search

import (
	"strings"

	"github.com/cristianoliveira/orderdesk/internal/domain"
)

// Searchable fields.
const (
	FieldID       = "id"
	FieldOrder    = "order"
	FieldCustomer = "customer"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldStatus   = "status"
	FieldPayment  = "payment"
)

// Provider names accepted by New.
const (
	ProviderSubstring = "substring"
	ProviderRegex     = "regex"
	ProviderToken     = "token"
)

// Provider defines the interface for search providers.
type Provider interface {
	// Match returns true if the order matches the search query.
	Match(order domain.Order, query string) bool

	// Name returns the provider name for identification and debugging.
	Name() string
}

// Options holds configuration options for creating search providers.
type Options struct {
	CaseInsensitive bool     // If true, searches ignore case sensitivity
	Fields          []string // Fields to search in
}

// DefaultOptions returns the default search options: case-insensitive over
// id, order number, customer names, email and phone.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: true,
		Fields:          []string{FieldID, FieldOrder, FieldCustomer, FieldEmail, FieldPhone},
	}
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFields sets the fields to search in.
// Valid fields: "id", "order", "customer", "email", "phone", "status", "payment".
func WithFields(fields []string) Option {
	return func(o *Options) {
		o.Fields = fields
	}
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// fieldValues returns the non-empty values of field on order.
func fieldValues(order domain.Order, field string) []string {
	var values []string
	add := func(vs ...string) {
		for _, v := range vs {
			if v != "" {
				values = append(values, v)
			}
		}
	}
	switch field {
	case FieldID:
		add(order.ID)
	case FieldOrder:
		add(order.OrderNumber)
	case FieldCustomer:
		if order.Customer != nil {
			add(order.Customer.Name, order.Customer.FullName)
		}
	case FieldEmail:
		if order.Customer != nil {
			add(order.Customer.Email)
		}
	case FieldPhone:
		if order.Customer != nil {
			add(order.Customer.Phone)
		}
	case FieldStatus:
		add(string(order.OrderStatus))
	case FieldPayment:
		add(string(order.PaymentStatus), order.PaymentMethod)
	}
	return values
}

// matchAny reports whether pred holds for any value of the configured fields.
func matchAny(opts Options, order domain.Order, pred func(value string) bool) bool {
	for _, field := range opts.Fields {
		for _, value := range fieldValues(order, field) {
			if opts.CaseInsensitive {
				value = strings.ToLower(value)
			}
			if pred(value) {
				return true
			}
		}
	}
	return false
}

// Filter returns the orders matching query, preserving order.
func Filter(p Provider, orders []domain.Order, query string) []domain.Order {
	if p == nil || strings.TrimSpace(query) == "" {
		return orders
	}
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if p.Match(o, query) {
			out = append(out, o)
		}
	}
	return out
}

// New returns the provider registered under name, defaulting to substring.
func New(name string, opts ...Option) Provider {
	switch strings.ToLower(name) {
	case ProviderRegex:
		return NewRegexProvider(opts...)
	case ProviderToken:
		return NewTokenProvider(opts...)
	default:
		return NewSubstringProvider(opts...)
	}
}
