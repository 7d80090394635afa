package search

import (
	"strings"

	"github.com/cristianoliveira/orderdesk/internal/domain"
)

// TokenProvider splits the query into whitespace-separated tokens.
// Each token must match at least one field (AND logic).
// Tokens of the form "status:X" and "payment:X" filter on the exact order or
// payment status instead of matching text.
type TokenProvider struct {
	opts Options
}

// NewTokenProvider creates a new token search provider.
func NewTokenProvider(opts ...Option) Provider {
	return &TokenProvider{opts: applyOptions(opts)}
}

// Match returns true if the order passes every status token and every text
// token matches at least one field.
func (p *TokenProvider) Match(order domain.Order, query string) bool {
	tokens := strings.Fields(query)
	for _, token := range tokens {
		if key, value, ok := strings.Cut(token, ":"); ok {
			switch strings.ToLower(key) {
			case "status":
				if !strings.EqualFold(string(order.OrderStatus), value) {
					return false
				}
				continue
			case "payment":
				if !strings.EqualFold(string(order.PaymentStatus), value) {
					return false
				}
				continue
			}
		}
		if p.opts.CaseInsensitive {
			token = strings.ToLower(token)
		}
		if !matchAny(p.opts, order, func(value string) bool {
			return strings.Contains(value, token)
		}) {
			return false
		}
	}
	return true
}

// Name returns the provider name.
func (p *TokenProvider) Name() string {
	return ProviderToken
}
