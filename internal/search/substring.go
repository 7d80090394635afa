package search

import (
	"strings"

	"github.com/cristianoliveira/orderdesk/internal/domain"
)

// SubstringProvider matches if any configured field contains the query as a substring.
type SubstringProvider struct {
	opts Options
}

// NewSubstringProvider creates a new substring search provider.
func NewSubstringProvider(opts ...Option) Provider {
	return &SubstringProvider{opts: applyOptions(opts)}
}

// Match returns true if any configured field contains the query substring.
func (p *SubstringProvider) Match(order domain.Order, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	if p.opts.CaseInsensitive {
		query = strings.ToLower(query)
	}
	return matchAny(p.opts, order, func(value string) bool {
		return strings.Contains(value, query)
	})
}

// Name returns the provider name.
func (p *SubstringProvider) Name() string {
	return ProviderSubstring
}
