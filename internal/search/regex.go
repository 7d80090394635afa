package search

import (
	"regexp"
	"sync"

	"github.com/cristianoliveira/orderdesk/internal/domain"
)

// RegexProvider matches if any configured field matches the regex pattern.
type RegexProvider struct {
	opts    Options
	cache   map[string]*regexp.Regexp
	cacheMu sync.RWMutex
}

// NewRegexProvider creates a new regex search provider.
func NewRegexProvider(opts ...Option) Provider {
	return &RegexProvider{
		opts:  applyOptions(opts),
		cache: make(map[string]*regexp.Regexp),
	}
}

// Match returns true if any configured field matches the regex pattern.
// An invalid pattern matches nothing.
func (p *RegexProvider) Match(order domain.Order, query string) bool {
	if query == "" {
		return true
	}
	re, err := p.getRegex(query)
	if err != nil {
		return false
	}
	// Case folding lives in the compiled pattern, so match raw values.
	raw := p.opts
	raw.CaseInsensitive = false
	return matchAny(raw, order, re.MatchString)
}

// getRegex returns a compiled regex for the given pattern, using cache.
func (p *RegexProvider) getRegex(pattern string) (*regexp.Regexp, error) {
	p.cacheMu.RLock()
	re, ok := p.cache[pattern]
	p.cacheMu.RUnlock()
	if ok {
		return re, nil
	}

	expr := pattern
	if p.opts.CaseInsensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	p.cacheMu.Lock()
	p.cache[pattern] = re
	p.cacheMu.Unlock()
	return re, nil
}

// Name returns the provider name.
func (p *RegexProvider) Name() string {
	return ProviderRegex
}
