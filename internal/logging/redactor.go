package logging

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// redactor redacts sensitive values in log key-value pairs.
type redactor struct {
	sensitiveWords map[string]bool
}

func newRedactor() *redactor {
	words := []string{"secret", "password", "token", "key", "auth", "authorization", "credential"}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return &redactor{sensitiveWords: m}
}

// redact returns a copy of pairs with values of sensitive keys replaced by "[REDACTED]".
// A key is sensitive when one of its segments (split on non-alphanumerics) is a sensitive word,
// so "api_token" is redacted and "cache_key_count" is too, while "monkey" is not.
func (r *redactor) redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	result := make([]any, len(pairs))
	copy(result, pairs)
	for i := 0; i+1 < len(result); i += 2 {
		key, ok := result[i].(string)
		if ok && r.isSensitive(key) {
			result[i+1] = "[REDACTED]"
		}
	}
	return result
}

func (r *redactor) isSensitive(key string) bool {
	for _, part := range nonAlphanumeric.Split(strings.ToLower(key), -1) {
		if r.sensitiveWords[part] {
			return true
		}
	}
	return false
}
