package config

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cristianoliveira/orderdesk/internal/colors"
)

// Validator validates and normalizes a configuration value.
// Returns the normalized value and an error if validation fails.
type Validator func(key, value, defaultValue string) (normalized string, err error)

type validatorRegistry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

var registry = &validatorRegistry{
	validators: make(map[string]Validator),
}

func init() {
	initValidators()
}

// RegisterValidator registers a validator for a configuration key.
// Panics if a validator is already registered for the key.
func RegisterValidator(key string, validator Validator) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.validators[key]; exists {
		panic(fmt.Sprintf("validator already registered for key: %s", key))
	}
	registry.validators[key] = validator
}

func getValidator(key string) Validator {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.validators[key]
}

// PositiveIntValidator returns a validator that ensures a value is a positive integer.
func PositiveIntValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be a positive integer, using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return value, nil
	}
}

// RatioValidator accepts floats in (0, 1].
func RatioValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 || f > 1 {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be a ratio in (0, 1], using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return value, nil
	}
}

// EnumValidator returns a validator that ensures a value is one of the allowed enum values.
func EnumValidator(allowed map[string]bool) Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		valueLower := strings.ToLower(value)
		if !allowed[valueLower] {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be one of: %s; using default: %s", key, value, allowedValues(allowed), defaultValue))
			return defaultValue, nil
		}
		return valueLower, nil
	}
}

// BoolValidator returns a validator that normalizes and validates boolean values.
func BoolValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		normalized := normalizeBool(value)
		if normalized != "true" && normalized != "false" {
			colors.Warning(fmt.Sprintf("invalid boolean value for %s: '%s', must be one of: 1, true, yes, on, 0, false, no, off; using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return normalized, nil
	}
}

// URLValidator requires an absolute http(s) URL and strips a trailing slash.
func URLValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be an absolute http(s) URL, using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return strings.TrimRight(value, "/"), nil
	}
}

func initValidators() {
	positiveInt := PositiveIntValidator()
	for _, key := range []string{
		"api_timeout_seconds",
		"cache_ttl_seconds",
		"cache_evict_grace_seconds",
		"cache_max_bytes",
		"fetch_page_limit",
		"fetch_max_pages",
		"detail_timeout_seconds",
		"poll_interval_seconds",
		"poll_baseline_delay_seconds",
		"poll_latest_limit",
		"notification_ttl_seconds",
		"breaker_min_requests",
		"breaker_open_seconds",
		"logging_max_files",
		"hooks_async_timeout_seconds",
		"hooks_max_async",
	} {
		RegisterValidator(key, positiveInt)
	}

	RegisterValidator("breaker_failure_ratio", RatioValidator())
	RegisterValidator("api_base_url", URLValidator())

	RegisterValidator("cache_backend", EnumValidator(map[string]bool{"sqlite": true, "file": true, "memory": true}))
	RegisterValidator("table_format", EnumValidator(map[string]bool{"default": true, "minimal": true}))
	RegisterValidator("hooks_failure_mode", EnumValidator(map[string]bool{"ignore": true, "warn": true, "abort": true}))
	RegisterValidator("logging_level", EnumValidator(map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}))

	boolValidator := BoolValidator()
	for _, key := range []string{"breaker_enabled", "hooks_enabled", "hooks_async", "logging_enabled", "debug", "quiet"} {
		RegisterValidator(key, boolValidator)
	}
}

// normalizeBool converts various boolean representations to "true"/"false".
func normalizeBool(val string) string {
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return "true"
	case "0", "false", "no", "off":
		return "false"
	default:
		return val
	}
}

func allowedValues(allowed map[string]bool) string {
	values := make([]string, 0, len(allowed))
	for k := range allowed {
		values = append(values, k)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}
