package api

import (
	"errors"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/logging"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig holds configuration for the circuit breaker.
type BreakerConfig struct {
	// Name identifies this breaker in metrics and logs.
	Name string
	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32
	// Interval clears the closed-state counts periodically. 0 never clears.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration
	// FailureRatio trips the breaker once reached.
	FailureRatio float64
	// MinRequests is the sample size needed before the ratio is evaluated.
	MinRequests uint32
}

// DefaultBreakerConfig returns the defaults used when config is absent.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

func newBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker[[]byte] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.With("component", "api").Warn("circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
			breakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}
	breakerState.WithLabelValues(cfg.Name).Set(0)
	return gobreaker.NewCircuitBreaker[[]byte](settings)
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTooManyRequests)
}
