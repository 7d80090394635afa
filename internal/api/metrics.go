package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderdesk_api_requests_total",
			Help: "Backend requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orderdesk_api_request_duration_seconds",
			Help:    "Backend request latency by endpoint",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	breakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "orderdesk_api_circuit_breaker_state",
			Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, breakerState)
}

// Collectors returns the package metrics for registries other than the default one.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{requestsTotal, requestDuration, breakerState}
}

// stateToFloat maps gobreaker states to prometheus gauge values.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// outcome classifies a request result for the requests counter.
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	switch {
	case isBreakerRejection(err):
		return "rejected"
	case countsAsSuccess(err):
		return "client_error"
	default:
		return "failure"
	}
}
