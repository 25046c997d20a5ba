package metrics

import (
	"mercator-hq/hermes/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RetryMetrics tracks retry decisions made by the backoff orchestrator.
//
// Metrics (subsystem "retry"):
//   - hermes_retry_attempts_total: Retry attempts by provider and error code
//   - hermes_retry_exhausted_total: Requests that failed after the full budget
type RetryMetrics struct {
	// Retry attempt counter
	attemptsTotal *prometheus.CounterVec

	// Budget exhaustion counter
	exhaustedTotal *prometheus.CounterVec
}

// NewRetryMetrics creates and registers retry metrics with the provided registry.
func NewRetryMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RetryMetrics {
	rm := &RetryMetrics{
		attemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "retry",
				Name:      "attempts_total",
				Help:      "Total number of retry attempts by classified error code",
			},
			[]string{"provider", "code"},
		),

		exhaustedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "retry",
				Name:      "exhausted_total",
				Help:      "Total number of requests that failed after the full retry budget",
			},
			[]string{"provider"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		rm.attemptsTotal,
		rm.exhaustedTotal,
	)

	return rm
}

// RecordAttempt records one retry attempt.
//
// Parameters:
//   - provider: Provider name
//   - code: Classified error code that triggered the retry
func (rm *RetryMetrics) RecordAttempt(provider, code string) {
	rm.attemptsTotal.WithLabelValues(provider, code).Inc()
}

// RecordExhausted records a request that still failed after every retry in
// the budget was spent.
//
// Parameters:
//   - provider: Provider name
func (rm *RetryMetrics) RecordExhausted(provider string) {
	rm.exhaustedTotal.WithLabelValues(provider).Inc()
}
