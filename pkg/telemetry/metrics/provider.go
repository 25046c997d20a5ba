package metrics

import (
	"time"

	"mercator-hq/hermes/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics tracks requests to the configured LLM providers.
//
// Metrics (subsystem "provider"):
//   - hermes_provider_requests_total: Completed requests by provider, model, status
//   - hermes_provider_request_duration_seconds: Request duration histogram
//   - hermes_provider_errors_total: Classified errors by provider and code
//   - hermes_provider_request_tokens: Token count histogram by direction
//   - hermes_provider_active_streams: Streams currently being consumed
//   - hermes_provider_health: Provider health status (1=healthy, 0=unhealthy)
type ProviderMetrics struct {
	// Completed request count
	requestsTotal *prometheus.CounterVec

	// Request duration histogram
	requestDuration *prometheus.HistogramVec

	// Classified error counter
	errorsTotal *prometheus.CounterVec

	// Token counts per request (prompt and completion)
	requestTokens *prometheus.HistogramVec

	// Streams currently open
	activeStreams *prometheus.GaugeVec

	// Provider health status (gauge: 1=healthy, 0=unhealthy)
	health *prometheus.GaugeVec
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "provider",
				Name:      "requests_total",
				Help:      "Total number of completed chat completion requests",
			},
			[]string{"provider", "model", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "provider",
				Name:      "request_duration_seconds",
				Help:      "Duration of chat completion requests in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"provider", "model"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "provider",
				Name:      "errors_total",
				Help:      "Total number of provider errors by classified code",
			},
			[]string{"provider", "code"},
		),

		requestTokens: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "provider",
				Name:      "request_tokens",
				Help:      "Token counts per request by direction",
				Buckets:   cfg.TokenCountBuckets,
			},
			[]string{"provider", "model", "type"},
		),

		activeStreams: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "provider",
				Name:      "active_streams",
				Help:      "Number of streaming responses currently being consumed",
			},
			[]string{"provider"},
		),

		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "provider",
				Name:      "health",
				Help:      "Provider health status (1=healthy, 0=unhealthy)",
			},
			[]string{"provider"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		pm.requestsTotal,
		pm.requestDuration,
		pm.errorsTotal,
		pm.requestTokens,
		pm.activeStreams,
		pm.health,
	)

	return pm
}

// RecordRequest records a completed request.
//
// Parameters:
//   - provider: Provider name (e.g., "openai", "anthropic", "gateway")
//   - model: Model name
//   - status: Request status ("success", "error", "canceled")
//   - duration: Total request duration
func (pm *ProviderMetrics) RecordRequest(provider, model, status string, duration time.Duration) {
	pm.requestsTotal.WithLabelValues(provider, model, status).Inc()
	pm.requestDuration.WithLabelValues(provider, model).Observe(duration.Seconds())
}

// RecordError records a classified provider error.
//
// Parameters:
//   - provider: Provider name
//   - code: Classified error code (e.g., "RATE_LIMIT", "TIMEOUT", "AUTH_ERROR")
func (pm *ProviderMetrics) RecordError(provider, code string) {
	pm.errorsTotal.WithLabelValues(provider, code).Inc()
}

// RecordTokens records token counts separately for prompt and completion.
//
// Parameters:
//   - provider: Provider name
//   - model: Model name
//   - promptTokens: Number of tokens in the prompt
//   - completionTokens: Number of tokens in the completion
func (pm *ProviderMetrics) RecordTokens(provider, model string, promptTokens, completionTokens int) {
	if promptTokens > 0 {
		pm.requestTokens.WithLabelValues(provider, model, "prompt").Observe(float64(promptTokens))
	}
	if completionTokens > 0 {
		pm.requestTokens.WithLabelValues(provider, model, "completion").Observe(float64(completionTokens))
	}
}

// StreamStarted increments the active stream gauge for a provider. Pair it
// with StreamEnded when the stream channel closes.
func (pm *ProviderMetrics) StreamStarted(provider string) {
	pm.activeStreams.WithLabelValues(provider).Inc()
}

// StreamEnded decrements the active stream gauge for a provider.
func (pm *ProviderMetrics) StreamEnded(provider string) {
	pm.activeStreams.WithLabelValues(provider).Dec()
}

// UpdateHealth updates the health status of a provider.
//
// Parameters:
//   - provider: Provider name
//   - healthy: true if provider is healthy, false otherwise
//
// The health metric is a gauge where 1=healthy, 0=unhealthy.
func (pm *ProviderMetrics) UpdateHealth(provider string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	pm.health.WithLabelValues(provider).Set(value)
}
