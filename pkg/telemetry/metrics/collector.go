package metrics

import (
	"fmt"
	"sync"
	"time"

	"mercator-hq/hermes/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the main orchestrator for all Prometheus metrics in Hermes.
// It manages metric registration, collection, and provides a unified interface
// for recording metrics across all components.
//
// The collector is designed for high-performance with minimal overhead (<50µs per update):
//   - Pre-allocated metric instances
//   - Lock-free counters where possible
//   - Cardinality limits to prevent memory issues
//   - Custom histogram buckets optimized for LLM workloads
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Provider metrics
	providerMetrics *ProviderMetrics

	// Catalog metrics
	catalogMetrics *CatalogMetrics

	// Retry metrics
	retryMetrics *RetryMetrics

	// Cardinality tracking
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "hermes",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = "hermes"
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		// Optimized for LLM request latencies (100ms - 60s)
		cfg.RequestDurationBuckets = []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0}
	}
	if len(cfg.TokenCountBuckets) == 0 {
		// Optimized for token counts (100 - 100K tokens)
		cfg.TokenCountBuckets = []float64{100, 500, 1000, 5000, 10000, 50000, 100000}
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(10000), // Max 10K unique label sets
	}

	// Initialize metric subsystems
	c.providerMetrics = NewProviderMetrics(cfg, registry)
	c.catalogMetrics = NewCatalogMetrics(cfg, registry)
	c.retryMetrics = NewRetryMetrics(cfg, registry)

	return c
}

// Disabled returns a collector that records nothing. It backs optional
// metrics dependencies so callers can avoid nil checks at every call site.
func Disabled() *Collector {
	return NewCollector(&config.MetricsConfig{}, nil)
}

// RecordRequest records metrics for a completed request.
//
// Parameters:
//   - provider: LLM provider name (e.g., "openai", "anthropic", "gateway")
//   - model: Model name (e.g., "gpt-4o", "claude-sonnet-4-5")
//   - status: Request status ("success", "error", "canceled")
//   - duration: Total request duration
//
// Example:
//
//	collector.RecordRequest(
//		"openai",
//		"gpt-4o",
//		"success",
//		1200*time.Millisecond,
//	)
func (c *Collector) RecordRequest(provider, model, status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	// Check cardinality limit
	labelSet := fmt.Sprintf("request:%s:%s:%s", provider, model, status)
	if !c.cardinalityLimiter.Allow(labelSet) {
		// Aggregate into "other" to prevent cardinality explosion
		model = "other"
	}

	c.providerMetrics.RecordRequest(provider, model, status, duration)
}

// RecordTokens records token counts for a completed request.
//
// Parameters:
//   - provider: LLM provider name
//   - model: Model name
//   - promptTokens: Number of tokens in the prompt
//   - completionTokens: Number of tokens in the completion
func (c *Collector) RecordTokens(provider, model string, promptTokens, completionTokens int) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.RecordTokens(provider, model, promptTokens, completionTokens)
}

// RecordProviderError records a classified error from a provider.
//
// Parameters:
//   - provider: LLM provider name
//   - code: Classified error code (e.g., "RATE_LIMIT", "TIMEOUT", "AUTH_ERROR")
func (c *Collector) RecordProviderError(provider, code string) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.RecordError(provider, code)
}

// UpdateProviderHealth updates the health status of a provider.
//
// Parameters:
//   - provider: LLM provider name
//   - healthy: true if provider is healthy, false otherwise
//
// The health metric is a gauge where 1=healthy, 0=unhealthy.
func (c *Collector) UpdateProviderHealth(provider string, healthy bool) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.UpdateHealth(provider, healthy)
}

// StreamStarted increments the active stream gauge for a provider.
//
// Parameters:
//   - provider: LLM provider name
func (c *Collector) StreamStarted(provider string) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.StreamStarted(provider)
}

// StreamEnded decrements the active stream gauge for a provider.
//
// Parameters:
//   - provider: LLM provider name
func (c *Collector) StreamEnded(provider string) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.StreamEnded(provider)
}

// RecordRetryAttempt records one retry attempt.
//
// Parameters:
//   - provider: LLM provider name
//   - code: Classified error code that triggered the retry
func (c *Collector) RecordRetryAttempt(provider, code string) {
	if !c.config.Enabled {
		return
	}

	c.retryMetrics.RecordAttempt(provider, code)
}

// RecordRetriesExhausted records a request that still failed after the full
// retry budget.
//
// Parameters:
//   - provider: LLM provider name
func (c *Collector) RecordRetriesExhausted(provider string) {
	if !c.config.Enabled {
		return
	}

	c.retryMetrics.RecordExhausted(provider)
}

// Catalog returns the catalog metric set. It satisfies the catalog package's
// Observer interface, so it can be attached to a catalog Service directly:
//
//	svc := catalog.NewService(catalog.ServiceConfig{
//		Lister:   gw,
//		Observer: collector.Catalog(),
//	})
//
// Attach it only when metrics are enabled; the catalog events bypass the
// collector's enabled check.
func (c *Collector) Catalog() *CatalogMetrics {
	return c.catalogMetrics
}

// Registry returns the Prometheus registry used by this collector.
// This can be used to create an HTTP handler for the /metrics endpoint:
//
//	http.Handle("/metrics", promhttp.HandlerFor(
//		collector.Registry(),
//		promhttp.HandlerOpts{},
//	))
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this label set would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
