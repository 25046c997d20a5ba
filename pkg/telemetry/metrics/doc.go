// Package metrics provides Prometheus metrics collection for Hermes.
//
// # Overview
//
// The metrics package implements Prometheus metrics for monitoring chat
// completion requests, provider health, catalog cache behavior, and retry
// decisions. It provides high-performance metric collection with minimal
// overhead (<50µs per request).
//
// # Metrics Categories
//
//   - Provider Metrics: Request count, duration, tokens, errors, active
//     streams, and health per provider
//   - Catalog Metrics: Discovery fetches, cache hits, stale serves, and
//     catalog size
//   - Retry Metrics: Retry attempts and budget exhaustion
//
// # Usage
//
//	// Create collector
//	collector := metrics.NewCollector(cfg, registry)
//
//	// Record request metrics
//	collector.RecordRequest(
//		"openai",         // provider
//		"gpt-4o",         // model
//		"success",        // status
//		time.Second,      // duration
//	)
//	collector.RecordTokens("openai", "gpt-4o", 1000, 500)
//
//	// Record provider metrics
//	collector.RecordProviderError("openai", "RATE_LIMIT")
//	collector.UpdateProviderHealth("openai", true)
//
//	// Record retry metrics
//	collector.RecordRetryAttempt("openai", "SERVER_ERROR")
//
// Catalog metrics are recorded by the catalog Service itself; attach the
// collector's catalog metric set as the service's observer:
//
//	svc := catalog.NewService(catalog.ServiceConfig{
//		Lister:   gw,
//		Observer: collector.Catalog(),
//	})
//
// # Performance
//
// The metrics package is optimized for minimal overhead:
//
//   - Lock-free counters where possible
//   - Pre-allocated metric instances
//   - Configurable cardinality limits
//   - Target: <50µs per metric update
//
// # Custom Histogram Buckets
//
// The collector uses custom histogram buckets optimized for LLM workloads:
//
//	Request Duration: 0.1s, 0.25s, 0.5s, 1s, 2s, 5s, 10s, 30s, 60s
//	Token Counts: 100, 500, 1K, 5K, 10K, 50K, 100K
//
// # Prometheus Endpoint
//
// All metrics are exposed in standard Prometheus format, either on the
// metrics listener configured in TelemetryConfig or via the --metrics-addr
// flag:
//
//	# HELP hermes_provider_requests_total Total number of completed chat completion requests
//	# TYPE hermes_provider_requests_total counter
//	hermes_provider_requests_total{provider="openai",model="gpt-4o",status="success"} 1234
//
// # Cardinality Management
//
// The collector implements cardinality limits to prevent memory issues:
//
//   - Maximum 10,000 unique label combinations per metric
//   - Low-frequency labels aggregated into "other"
package metrics
