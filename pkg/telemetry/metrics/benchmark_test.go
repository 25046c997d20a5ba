package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Benchmark_Collector_RecordRequest benchmarks request recording
func Benchmark_Collector_RecordRequest(b *testing.B) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.RecordRequest("openai", "gpt-4o", "success", time.Second)
	}
}

// Benchmark_Collector_RecordRequest_Parallel benchmarks parallel request recording
func Benchmark_Collector_RecordRequest_Parallel(b *testing.B) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			collector.RecordRequest("openai", "gpt-4o", "success", time.Second)
		}
	})
}

// Benchmark_Collector_RecordTokens benchmarks token recording
func Benchmark_Collector_RecordTokens(b *testing.B) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.RecordTokens("openai", "gpt-4o", 1000, 500)
	}
}

// Benchmark_Collector_UpdateProviderHealth benchmarks health updates
func Benchmark_Collector_UpdateProviderHealth(b *testing.B) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.UpdateProviderHealth("openai", true)
	}
}

// Benchmark_Collector_RecordProviderError benchmarks error recording
func Benchmark_Collector_RecordProviderError(b *testing.B) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.RecordProviderError("openai", "RATE_LIMIT")
	}
}

// Benchmark_Collector_StreamGauge benchmarks stream gauge updates
func Benchmark_Collector_StreamGauge(b *testing.B) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.StreamStarted("openai")
		collector.StreamEnded("openai")
	}
}

// Benchmark_Collector_RecordRetryAttempt benchmarks retry attempt recording
func Benchmark_Collector_RecordRetryAttempt(b *testing.B) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.RecordRetryAttempt("openai", "SERVER_ERROR")
	}
}

// Benchmark_CatalogMetrics_CacheHit benchmarks cache hit recording
func Benchmark_CatalogMetrics_CacheHit(b *testing.B) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	cm := NewCatalogMetrics(cfg, registry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cm.CacheHit()
	}
}

// Benchmark_CatalogMetrics_FetchCompleted benchmarks fetch recording
func Benchmark_CatalogMetrics_FetchCompleted(b *testing.B) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	cm := NewCatalogMetrics(cfg, registry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cm.FetchCompleted("success", 12)
	}
}

// Benchmark_ProviderMetrics_UpdateHealth benchmarks health updates
func Benchmark_ProviderMetrics_UpdateHealth(b *testing.B) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	pm := NewProviderMetrics(cfg, registry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pm.UpdateHealth("openai", true)
	}
}

// Benchmark_CardinalityLimiter_Allow benchmarks cardinality checking
func Benchmark_CardinalityLimiter_Allow(b *testing.B) {
	limiter := NewCardinalityLimiter(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Allow("label1")
	}
}

// Benchmark_CardinalityLimiter_Allow_New benchmarks cardinality checking with new labels
func Benchmark_CardinalityLimiter_Allow_New(b *testing.B) {
	limiter := NewCardinalityLimiter(100000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Allow("label" + string(rune(i)))
	}
}

// Benchmark_Collector_Disabled benchmarks metrics when disabled
func Benchmark_Collector_Disabled(b *testing.B) {
	cfg := testConfig()
	cfg.Enabled = false
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.RecordRequest("openai", "gpt-4o", "success", time.Second)
	}
}

// Benchmark_Collector_ManyLabels benchmarks recording with many different label values
func Benchmark_Collector_ManyLabels(b *testing.B) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	providers := []string{"openai", "anthropic", "gateway"}
	models := []string{"gpt-4o", "claude-sonnet-4-5", "gpt-4o-mini", "claude-haiku-4-5"}
	statuses := []string{"success", "error", "canceled"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		provider := providers[i%len(providers)]
		model := models[i%len(models)]
		status := statuses[i%len(statuses)]
		collector.RecordRequest(provider, model, status, time.Second)
	}
}

// Benchmark_Collector_AllMetrics benchmarks recording all metric types
func Benchmark_Collector_AllMetrics(b *testing.B) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Record request
		collector.RecordRequest("openai", "gpt-4o", "success", time.Second)

		// Record tokens
		collector.RecordTokens("openai", "gpt-4o", 1000, 500)

		// Update provider health
		collector.UpdateProviderHealth("openai", true)

		// Record retry attempt
		collector.RecordRetryAttempt("openai", "TIMEOUT")
	}
}
