package metrics

import (
	"mercator-hq/hermes/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics tracks model catalog cache behavior.
//
// Metrics (subsystem "catalog"):
//   - hermes_catalog_fetches_total: Discovery round-trips by status
//   - hermes_catalog_cache_hits_total: Catalogs served from cache within the TTL
//   - hermes_catalog_stale_serves_total: Catalogs served past the TTL
//   - hermes_catalog_models: Current number of models in the catalog
//
// CatalogMetrics satisfies the catalog package's Observer interface, so it
// can be attached directly to a catalog Service.
type CatalogMetrics struct {
	// Discovery round-trip counter
	fetchesTotal *prometheus.CounterVec

	// Cache hit counter
	cacheHitsTotal prometheus.Counter

	// Stale serve counter
	staleServesTotal prometheus.Counter

	// Current catalog size
	models prometheus.Gauge
}

// NewCatalogMetrics creates and registers catalog metrics with the provided registry.
func NewCatalogMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CatalogMetrics {
	cm := &CatalogMetrics{
		fetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "catalog",
				Name:      "fetches_total",
				Help:      "Total number of model discovery round-trips",
			},
			[]string{"status"},
		),

		cacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "catalog",
				Name:      "cache_hits_total",
				Help:      "Total number of catalogs served from cache within the TTL",
			},
		),

		staleServesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "catalog",
				Name:      "stale_serves_total",
				Help:      "Total number of catalogs served past their TTL",
			},
		),

		models: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "catalog",
				Name:      "models",
				Help:      "Current number of models in the catalog",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		cm.fetchesTotal,
		cm.cacheHitsTotal,
		cm.staleServesTotal,
		cm.models,
	)

	return cm
}

// FetchCompleted records one discovery round-trip and the catalog size that
// resulted.
//
// Parameters:
//   - status: "success" or "error"
//   - models: Number of models in the catalog after the fetch
func (cm *CatalogMetrics) FetchCompleted(status string, models int) {
	cm.fetchesTotal.WithLabelValues(status).Inc()
	cm.models.Set(float64(models))
}

// CacheHit records a catalog served from cache within the TTL.
func (cm *CatalogMetrics) CacheHit() {
	cm.cacheHitsTotal.Inc()
}

// StaleServe records a catalog served past its TTL, either while a refresh
// was in flight or after one failed.
func (cm *CatalogMetrics) StaleServe() {
	cm.staleServesTotal.Inc()
}
