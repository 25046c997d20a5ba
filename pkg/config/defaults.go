package config

import "time"

// Default values for configuration fields.
const (
	// Provider defaults
	DefaultProviderTimeout             = 60 * time.Second
	DefaultProviderMaxIdleConns        = 100
	DefaultProviderMaxIdleConnsPerHost = 10
	DefaultProviderIdleConnTimeout     = 90 * time.Second

	// Request defaults
	DefaultProvider = "openai"
	DefaultModel    = "gpt-4o"

	// Catalog defaults
	DefaultCatalogTTL                 = 5 * time.Minute
	DefaultCatalogDiscoveryTimeout    = 10 * time.Second
	DefaultSnapshotPath               = "data/catalog.db"
	DefaultSnapshotCheckpointInterval = 5 * time.Minute

	// History defaults
	DefaultHistoryBackend       = "sqlite"
	DefaultHistorySQLitePath    = "data/history.db"
	DefaultHistoryMaxOpenConns  = 10
	DefaultHistoryMaxIdleConns  = 5
	DefaultHistoryBusyTimeout   = 5 * time.Second
	DefaultHistoryRetentionDays = 90
	DefaultHistoryPruneSchedule = "0 3 * * *"

	// Retry defaults
	DefaultRetryMaxRetries   = 3
	DefaultRetryInitialDelay = 1 * time.Second
	DefaultRetryMaxDelay     = 10 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "text"
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "hermes"
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 0.1
	DefaultTracingServiceName = "hermes"
	DefaultOTLPTimeout        = 10 * time.Second
)

// DefaultConfig returns a configuration with every field set to its default.
// The openai and anthropic providers are present with empty credentials; keys
// are expected from the environment (OPENAI_API_KEY, ANTHROPIC_API_KEY) or
// from api_key_file entries.
func DefaultConfig() *Config {
	cfg := &Config{
		Providers: map[string]ProviderConfig{
			"openai":    {Type: "openai"},
			"anthropic": {Type: "anthropic"},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Provider defaults - applied to each provider
	for name, provider := range cfg.Providers {
		if provider.Type == "" {
			provider.Type = name
		}
		if provider.Timeout == 0 {
			provider.Timeout = DefaultProviderTimeout
		}
		if provider.MaxIdleConns == 0 {
			provider.MaxIdleConns = DefaultProviderMaxIdleConns
		}
		if provider.MaxIdleConnsPerHost == 0 {
			provider.MaxIdleConnsPerHost = DefaultProviderMaxIdleConnsPerHost
		}
		if provider.IdleConnTimeout == 0 {
			provider.IdleConnTimeout = DefaultProviderIdleConnTimeout
		}
		// Update the provider in the map
		cfg.Providers[name] = provider
	}

	// Request defaults
	if cfg.Defaults.Provider == "" {
		cfg.Defaults.Provider = DefaultProvider
	}
	if cfg.Defaults.Model == "" {
		cfg.Defaults.Model = DefaultModel
	}

	// Catalog defaults
	if cfg.Catalog.TTL == 0 {
		cfg.Catalog.TTL = DefaultCatalogTTL
	}
	if cfg.Catalog.DiscoveryTimeout == 0 {
		cfg.Catalog.DiscoveryTimeout = DefaultCatalogDiscoveryTimeout
	}
	if cfg.Catalog.Snapshot.Path == "" {
		cfg.Catalog.Snapshot.Path = DefaultSnapshotPath
	}
	if cfg.Catalog.Snapshot.CheckpointInterval == 0 {
		cfg.Catalog.Snapshot.CheckpointInterval = DefaultSnapshotCheckpointInterval
	}

	// History defaults
	if cfg.History.Backend == "" {
		cfg.History.Backend = DefaultHistoryBackend
	}
	if cfg.History.SQLite.Path == "" {
		cfg.History.SQLite.Path = DefaultHistorySQLitePath
	}
	if cfg.History.SQLite.MaxOpenConns == 0 {
		cfg.History.SQLite.MaxOpenConns = DefaultHistoryMaxOpenConns
	}
	if cfg.History.SQLite.MaxIdleConns == 0 {
		cfg.History.SQLite.MaxIdleConns = DefaultHistoryMaxIdleConns
	}
	if cfg.History.SQLite.BusyTimeout == 0 {
		cfg.History.SQLite.BusyTimeout = DefaultHistoryBusyTimeout
	}
	if cfg.History.Retention.Days == 0 {
		cfg.History.Retention.Days = DefaultHistoryRetentionDays
	}
	if cfg.History.Retention.PruneSchedule == "" {
		cfg.History.Retention.PruneSchedule = DefaultHistoryPruneSchedule
	}

	// Retry defaults
	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry.MaxRetries = DefaultRetryMaxRetries
	}
	if cfg.Retry.InitialDelay == 0 {
		cfg.Retry.InitialDelay = DefaultRetryInitialDelay
	}
	if cfg.Retry.MaxDelay == 0 {
		cfg.Retry.MaxDelay = DefaultRetryMaxDelay
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0}
	}
	if len(cfg.Telemetry.Metrics.TokenCountBuckets) == 0 {
		cfg.Telemetry.Metrics.TokenCountBuckets = []float64{100, 500, 1000, 5000, 10000, 50000, 100000}
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.OTLP.Timeout == 0 {
		cfg.Telemetry.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}
}
