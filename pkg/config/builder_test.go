package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances in tests.
// It starts with default values and allows selective overrides.
type ConfigBuilder struct {
	cfg Config
}

// NewTestConfig creates a new ConfigBuilder with sensible defaults for testing.
// The resulting configuration is valid and can be used immediately.
func NewTestConfig() *ConfigBuilder {
	cfg := Config{
		Providers: make(map[string]ProviderConfig),
	}

	// Add a default provider for tests
	cfg.Providers["openai"] = ProviderConfig{
		Type:    "openai",
		APIKey:  "test-key",
		Timeout: DefaultProviderTimeout,
	}
	ApplyDefaults(&cfg)

	return &ConfigBuilder{cfg: cfg}
}

// Build returns the built Config instance.
func (b *ConfigBuilder) Build() *Config {
	return &b.cfg
}

// WithProvider adds or updates a provider configuration.
func (b *ConfigBuilder) WithProvider(name string, provider ProviderConfig) *ConfigBuilder {
	if b.cfg.Providers == nil {
		b.cfg.Providers = make(map[string]ProviderConfig)
	}
	b.cfg.Providers[name] = provider
	return b
}

// WithGateway adds a gateway provider with the given base URL and session key.
func (b *ConfigBuilder) WithGateway(baseURL, apiKey string, tags ...string) *ConfigBuilder {
	return b.WithProvider("gateway", ProviderConfig{
		Type:    "gateway",
		BaseURL: baseURL,
		APIKey:  apiKey,
		Tags:    tags,
		Timeout: DefaultProviderTimeout,
	})
}

// WithDefaults sets the default provider and model.
func (b *ConfigBuilder) WithDefaults(provider, model string) *ConfigBuilder {
	b.cfg.Defaults.Provider = provider
	b.cfg.Defaults.Model = model
	return b
}

// WithCatalogTTL sets the catalog cache TTL.
func (b *ConfigBuilder) WithCatalogTTL(ttl time.Duration) *ConfigBuilder {
	b.cfg.Catalog.TTL = ttl
	return b
}

// WithSnapshot enables catalog snapshot persistence at the given path.
func (b *ConfigBuilder) WithSnapshot(path string) *ConfigBuilder {
	b.cfg.Catalog.Snapshot.Enabled = true
	b.cfg.Catalog.Snapshot.Path = path
	return b
}

// WithHistory enables history persistence with the given backend.
func (b *ConfigBuilder) WithHistory(backend, path string) *ConfigBuilder {
	b.cfg.History.Enabled = true
	b.cfg.History.Backend = backend
	b.cfg.History.SQLite.Path = path
	return b
}

// WithRetry sets retry behavior.
func (b *ConfigBuilder) WithRetry(maxRetries int, initial, max time.Duration) *ConfigBuilder {
	b.cfg.Retry.MaxRetries = maxRetries
	b.cfg.Retry.InitialDelay = initial
	b.cfg.Retry.MaxDelay = max
	return b
}

// WithLoggingLevel sets the logging level.
func (b *ConfigBuilder) WithLoggingLevel(level string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Level = level
	return b
}

// WithLoggingFormat sets the logging format.
func (b *ConfigBuilder) WithLoggingFormat(format string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Format = format
	return b
}

// WithMetricsEnabled sets whether metrics are enabled.
func (b *ConfigBuilder) WithMetricsEnabled(enabled bool) *ConfigBuilder {
	b.cfg.Telemetry.Metrics.Enabled = enabled
	return b
}

// WithTracingEnabled sets whether tracing is enabled.
func (b *ConfigBuilder) WithTracingEnabled(enabled bool, endpoint string) *ConfigBuilder {
	b.cfg.Telemetry.Tracing.Enabled = enabled
	b.cfg.Telemetry.Tracing.Endpoint = endpoint
	if b.cfg.Telemetry.Tracing.SampleRatio == 0 {
		b.cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	return b
}

// MinimalConfig returns a minimal valid configuration for testing.
// This is useful for tests that don't care about most configuration values.
func MinimalConfig() *Config {
	return NewTestConfig().Build()
}
