package config

import "time"

// Config is the root configuration structure for Hermes.
// It contains all configuration sections for provider connections, the model
// catalog, chat history persistence, retry behavior, and telemetry settings.
type Config struct {
	// Providers contains configuration for all LLM provider connections.
	// Keys are provider names and double as the provider type when the
	// type field is omitted (e.g., "openai", "anthropic", "gateway").
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Defaults contains the provider and model used when a request does
	// not name them explicitly.
	Defaults DefaultsConfig `yaml:"defaults"`

	// Catalog contains configuration for the model catalog including
	// cache TTL, discovery timeouts, and snapshot persistence.
	Catalog CatalogConfig `yaml:"catalog"`

	// History contains configuration for chat transcript persistence
	// including backend selection and retention settings.
	History HistoryConfig `yaml:"history"`

	// Retry contains configuration for automatic retry of failed
	// provider calls.
	Retry RetryConfig `yaml:"retry"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProviderConfig contains configuration for a single LLM provider connection.
type ProviderConfig struct {
	// Type identifies which adapter handles this provider.
	// Options: "openai", "anthropic", "gateway"
	// Default: the provider's key in the providers map
	Type string `yaml:"type"`

	// BaseURL is the base URL for the provider's API endpoint.
	// Optional for "openai" and "anthropic" (the adapters carry the public
	// endpoints). Required for "gateway", which has no public default.
	// Example: "https://gateway.internal:8787"
	BaseURL string `yaml:"base_url"`

	// APIKey is the authentication credential for the provider.
	// Prefer APIKeyFile or an environment variable over placing keys in
	// the config file. For "gateway" this is the virtual session key.
	APIKey string `yaml:"api_key"`

	// APIKeyFile is a path to a file containing the API key. The file
	// contents are read at load time; trailing whitespace is stripped.
	// Ignored when APIKey is set.
	APIKeyFile string `yaml:"api_key_file"`

	// Timeout is the maximum duration for requests to this provider.
	// Streaming responses are exempt; the timeout covers connection
	// establishment and non-streaming calls.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// Tags are forwarded to the gateway on every request for routing and
	// attribution. Only used when Type is "gateway".
	// Example: ["team:research", "env:prod"]
	Tags []string `yaml:"tags"`

	// MaxIdleConns is the connection pool size across all hosts.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the connection pool size per host.
	// Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long idle connections are kept open.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`

	// HealthCheckInterval is how often the provider is probed in the
	// background. 0 disables background health checks.
	// Default: 0 (disabled)
	HealthCheckInterval time.Duration `yaml:"health_check_interval"`
}

// DefaultsConfig names the provider and model used when a request omits them.
type DefaultsConfig struct {
	// Provider is the provider name used when a request does not set one.
	// Must be a key in the providers map.
	// Default: "openai"
	Provider string `yaml:"provider"`

	// Model is the model id used when a request does not set one.
	// Default: "gpt-4o"
	Model string `yaml:"model"`
}

// CatalogConfig contains configuration for the model catalog.
type CatalogConfig struct {
	// TTL is how long a fetched catalog is served before a refresh is
	// attempted. Expired entries are still served when a refresh fails.
	// Default: 5m
	TTL time.Duration `yaml:"ttl"`

	// DiscoveryTimeout bounds a single model discovery call against the
	// gateway.
	// Default: 10s
	DiscoveryTimeout time.Duration `yaml:"discovery_timeout"`

	// RefreshSchedule is a cron expression for background catalog
	// refreshes ahead of TTL expiry. Empty disables background refresh.
	// Example: "@every 4m"
	// Default: "" (disabled)
	RefreshSchedule string `yaml:"refresh_schedule"`

	// Snapshot contains catalog snapshot persistence configuration.
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// SnapshotConfig contains catalog snapshot persistence configuration.
// The snapshot seeds the catalog on startup so a discovery outage at boot
// still yields the last known model list.
type SnapshotConfig struct {
	// Enabled controls whether the catalog is persisted after each
	// successful refresh.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the file path for the snapshot database.
	// Default: "data/catalog.db"
	Path string `yaml:"path"`

	// CheckpointInterval is how often the snapshot WAL is checkpointed.
	// Default: 5m
	CheckpointInterval time.Duration `yaml:"checkpoint_interval"`
}

// HistoryConfig contains configuration for chat transcript persistence.
type HistoryConfig struct {
	// Enabled controls whether completed exchanges are persisted.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend specifies the storage backend for chat history.
	// Options: "sqlite", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific configuration.
	SQLite HistorySQLiteConfig `yaml:"sqlite"`

	// Retention contains retention policy configuration.
	Retention HistoryRetentionConfig `yaml:"retention"`
}

// HistorySQLiteConfig contains SQLite-specific history configuration.
type HistorySQLiteConfig struct {
	// Path is the file path for the SQLite database.
	// Default: "data/history.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle database connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// HistoryRetentionConfig contains retention policy configuration.
type HistoryRetentionConfig struct {
	// Days is the number of days to retain chats. Chats whose last
	// update is older than this are eligible for deletion.
	// 0 means keep history forever (no pruning).
	// Default: 90
	Days int `yaml:"days"`

	// MaxChats is the maximum number of chats to keep. Oldest chats are
	// deleted first when the limit is exceeded.
	// 0 means unlimited.
	// Default: 0
	MaxChats int64 `yaml:"max_chats"`

	// PruneSchedule is a cron expression for scheduling pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// RetryConfig contains configuration for automatic retry of failed calls.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt.
	// -1 disables retries; 0 selects the default.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`

	// InitialDelay is the wait before the first retry. Each subsequent
	// retry doubles the wait.
	// Default: 1s
	InitialDelay time.Duration `yaml:"initial_delay"`

	// MaxDelay caps the wait between retries.
	// Default: 10s
	MaxDelay time.Duration `yaml:"max_delay"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets enables masking of API keys and Authorization values
	// in log output.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets"`

	// RedactPatterns contains additional redaction patterns applied on
	// top of the built-in secret patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// ListenAddress is the address for a standalone metrics listener.
	// Empty means no listener is started; the CLI --metrics-addr flag
	// takes precedence when set.
	// Example: "127.0.0.1:9090"
	// Default: "" (no listener)
	ListenAddress string `yaml:"listen_address"`

	// Namespace is the metric name prefix.
	// Default: "hermes"
	Namespace string `yaml:"namespace"`

	// RequestDurationBuckets defines histogram buckets for provider call
	// duration (seconds).
	// Default: [0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`

	// TokenCountBuckets defines histogram buckets for token counts.
	// Default: [100, 500, 1000, 5000, 10000, 50000, 100000]
	TokenCountBuckets []float64 `yaml:"token_count_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 0.1 (10%)
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "hermes"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
