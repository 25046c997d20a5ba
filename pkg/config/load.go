package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, resolves API keys from key files, validates the
// configuration, and returns any errors. The configuration is not modified by
// environment variables; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	// Apply defaults
	ApplyDefaults(&cfg)

	// Resolve keys referenced by api_key_file
	if err := resolveAPIKeyFiles(&cfg); err != nil {
		return nil, err
	}

	// Validate
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention HERMES_SECTION_FIELD (e.g., HERMES_CATALOG_TTL) and always take
// precedence over file-based configuration. Provider API keys additionally
// fall back to the conventional variables OPENAI_API_KEY, ANTHROPIC_API_KEY.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Resolve api_key_file references
// 4. Apply environment variable overrides
// 5. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	// First load from file (this already applies defaults)
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	ApplyEnvOverrides(cfg)

	// Re-validate after overrides
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format HERMES_SECTION_FIELD.
func ApplyEnvOverrides(cfg *Config) {
	// Provider overrides - the closed set of supported provider names
	applyProviderEnvOverrides(cfg, "openai")
	applyProviderEnvOverrides(cfg, "anthropic")
	applyProviderEnvOverrides(cfg, "gateway")

	// Conventional key variables apply when nothing more specific did
	applyConventionalKeys(cfg)

	// Defaults overrides
	if val := os.Getenv("HERMES_DEFAULTS_PROVIDER"); val != "" {
		cfg.Defaults.Provider = val
	}
	if val := os.Getenv("HERMES_DEFAULTS_MODEL"); val != "" {
		cfg.Defaults.Model = val
	}

	// Catalog overrides
	if val := os.Getenv("HERMES_CATALOG_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Catalog.TTL = d
		}
	}
	if val := os.Getenv("HERMES_CATALOG_DISCOVERY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Catalog.DiscoveryTimeout = d
		}
	}
	if val := os.Getenv("HERMES_CATALOG_REFRESH_SCHEDULE"); val != "" {
		cfg.Catalog.RefreshSchedule = val
	}
	if val := os.Getenv("HERMES_CATALOG_SNAPSHOT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Catalog.Snapshot.Enabled = b
		}
	}
	if val := os.Getenv("HERMES_CATALOG_SNAPSHOT_PATH"); val != "" {
		cfg.Catalog.Snapshot.Path = val
	}

	// History overrides
	if val := os.Getenv("HERMES_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("HERMES_HISTORY_BACKEND"); val != "" {
		cfg.History.Backend = val
	}
	if val := os.Getenv("HERMES_HISTORY_SQLITE_PATH"); val != "" {
		cfg.History.SQLite.Path = val
	}
	if val := os.Getenv("HERMES_HISTORY_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.Retention.Days = i
		}
	}

	// Retry overrides
	if val := os.Getenv("HERMES_RETRY_MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Retry.MaxRetries = i
		}
	}
	if val := os.Getenv("HERMES_RETRY_INITIAL_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Retry.InitialDelay = d
		}
	}
	if val := os.Getenv("HERMES_RETRY_MAX_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Retry.MaxDelay = d
		}
	}

	// Telemetry overrides
	if val := os.Getenv("HERMES_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("HERMES_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("HERMES_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("HERMES_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("HERMES_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("HERMES_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("HERMES_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

// applyProviderEnvOverrides applies environment variable overrides for a
// specific provider. Provider environment variables follow the format
// HERMES_PROVIDERS_<NAME>_<FIELD> where NAME is the uppercase provider name.
func applyProviderEnvOverrides(cfg *Config, providerName string) {
	// Initialize providers map if nil
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	// Get existing provider config or create new one
	provider, exists := cfg.Providers[providerName]
	if !exists {
		provider = ProviderConfig{Type: providerName}
	}

	// Build environment variable prefix
	prefix := fmt.Sprintf("HERMES_PROVIDERS_%s_", strings.ToUpper(providerName))

	// Check for overrides
	modified := false

	if val := os.Getenv(prefix + "BASE_URL"); val != "" {
		provider.BaseURL = val
		modified = true
	}
	if val := os.Getenv(prefix + "API_KEY"); val != "" {
		provider.APIKey = val
		modified = true
	}
	if val := os.Getenv(prefix + "TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			provider.Timeout = d
			modified = true
		}
	}
	if val := os.Getenv(prefix + "TAGS"); val != "" {
		provider.Tags = splitTags(val)
		modified = true
	}

	// Only update the map if we found at least one override
	if modified || exists {
		if provider.Timeout == 0 {
			provider.Timeout = DefaultProviderTimeout
		}
		cfg.Providers[providerName] = provider
	}
}

// applyConventionalKeys fills empty provider keys from the variables the
// vendors themselves document.
func applyConventionalKeys(cfg *Config) {
	conventional := map[string]string{
		"openai":    "OPENAI_API_KEY",
		"anthropic": "ANTHROPIC_API_KEY",
	}
	for name, provider := range cfg.Providers {
		if provider.APIKey != "" {
			continue
		}
		envVar, ok := conventional[provider.Type]
		if !ok {
			continue
		}
		if val := os.Getenv(envVar); val != "" {
			provider.APIKey = val
			cfg.Providers[name] = provider
		}
	}
}

// resolveAPIKeyFiles reads keys referenced by api_key_file into the APIKey
// field. A set APIKey wins over the file reference.
func resolveAPIKeyFiles(cfg *Config) error {
	for name, provider := range cfg.Providers {
		if provider.APIKey != "" || provider.APIKeyFile == "" {
			continue
		}
		data, err := os.ReadFile(provider.APIKeyFile)
		if err != nil {
			return fmt.Errorf("failed to read API key file for provider %q: %w", name, err)
		}
		provider.APIKey = strings.TrimSpace(string(data))
		cfg.Providers[name] = provider
	}
	return nil
}

// splitTags parses a comma-separated tag list from an environment variable.
func splitTags(val string) []string {
	parts := strings.Split(val, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
