package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "catalog.ttl").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	// Validate providers configuration
	errs = append(errs, validateProviders(cfg.Providers)...)

	// Validate defaults configuration
	errs = append(errs, validateDefaults(cfg)...)

	// Validate catalog configuration
	errs = append(errs, validateCatalog(&cfg.Catalog)...)

	// Validate history configuration
	errs = append(errs, validateHistory(&cfg.History)...)

	// Validate retry configuration
	errs = append(errs, validateRetry(&cfg.Retry)...)

	// Validate telemetry configuration
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateProviders validates provider configurations.
func validateProviders(providers map[string]ProviderConfig) []FieldError {
	var errs []FieldError

	if len(providers) == 0 {
		errs = append(errs, FieldError{
			Field:   "providers",
			Message: "at least one provider must be configured",
		})
		return errs
	}

	validTypes := map[string]bool{"openai": true, "anthropic": true, "gateway": true}

	for name, provider := range providers {
		prefix := fmt.Sprintf("providers.%s", name)

		// Validate type
		if provider.Type == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".type",
				Message: "type is required",
			})
		} else if !validTypes[provider.Type] {
			errs = append(errs, FieldError{
				Field:   prefix + ".type",
				Message: fmt.Sprintf("invalid type %q: must be 'openai', 'anthropic', or 'gateway'", provider.Type),
			})
		}

		// The openai and anthropic adapters carry default endpoints;
		// the gateway has no public one.
		if provider.Type == "gateway" && provider.BaseURL == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".base_url",
				Message: "base URL is required for gateway providers",
			})
		}
		if provider.BaseURL != "" {
			if _, err := url.Parse(provider.BaseURL); err != nil {
				errs = append(errs, FieldError{
					Field:   prefix + ".base_url",
					Message: fmt.Sprintf("invalid URL format: %v", err),
				})
			}
		}

		// API keys can be empty here; a missing key surfaces as an auth
		// error at call time rather than blocking startup.

		// Validate timeout
		if provider.Timeout < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".timeout",
				Message: "timeout must be positive",
			})
		}

		// Validate connection pool settings
		if provider.MaxIdleConns < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".max_idle_conns",
				Message: "max idle conns must be non-negative",
			})
		}
		if provider.MaxIdleConnsPerHost < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".max_idle_conns_per_host",
				Message: "max idle conns per host must be non-negative",
			})
		}
		if provider.HealthCheckInterval < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".health_check_interval",
				Message: "health check interval must be non-negative",
			})
		}
	}

	return errs
}

// validateDefaults validates the defaults section against the providers map.
func validateDefaults(cfg *Config) []FieldError {
	var errs []FieldError

	if cfg.Defaults.Provider == "" {
		errs = append(errs, FieldError{
			Field:   "defaults.provider",
			Message: "default provider is required",
		})
	} else if _, ok := cfg.Providers[cfg.Defaults.Provider]; !ok {
		errs = append(errs, FieldError{
			Field:   "defaults.provider",
			Message: fmt.Sprintf("default provider %q is not configured under providers", cfg.Defaults.Provider),
		})
	}

	if cfg.Defaults.Model == "" {
		errs = append(errs, FieldError{
			Field:   "defaults.model",
			Message: "default model is required",
		})
	}

	return errs
}

// validateCatalog validates catalog configuration.
func validateCatalog(cfg *CatalogConfig) []FieldError {
	var errs []FieldError

	if cfg.TTL < 0 {
		errs = append(errs, FieldError{
			Field:   "catalog.ttl",
			Message: "TTL must be positive",
		})
	}
	if cfg.DiscoveryTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "catalog.discovery_timeout",
			Message: "discovery timeout must be positive",
		})
	}
	if cfg.Snapshot.Enabled && cfg.Snapshot.Path == "" {
		errs = append(errs, FieldError{
			Field:   "catalog.snapshot.path",
			Message: "snapshot path is required when snapshots are enabled",
		})
	}
	if cfg.Snapshot.CheckpointInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "catalog.snapshot.checkpoint_interval",
			Message: "checkpoint interval must be positive",
		})
	}

	return errs
}

// validateHistory validates history configuration.
func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	// If history is disabled, skip validation
	if !cfg.Enabled {
		return errs
	}

	// Validate backend
	validBackends := map[string]bool{"sqlite": true, "memory": true}
	if cfg.Backend == "" {
		errs = append(errs, FieldError{
			Field:   "history.backend",
			Message: "backend is required when history is enabled",
		})
	} else if !validBackends[cfg.Backend] {
		errs = append(errs, FieldError{
			Field:   "history.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'sqlite' or 'memory'", cfg.Backend),
		})
	}

	// Validate backend-specific configuration
	if cfg.Backend == "sqlite" {
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "history.sqlite.path",
				Message: "SQLite path is required when backend is 'sqlite'",
			})
		}
		if cfg.SQLite.MaxOpenConns < 0 {
			errs = append(errs, FieldError{
				Field:   "history.sqlite.max_open_conns",
				Message: "max open conns must be non-negative",
			})
		}
	}

	// Validate retention
	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "history.retention.days",
			Message: "retention days must be non-negative",
		})
	}
	if cfg.Retention.Days > 3650 { // 10 years is excessive
		errs = append(errs, FieldError{
			Field:   "history.retention.days",
			Message: "retention days exceeds reasonable limit (3650 days / 10 years)",
		})
	}
	if cfg.Retention.MaxChats < 0 {
		errs = append(errs, FieldError{
			Field:   "history.retention.max_chats",
			Message: "max chats must be non-negative",
		})
	}

	return errs
}

// validateRetry validates retry configuration.
func validateRetry(cfg *RetryConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxRetries < -1 {
		errs = append(errs, FieldError{
			Field:   "retry.max_retries",
			Message: "max retries must be -1 (disabled) or non-negative",
		})
	}
	if cfg.MaxRetries > 10 {
		errs = append(errs, FieldError{
			Field:   "retry.max_retries",
			Message: "max retries exceeds reasonable limit (10)",
		})
	}
	if cfg.InitialDelay < 0 {
		errs = append(errs, FieldError{
			Field:   "retry.initial_delay",
			Message: "initial delay must be positive",
		})
	}
	if cfg.MaxDelay < 0 {
		errs = append(errs, FieldError{
			Field:   "retry.max_delay",
			Message: "max delay must be positive",
		})
	}
	if cfg.MaxDelay > 0 && cfg.InitialDelay > cfg.MaxDelay {
		errs = append(errs, FieldError{
			Field:   "retry.initial_delay",
			Message: "initial delay cannot exceed max delay",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	// Validate logging format
	validFormats := map[string]bool{"json": true, "text": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	// Validate custom redaction patterns
	for i, p := range cfg.Logging.RedactPatterns {
		if p.Pattern == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.logging.redact_patterns[%d].pattern", i),
				Message: "pattern is required",
			})
			continue
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.logging.redact_patterns[%d].pattern", i),
				Message: fmt.Sprintf("invalid pattern: %v", err),
			})
		}
	}

	// Validate metrics prometheus path
	if cfg.Metrics.Enabled && cfg.Metrics.Path == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path is required when metrics are enabled",
		})
	}
	if cfg.Metrics.Path != "" && cfg.Metrics.Path[0] != '/' {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	// Validate tracing configuration
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if cfg.Tracing.Sampler != "" && !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}
