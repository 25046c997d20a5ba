// Package config provides configuration management for Hermes.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// DefaultConfig returns a ready-to-use configuration when no file exists.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention HERMES_SECTION_FIELD.
// For example:
//
//   - HERMES_PROVIDERS_OPENAI_API_KEY overrides providers.openai.api_key
//   - HERMES_CATALOG_TTL overrides catalog.ttl
//   - HERMES_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
// Provider API keys additionally fall back to the variables the vendors
// document (OPENAI_API_KEY, ANTHROPIC_API_KEY) when nothing else set them,
// and can be read from secret files via api_key_file.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Hot Reload
//
// A Watcher observes the config file and reloads it on change, debouncing
// rapid edits. Pair it with a Manager to fan the new configuration out to
// subscribed components:
//
//	mgr := config.NewManager(cfg)
//	w, _ := config.NewWatcher("config.yaml", logger)
//	go w.Watch(ctx, mgr.Swap)
//
// # Validation
//
// All configuration is validated automatically during loading. Validation includes:
//
//   - Required field checks (e.g., gateway base URLs)
//   - Range validation (e.g., sample ratio must be 0.0-1.0)
//   - Format validation (e.g., valid URL format)
//   - Cross-field validation (e.g., the default provider must be configured)
//
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - providers.gateway.base_url: base URL is required for gateway providers
//	  - defaults.provider: default provider "cohere" is not configured under providers
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	providers:
//	  openai:
//	    api_key_file: "/var/secrets/openai.key"
//	  gateway:
//	    type: "gateway"
//	    base_url: "https://gateway.internal:8787"
//	    tags: ["team:research"]
//
//	defaults:
//	  provider: "openai"
//	  model: "gpt-4o"
//
//	history:
//	  enabled: true
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "text"
//
// # Thread Safety
//
// Loaded Config values are treated as immutable; hot reload swaps whole
// instances through a Manager, which uses a read-write lock to allow
// concurrent reads while protecting against concurrent swaps.
package config
