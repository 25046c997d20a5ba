package config

import (
	"testing"
	"time"
)

func TestNewTestConfig(t *testing.T) {
	cfg := NewTestConfig().Build()

	// Verify defaults are applied
	if cfg.Catalog.TTL != DefaultCatalogTTL {
		t.Errorf("expected catalog TTL %v, got %v", DefaultCatalogTTL, cfg.Catalog.TTL)
	}

	if cfg.Retry.MaxRetries != DefaultRetryMaxRetries {
		t.Errorf("expected max retries %d, got %d", DefaultRetryMaxRetries, cfg.Retry.MaxRetries)
	}

	if cfg.Defaults.Provider != DefaultProvider {
		t.Errorf("expected default provider %q, got %q", DefaultProvider, cfg.Defaults.Provider)
	}

	// Verify test provider is added
	if len(cfg.Providers) == 0 {
		t.Error("expected at least one provider, got none")
	}

	openai, exists := cfg.Providers["openai"]
	if !exists {
		t.Error("expected openai provider, got none")
	}
	if openai.APIKey == "" {
		t.Error("expected openai API key to be set")
	}
}

func TestConfigBuilder_WithProvider(t *testing.T) {
	anthropic := ProviderConfig{
		Type:    "anthropic",
		APIKey:  "test-anthropic-key",
		Timeout: 30 * time.Second,
	}

	cfg := NewTestConfig().
		WithProvider("anthropic", anthropic).
		Build()

	provider, exists := cfg.Providers["anthropic"]
	if !exists {
		t.Fatal("expected anthropic provider, got none")
	}

	if provider.Type != anthropic.Type {
		t.Errorf("expected type %q, got %q", anthropic.Type, provider.Type)
	}
	if provider.APIKey != anthropic.APIKey {
		t.Errorf("expected API key %q, got %q", anthropic.APIKey, provider.APIKey)
	}
	if provider.Timeout != anthropic.Timeout {
		t.Errorf("expected timeout %v, got %v", anthropic.Timeout, provider.Timeout)
	}
}

func TestConfigBuilder_WithGateway(t *testing.T) {
	cfg := NewTestConfig().
		WithGateway("https://gateway.internal:8787", "vk-test", "team:research").
		Build()

	gateway, exists := cfg.Providers["gateway"]
	if !exists {
		t.Fatal("expected gateway provider, got none")
	}
	if gateway.Type != "gateway" {
		t.Errorf("expected type %q, got %q", "gateway", gateway.Type)
	}
	if gateway.BaseURL != "https://gateway.internal:8787" {
		t.Errorf("unexpected base URL %q", gateway.BaseURL)
	}
	if len(gateway.Tags) != 1 || gateway.Tags[0] != "team:research" {
		t.Errorf("unexpected tags: %v", gateway.Tags)
	}
}

func TestConfigBuilder_WithHistory(t *testing.T) {
	cfg := NewTestConfig().
		WithHistory("sqlite", "/tmp/history.db").
		Build()

	if !cfg.History.Enabled {
		t.Error("expected history to be enabled")
	}
	if cfg.History.Backend != "sqlite" {
		t.Errorf("expected backend %q, got %q", "sqlite", cfg.History.Backend)
	}
	if cfg.History.SQLite.Path != "/tmp/history.db" {
		t.Errorf("expected path %q, got %q", "/tmp/history.db", cfg.History.SQLite.Path)
	}
}

func TestConfigBuilder_ChainedCalls(t *testing.T) {
	cfg := NewTestConfig().
		WithDefaults("openai", "gpt-4o-mini").
		WithCatalogTTL(time.Minute).
		WithLoggingLevel("debug").
		WithMetricsEnabled(true).
		Build()

	if cfg.Defaults.Model != "gpt-4o-mini" {
		t.Error("chained WithDefaults failed")
	}
	if cfg.Catalog.TTL != time.Minute {
		t.Error("chained WithCatalogTTL failed")
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Error("chained WithLoggingLevel failed")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("chained WithMetricsEnabled failed")
	}
}

func TestMinimalConfig(t *testing.T) {
	cfg := MinimalConfig()

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	// Verify it's a valid config that would pass validation
	if err := Validate(cfg); err != nil {
		t.Errorf("minimal config should be valid, got error: %v", err)
	}
}
