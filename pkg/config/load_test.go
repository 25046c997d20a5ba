package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_ValidFile(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
providers:
  openai:
    api_key: "test-key-123"
    timeout: "30s"
  gateway:
    type: "gateway"
    base_url: "https://gateway.internal:8787"
    api_key: "vk-session"
    tags: ["team:research", "env:dev"]

defaults:
  provider: "openai"
  model: "gpt-4o-mini"

catalog:
  ttl: "2m"

telemetry:
  logging:
    level: "debug"
    format: "text"
  metrics:
    enabled: true
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	// Load the config
	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify loaded values
	openai, exists := cfg.Providers["openai"]
	if !exists {
		t.Fatal("expected openai provider")
	}
	if openai.Type != "openai" {
		t.Errorf("expected type inferred from map key, got %q", openai.Type)
	}
	if openai.APIKey != "test-key-123" {
		t.Errorf("expected API key %q, got %q", "test-key-123", openai.APIKey)
	}
	if openai.Timeout != 30*time.Second {
		t.Errorf("expected timeout %v, got %v", 30*time.Second, openai.Timeout)
	}

	gateway, exists := cfg.Providers["gateway"]
	if !exists {
		t.Fatal("expected gateway provider")
	}
	if len(gateway.Tags) != 2 || gateway.Tags[0] != "team:research" {
		t.Errorf("unexpected gateway tags: %v", gateway.Tags)
	}

	if cfg.Defaults.Model != "gpt-4o-mini" {
		t.Errorf("expected default model %q, got %q", "gpt-4o-mini", cfg.Defaults.Model)
	}
	if cfg.Catalog.TTL != 2*time.Minute {
		t.Errorf("expected catalog TTL %v, got %v", 2*time.Minute, cfg.Catalog.TTL)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level %q, got %q", "debug", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
providers:
  openai:
    api_key: "test-key"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Providers["openai"].Timeout != DefaultProviderTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultProviderTimeout, cfg.Providers["openai"].Timeout)
	}
	if cfg.Catalog.TTL != DefaultCatalogTTL {
		t.Errorf("expected default catalog TTL %v, got %v", DefaultCatalogTTL, cfg.Catalog.TTL)
	}
	if cfg.Retry.MaxRetries != DefaultRetryMaxRetries {
		t.Errorf("expected default max retries %d, got %d", DefaultRetryMaxRetries, cfg.Retry.MaxRetries)
	}
	if cfg.Defaults.Provider != DefaultProvider {
		t.Errorf("expected default provider %q, got %q", DefaultProvider, cfg.Defaults.Provider)
	}
	if cfg.Telemetry.Metrics.Namespace != "hermes" {
		t.Errorf("expected metrics namespace %q, got %q", "hermes", cfg.Telemetry.Metrics.Namespace)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
	// Check if error contains file not found message
	if !strings.Contains(err.Error(), "no such file or directory") {
		t.Errorf("expected file not found error, got: %v", err)
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	malformedContent := `
providers:
  openai:
  invalid yaml here: [
`

	if err := os.WriteFile(configPath, []byte(malformedContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Config with validation errors (no providers, invalid logging level)
	invalidContent := `
providers: {}

telemetry:
  logging:
    level: "invalid"
    format: "json"
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}

	// Check if the error chain contains a ValidationError
	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected ValidationError in error chain, got %T: %v", err, err)
	}
}

func TestLoadConfig_APIKeyFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	keyPath := filepath.Join(tmpDir, "openai.key")

	if err := os.WriteFile(keyPath, []byte("sk-from-file\n"), 0600); err != nil {
		t.Fatalf("failed to write key file: %v", err)
	}

	configContent := `
providers:
  openai:
    api_key_file: "` + keyPath + `"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Providers["openai"].APIKey != "sk-from-file" {
		t.Errorf("expected key from file with whitespace trimmed, got %q", cfg.Providers["openai"].APIKey)
	}
}

func TestLoadConfig_APIKeyFileMissing(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
providers:
  openai:
    api_key_file: "/nonexistent/openai.key"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected error for missing key file")
	}
	if !strings.Contains(err.Error(), "API key file") {
		t.Errorf("expected key file error, got: %v", err)
	}
}

func TestLoadConfigWithEnvOverrides_BasicOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
providers:
  openai:
    api_key: "file-key"

defaults:
  provider: "openai"
  model: "gpt-4o"

telemetry:
  logging:
    level: "info"
    format: "json"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	// Set environment variables
	os.Setenv("HERMES_PROVIDERS_OPENAI_API_KEY", "env-key-override")
	os.Setenv("HERMES_DEFAULTS_MODEL", "gpt-4o-mini")
	os.Setenv("HERMES_TELEMETRY_LOGGING_LEVEL", "debug")
	defer func() {
		os.Unsetenv("HERMES_PROVIDERS_OPENAI_API_KEY")
		os.Unsetenv("HERMES_DEFAULTS_MODEL")
		os.Unsetenv("HERMES_TELEMETRY_LOGGING_LEVEL")
	}()

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify environment overrides took effect
	openai := cfg.Providers["openai"]
	if openai.APIKey != "env-key-override" {
		t.Errorf("expected API key %q from env, got %q", "env-key-override", openai.APIKey)
	}

	if cfg.Defaults.Model != "gpt-4o-mini" {
		t.Errorf("expected model %q from env, got %q", "gpt-4o-mini", cfg.Defaults.Model)
	}

	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level %q from env, got %q", "debug", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfigWithEnvOverrides_DurationParsing(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
providers:
  openai:
    api_key: "test-key"

catalog:
  ttl: "5m"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	os.Setenv("HERMES_CATALOG_TTL", "90s")
	os.Setenv("HERMES_PROVIDERS_OPENAI_TIMEOUT", "45s")
	os.Setenv("HERMES_RETRY_INITIAL_DELAY", "250ms")
	defer func() {
		os.Unsetenv("HERMES_CATALOG_TTL")
		os.Unsetenv("HERMES_PROVIDERS_OPENAI_TIMEOUT")
		os.Unsetenv("HERMES_RETRY_INITIAL_DELAY")
	}()

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Catalog.TTL != 90*time.Second {
		t.Errorf("expected catalog TTL %v, got %v", 90*time.Second, cfg.Catalog.TTL)
	}

	if cfg.Providers["openai"].Timeout != 45*time.Second {
		t.Errorf("expected provider timeout %v, got %v", 45*time.Second, cfg.Providers["openai"].Timeout)
	}

	if cfg.Retry.InitialDelay != 250*time.Millisecond {
		t.Errorf("expected initial delay %v, got %v", 250*time.Millisecond, cfg.Retry.InitialDelay)
	}
}

func TestLoadConfigWithEnvOverrides_BooleanAndIntegerParsing(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
providers:
  openai:
    api_key: "test-key"

history:
  enabled: false

telemetry:
  metrics:
    enabled: false
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	os.Setenv("HERMES_HISTORY_ENABLED", "true")
	os.Setenv("HERMES_HISTORY_RETENTION_DAYS", "30")
	os.Setenv("HERMES_RETRY_MAX_RETRIES", "5")
	os.Setenv("HERMES_TELEMETRY_METRICS_ENABLED", "true")
	defer func() {
		os.Unsetenv("HERMES_HISTORY_ENABLED")
		os.Unsetenv("HERMES_HISTORY_RETENTION_DAYS")
		os.Unsetenv("HERMES_RETRY_MAX_RETRIES")
		os.Unsetenv("HERMES_TELEMETRY_METRICS_ENABLED")
	}()

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.History.Enabled {
		t.Error("expected history enabled to be true from env")
	}
	if cfg.History.Retention.Days != 30 {
		t.Errorf("expected retention days %d, got %d", 30, cfg.History.Retention.Days)
	}
	if cfg.Retry.MaxRetries != 5 {
		t.Errorf("expected max retries %d, got %d", 5, cfg.Retry.MaxRetries)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled to be true from env")
	}
}

func TestLoadConfigWithEnvOverrides_InvalidEnvValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
providers:
  openai:
    api_key: "test-key"

telemetry:
  logging:
    level: "info"
    format: "json"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	// Set invalid environment variables (they should be ignored or cause validation to fail)
	os.Setenv("HERMES_RETRY_MAX_RETRIES", "not-a-number")
	os.Setenv("HERMES_TELEMETRY_LOGGING_LEVEL", "invalid-level")
	defer func() {
		os.Unsetenv("HERMES_RETRY_MAX_RETRIES")
		os.Unsetenv("HERMES_TELEMETRY_LOGGING_LEVEL")
	}()

	_, err := LoadConfigWithEnvOverrides(configPath)
	// Should fail validation due to invalid logging level
	if err == nil {
		t.Error("expected validation error for invalid env values")
	}
}

func TestLoadConfigWithEnvOverrides_NewProvider(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
providers:
  openai:
    api_key: "test-key"

telemetry:
  logging:
    level: "info"
    format: "json"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	// Add the gateway purely via env vars
	os.Setenv("HERMES_PROVIDERS_GATEWAY_BASE_URL", "https://gateway.internal:8787")
	os.Setenv("HERMES_PROVIDERS_GATEWAY_API_KEY", "vk-from-env")
	os.Setenv("HERMES_PROVIDERS_GATEWAY_TAGS", "team:research, env:dev")
	defer func() {
		os.Unsetenv("HERMES_PROVIDERS_GATEWAY_BASE_URL")
		os.Unsetenv("HERMES_PROVIDERS_GATEWAY_API_KEY")
		os.Unsetenv("HERMES_PROVIDERS_GATEWAY_TAGS")
	}()

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify the gateway provider was added
	gateway, exists := cfg.Providers["gateway"]
	if !exists {
		t.Fatal("expected gateway provider to be added from env vars")
	}
	if gateway.Type != "gateway" {
		t.Errorf("expected type %q, got %q", "gateway", gateway.Type)
	}
	if gateway.BaseURL != "https://gateway.internal:8787" {
		t.Errorf("expected base URL %q, got %q", "https://gateway.internal:8787", gateway.BaseURL)
	}
	if gateway.APIKey != "vk-from-env" {
		t.Errorf("expected API key %q, got %q", "vk-from-env", gateway.APIKey)
	}
	if len(gateway.Tags) != 2 || gateway.Tags[0] != "team:research" || gateway.Tags[1] != "env:dev" {
		t.Errorf("unexpected tags from env: %v", gateway.Tags)
	}
}

func TestLoadConfigWithEnvOverrides_ConventionalKeys(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
providers:
  openai: {}
  anthropic:
    api_key: "explicit-key"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	os.Setenv("OPENAI_API_KEY", "sk-conventional")
	os.Setenv("ANTHROPIC_API_KEY", "sk-ant-should-not-win")
	defer func() {
		os.Unsetenv("OPENAI_API_KEY")
		os.Unsetenv("ANTHROPIC_API_KEY")
	}()

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Empty key falls back to the conventional variable
	if cfg.Providers["openai"].APIKey != "sk-conventional" {
		t.Errorf("expected conventional key fallback, got %q", cfg.Providers["openai"].APIKey)
	}

	// Explicit config key wins over the conventional variable
	if cfg.Providers["anthropic"].APIKey != "explicit-key" {
		t.Errorf("expected explicit key to win, got %q", cfg.Providers["anthropic"].APIKey)
	}
}
