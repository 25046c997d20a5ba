package providerfactory

import (
	"context"
	"fmt"
	"log/slog"

	"mercator-hq/hermes/pkg/config"
	"mercator-hq/hermes/pkg/providers"
	"mercator-hq/hermes/pkg/providers/anthropic"
	"mercator-hq/hermes/pkg/providers/gateway"
	"mercator-hq/hermes/pkg/providers/openai"
)

// NewProvider creates a provider instance for the given configuration.
//
// Dispatch is on config.ID, which is a closed set: an identifier outside
// openai, anthropic, or gateway is a configuration error, never a silent
// fallthrough to some default adapter.
//
// Example:
//
//	cfg := providers.ProviderConfig{
//	    Name:    "anthropic",
//	    ID:      providers.ProviderAnthropic,
//	    APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
//	}
//	provider, err := providerfactory.NewProvider(cfg)
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
func NewProvider(cfg providers.ProviderConfig) (providers.Provider, error) {
	slog.Debug("creating provider",
		"name", cfg.Name,
		"id", cfg.ID,
		"base_url", cfg.BaseURL,
	)

	var provider providers.Provider
	var err error

	switch cfg.ID {
	case providers.ProviderOpenAI:
		provider, err = openai.NewProvider(cfg)

	case providers.ProviderAnthropic:
		provider, err = anthropic.NewProvider(cfg)

	case providers.ProviderGateway:
		provider, err = gateway.NewProvider(cfg)

	default:
		return nil, &providers.ConfigError{
			Provider: cfg.Name,
			Field:    "type",
			Message:  fmt.Sprintf("unsupported provider type %q (supported: openai, anthropic, gateway)", cfg.ID),
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create provider %q: %w", cfg.Name, err)
	}

	return provider, nil
}

// NewProviderWithHealthCheck creates a provider and starts its background
// health checker. The context stops the checker; cancel it before or along
// with closing the provider.
func NewProviderWithHealthCheck(ctx context.Context, cfg providers.ProviderConfig) (providers.Provider, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	type healthCheckStarter interface {
		StartHealthChecker(context.Context)
	}

	if hcs, ok := provider.(healthCheckStarter); ok {
		hcs.StartHealthChecker(ctx)
		slog.Debug("health checker started", "provider", cfg.Name)
	}

	return provider, nil
}

// FromConfig converts one named entry of the configuration's providers map
// into the construction parameters for an adapter. The type defaults to the
// entry's name, so a map keyed by provider id needs no explicit type field.
//
// API key file references and environment overrides are already resolved by
// config loading; the credential arrives here as a plain value.
func FromConfig(name string, cfg config.ProviderConfig) (providers.ProviderConfig, error) {
	typeName := cfg.Type
	if typeName == "" {
		typeName = name
	}

	id := providers.ProviderID(typeName)
	if !id.Valid() {
		return providers.ProviderConfig{}, &providers.ConfigError{
			Provider: name,
			Field:    "type",
			Message:  fmt.Sprintf("unsupported provider type %q (supported: openai, anthropic, gateway)", typeName),
		}
	}

	return providers.ProviderConfig{
		Name:                name,
		ID:                  id,
		BaseURL:             cfg.BaseURL,
		APIKey:              cfg.APIKey,
		Timeout:             cfg.Timeout,
		Tags:                cfg.Tags,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		HealthCheckInterval: cfg.HealthCheckInterval,
	}, nil
}
