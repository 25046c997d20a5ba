package providerfactory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"mercator-hq/hermes/pkg/config"
	"mercator-hq/hermes/pkg/providers"
)

// Manager holds the set of constructed provider instances and owns their
// lifecycle: construction from configuration, optional background health
// checking, and shutdown.
//
// Manager is safe for concurrent use.
type Manager struct {
	providers map[string]providers.Provider
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewManager creates an empty provider manager.
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		providers: make(map[string]providers.Provider),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Add constructs the provider for one configuration entry and registers it
// under name. A provider already registered under the same name is closed
// and replaced, which is what a configuration reload wants.
//
// The background health checker is started only when the entry sets a
// health check interval; zero means on-demand probes only.
func (m *Manager) Add(name string, cfg config.ProviderConfig) error {
	pcfg, err := FromConfig(name, cfg)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.providers[name]; ok {
		slog.Warn("replacing existing provider", "name", name)
		existing.Close()
		delete(m.providers, name)
	}

	var provider providers.Provider
	if pcfg.HealthCheckInterval > 0 {
		provider, err = NewProviderWithHealthCheck(m.ctx, pcfg)
	} else {
		provider, err = NewProvider(pcfg)
	}
	if err != nil {
		return fmt.Errorf("failed to add provider %q: %w", name, err)
	}

	m.providers[name] = provider

	slog.Info("provider registered",
		"name", name,
		"id", provider.GetID(),
		"total_providers", len(m.providers),
	)

	return nil
}

// Remove unregisters a provider and closes it.
func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	provider, ok := m.providers[name]
	if !ok {
		return fmt.Errorf("provider %q not found", name)
	}

	if err := provider.Close(); err != nil {
		slog.Error("error closing provider", "name", name, "error", err)
	}

	delete(m.providers, name)

	return nil
}

// Get returns a provider by name. An unknown name is a validation error:
// the request asked for a provider the configuration never defined.
func (m *Manager) Get(name string) (providers.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	provider, ok := m.providers[name]
	if !ok {
		return nil, &providers.ValidationError{
			Field:   "provider",
			Message: fmt.Sprintf("provider %q is not configured (configured: %v)", name, m.namesLocked()),
		}
	}

	return provider, nil
}

// Providers returns all registered providers. The returned map is a copy
// and safe to iterate while the manager changes.
func (m *Manager) Providers() map[string]providers.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]providers.Provider, len(m.providers))
	for name, provider := range m.providers {
		out[name] = provider
	}

	return out
}

// Names returns the registered provider names in sorted order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.namesLocked()
}

func (m *Manager) namesLocked() []string {
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered providers.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.providers)
}

// LoadFromConfig constructs and registers every provider in the
// configuration map. Construction failures do not stop the loop; the
// providers that can be built are registered and the failures are reported
// together.
func (m *Manager) LoadFromConfig(configs map[string]config.ProviderConfig) error {
	var failures []error

	for name, cfg := range configs {
		if err := m.Add(name, cfg); err != nil {
			failures = append(failures, err)
			slog.Error("failed to load provider",
				"name", name,
				"error", err,
			)
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("failed to load %d provider(s): %w", len(failures), failures[0])
	}

	slog.Info("providers loaded", "count", len(configs))
	return nil
}

// Close closes all providers and stops their health checkers. The manager
// is empty afterwards but remains usable.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Cancel the shared context to stop all health checkers
	m.cancel()

	var failures []error
	for name, provider := range m.providers {
		if err := provider.Close(); err != nil {
			failures = append(failures, fmt.Errorf("failed to close provider %q: %w", name, err))
		}
	}

	m.providers = make(map[string]providers.Provider)
	m.ctx, m.cancel = context.WithCancel(context.Background())

	if len(failures) > 0 {
		return fmt.Errorf("errors closing providers: %v", failures)
	}

	return nil
}

// HealthSummary is an overview of provider health across the manager.
type HealthSummary struct {
	// Total is the total number of providers
	Total int

	// Healthy is the number of healthy providers
	Healthy int

	// Unhealthy is the number of unhealthy providers
	Unhealthy int

	// Details contains per-provider health information
	Details map[string]providers.ProviderHealth
}

// GetHealthSummary reports the current health of every registered provider.
func (m *Manager) GetHealthSummary() HealthSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := HealthSummary{
		Total:   len(m.providers),
		Details: make(map[string]providers.ProviderHealth),
	}

	for name, provider := range m.providers {
		health := provider.GetHealth()
		summary.Details[name] = health

		if health.IsHealthy {
			summary.Healthy++
		}
	}

	summary.Unhealthy = summary.Total - summary.Healthy

	return summary
}
