package config

import "sync"

// Manager holds the current configuration and fans reloads out to
// subscribers. It is the bridge between the file watcher and components that
// need to react to configuration changes at runtime.
type Manager struct {
	mu          sync.RWMutex
	current     *Config
	subscribers []func(*Config)
}

// NewManager creates a manager seeded with the given configuration.
func NewManager(cfg *Config) *Manager {
	return &Manager{current: cfg}
}

// Current returns the most recently applied configuration.
// This function is thread-safe and can be called concurrently.
func (m *Manager) Current() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Swap replaces the current configuration and notifies subscribers in
// registration order. Subscribers run on the caller's goroutine; a slow
// subscriber delays the rest.
func (m *Manager) Swap(cfg *Config) {
	m.mu.Lock()
	m.current = cfg
	subs := make([]func(*Config), len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(cfg)
	}
}

// Subscribe registers a callback invoked on every Swap. Subscriptions cannot
// be removed; subscribe once per component at startup.
func (m *Manager) Subscribe(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}
