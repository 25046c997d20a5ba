package config

import (
	"sync"
	"testing"
)

func TestManager_CurrentReturnsSeed(t *testing.T) {
	cfg := MinimalConfig()
	m := NewManager(cfg)

	if m.Current() != cfg {
		t.Error("expected Current to return the seed config")
	}
}

func TestManager_SwapReplacesAndNotifies(t *testing.T) {
	m := NewManager(MinimalConfig())

	var got *Config
	m.Subscribe(func(cfg *Config) {
		got = cfg
	})

	next := NewTestConfig().WithDefaults("openai", "gpt-4o-mini").Build()
	m.Swap(next)

	if m.Current() != next {
		t.Error("expected Current to return the swapped config")
	}
	if got != next {
		t.Error("expected subscriber to receive the swapped config")
	}
}

func TestManager_MultipleSubscribersInOrder(t *testing.T) {
	m := NewManager(MinimalConfig())

	var order []int
	m.Subscribe(func(*Config) { order = append(order, 1) })
	m.Subscribe(func(*Config) { order = append(order, 2) })
	m.Subscribe(func(*Config) { order = append(order, 3) })

	m.Swap(MinimalConfig())

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("expected subscribers called in registration order, got %v", order)
	}
}

func TestManager_ConcurrentReads(t *testing.T) {
	m := NewManager(MinimalConfig())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if m.Current() == nil {
					t.Error("Current returned nil")
					return
				}
			}
		}()
	}

	for i := 0; i < 10; i++ {
		m.Swap(MinimalConfig())
	}
	wg.Wait()
}
