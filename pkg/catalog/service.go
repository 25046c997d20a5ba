package catalog

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"mercator-hq/hermes/pkg/catalog/snapshot"
	"mercator-hq/hermes/pkg/providers"
	"mercator-hq/hermes/pkg/telemetry/tracing"
)

const (
	// DefaultTTL is how long a successful discovery result is served
	// without a new fetch.
	DefaultTTL = 5 * time.Minute

	// DefaultDiscoveryTimeout bounds one model discovery round-trip.
	DefaultDiscoveryTimeout = 10 * time.Second
)

// Observer receives cache lifecycle events from a Service. Implementations
// must be safe for concurrent use.
type Observer interface {
	// FetchCompleted reports one discovery round-trip and the catalog size
	// that resulted. Status is "success" or "error".
	FetchCompleted(status string, models int)

	// CacheHit reports a catalog served from cache within the TTL.
	CacheHit()

	// StaleServe reports a catalog served past its TTL, either while a
	// refresh was in flight or after one failed.
	StaleServe()
}

// ServiceConfig configures a catalog Service.
type ServiceConfig struct {
	// Lister discovers gateway models. Nil means no gateway is configured
	// and the catalog serves only the built-in list.
	Lister providers.ModelLister

	// Store persists the last good catalog across restarts. Nil disables
	// snapshots.
	Store *snapshot.Store

	// Observer receives cache lifecycle events. Nil disables reporting.
	Observer Observer

	// TTL overrides DefaultTTL when positive.
	TTL time.Duration

	// DiscoveryTimeout overrides DefaultDiscoveryTimeout when positive.
	DiscoveryTimeout time.Duration
}

// Service maintains the merged model catalog: the built-in list plus whatever
// the gateway advertises, deduplicated, sorted, and cached with a TTL.
//
// The catalog never goes empty. Discovery failure falls back to the last good
// result, and when there has never been one, to the built-in list alone.
type Service struct {
	lister           providers.ModelLister
	store            *snapshot.Store
	observer         Observer
	ttl              time.Duration
	discoveryTimeout time.Duration

	mu         sync.Mutex
	cached     []providers.ModelDescriptor
	fetchedAt  time.Time
	refreshing bool
}

// NewService creates a catalog service. When a snapshot store is configured,
// its last saved catalog seeds the cache so a restart during a gateway outage
// still serves the previous discovery result.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		lister:           cfg.Lister,
		store:            cfg.Store,
		observer:         cfg.Observer,
		ttl:              cfg.TTL,
		discoveryTimeout: cfg.DiscoveryTimeout,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.discoveryTimeout <= 0 {
		s.discoveryTimeout = DefaultDiscoveryTimeout
	}

	if s.store != nil {
		models, fetchedAt, err := s.store.Load(context.Background())
		if err != nil {
			slog.Warn("failed to load catalog snapshot", "error", err)
		} else if len(models) > 0 {
			s.cached = models
			s.fetchedAt = fetchedAt
			slog.Info("catalog snapshot loaded",
				"models", len(models),
				"age", time.Since(fetchedAt).Round(time.Second),
			)
		}
	}

	return s
}

// GetModels returns the current catalog. Within the TTL the cached result is
// served without a network round-trip; past it, one caller refreshes while
// concurrent callers are served the previous result.
func (s *Service) GetModels(ctx context.Context) []providers.ModelDescriptor {
	s.mu.Lock()

	if s.lister == nil {
		s.mu.Unlock()
		return mergeModels(BuiltinModels())
	}

	fresh := s.cached != nil && time.Since(s.fetchedAt) < s.ttl
	if fresh || s.refreshing {
		models := s.currentLocked()
		s.mu.Unlock()
		if s.observer != nil {
			if fresh {
				s.observer.CacheHit()
			} else {
				s.observer.StaleServe()
			}
		}
		return models
	}

	s.refreshing = true
	s.mu.Unlock()

	models, err := s.Refresh(ctx)
	if err != nil {
		slog.Warn("model discovery failed, serving cached catalog", "error", err)
		if s.observer != nil {
			s.observer.StaleServe()
		}
	}
	return models
}

// Refresh fetches the gateway's model list immediately, bypassing the TTL,
// and returns the resulting catalog. On discovery failure the previous
// catalog is returned alongside the error; the result is never empty.
func (s *Service) Refresh(ctx context.Context) ([]providers.ModelDescriptor, error) {
	if s.lister == nil {
		return mergeModels(BuiltinModels()), nil
	}

	ctx, span := tracing.Start(ctx, "catalog.refresh")
	defer span.End()

	merged, err := s.fetchAndMerge(ctx)

	s.mu.Lock()
	s.refreshing = false
	if err != nil {
		models := s.currentLocked()
		s.mu.Unlock()
		if s.observer != nil {
			s.observer.FetchCompleted("error", len(models))
		}
		tracing.SetErrorAttributes(span, err, string(providers.Classify(err).Code))
		return models, err
	}
	s.cached = merged
	s.fetchedAt = time.Now()
	models := s.currentLocked()
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.FetchCompleted("success", len(models))
	}
	tracing.SetCatalogAttributes(span, len(models), "gateway")

	if s.store != nil {
		if err := s.store.Save(ctx, merged, s.fetchedAt); err != nil {
			slog.Warn("failed to save catalog snapshot", "error", err)
		}
	}

	return models, nil
}

// FindModel looks a model up by id in the current catalog.
func (s *Service) FindModel(ctx context.Context, id string) (providers.ModelDescriptor, bool) {
	for _, m := range s.GetModels(ctx) {
		if m.ID == id {
			return m, true
		}
	}
	return providers.ModelDescriptor{}, false
}

// currentLocked returns a copy of the best available catalog. Callers must
// hold s.mu.
func (s *Service) currentLocked() []providers.ModelDescriptor {
	if s.cached == nil {
		return mergeModels(BuiltinModels())
	}
	out := make([]providers.ModelDescriptor, len(s.cached))
	copy(out, s.cached)
	return out
}

// fetchAndMerge performs one bounded discovery round-trip and merges the
// result with the built-in list.
func (s *Service) fetchAndMerge(ctx context.Context) ([]providers.ModelDescriptor, error) {
	ctx, cancel := context.WithTimeout(ctx, s.discoveryTimeout)
	defer cancel()

	remote, err := s.lister.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	enriched := make([]providers.ModelDescriptor, 0, len(remote))
	for _, m := range remote {
		if m.DisplayName == "" {
			m.DisplayName = displayNameFor(m.ID)
		}
		if m.ContextWindowTokens == 0 {
			m.ContextWindowTokens = contextWindowFor(m.ID)
		}
		if m.Provider == "" {
			m.Provider = providers.ProviderGateway
		}
		enriched = append(enriched, m)
	}

	merged := mergeModels(BuiltinModels(), enriched)

	slog.Debug("catalog refreshed",
		"discovered", len(remote),
		"total", len(merged),
	)

	return merged, nil
}

// mergeModels concatenates the given lists, drops duplicate ids keeping the
// first occurrence, and sorts the result by provider, display name, then id.
func mergeModels(lists ...[]providers.ModelDescriptor) []providers.ModelDescriptor {
	var merged []providers.ModelDescriptor
	seen := make(map[string]bool)

	for _, list := range lists {
		for _, m := range list {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			merged = append(merged, m)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Provider != merged[j].Provider {
			return merged[i].Provider < merged[j].Provider
		}
		if merged[i].DisplayName != merged[j].DisplayName {
			return merged[i].DisplayName < merged[j].DisplayName
		}
		return merged[i].ID < merged[j].ID
	})

	return merged
}
