package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"mercator-hq/hermes/pkg/catalog"
	"mercator-hq/hermes/pkg/catalog/snapshot"
	"mercator-hq/hermes/pkg/chat"
	"mercator-hq/hermes/pkg/cli"
	"mercator-hq/hermes/pkg/config"
	"mercator-hq/hermes/pkg/history"
	"mercator-hq/hermes/pkg/history/storage"
	"mercator-hq/hermes/pkg/providerfactory"
	"mercator-hq/hermes/pkg/providers"
	"mercator-hq/hermes/pkg/retry"
	"mercator-hq/hermes/pkg/telemetry/logging"
	"mercator-hq/hermes/pkg/telemetry/metrics"
	"mercator-hq/hermes/pkg/telemetry/tracing"
)

// loadConfig reads the config file, applies environment overrides, and
// validates the result. When the default config file is absent and the user
// did not name one, the built-in defaults are used instead, so the CLI works
// with nothing but API keys in the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || rootCmd.PersistentFlags().Changed("config") {
			return nil, cli.NewConfigError(cfgFile, err.Error())
		}

		cfg = config.DefaultConfig()
		config.ApplyEnvOverrides(cfg)
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}

	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if metricsAddr != "" {
		cfg.Telemetry.Metrics.Enabled = true
		cfg.Telemetry.Metrics.ListenAddress = metricsAddr
	}
	return cfg, nil
}

// app is the wired stack behind a single command invocation: providers,
// catalog, history, and the chat facade, plus everything that needs closing
// when the command ends.
type app struct {
	cfg     *config.Config
	manager *providerfactory.Manager
	catalog *catalog.Service
	history history.Store
	chat    *chat.Service
	metrics *metrics.Collector

	tracer     *tracing.Tracer
	snapshots  *snapshot.Store
	scheduler  *catalog.Scheduler
	pruner     *history.Pruner
	metricsSrv *http.Server
}

// newApp wires the full stack from configuration. Optional pieces that fail
// to come up (tracing, snapshot store, background schedulers) are logged and
// skipped. A broken history store is fatal: the user asked for transcripts
// to be kept, and a run that silently drops them is worse than one that
// stops.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger, err := logging.New(&cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	slog.SetDefault(logger)

	a := &app{cfg: cfg, metrics: metrics.Disabled()}

	if cfg.Telemetry.Metrics.Enabled {
		a.metrics = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		if addr := cfg.Telemetry.Metrics.ListenAddress; addr != "" {
			a.metricsSrv = serveMetrics(addr, cfg.Telemetry.Metrics.Path, a.metrics)
		}
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		slog.Warn("failed to initialize tracing", "error", err)
	} else {
		a.tracer = tracer
	}

	a.manager = providerfactory.NewManager()
	if len(cfg.Providers) > 0 {
		if err := a.manager.LoadFromConfig(cfg.Providers); err != nil {
			slog.Warn("some providers failed to initialize", "error", err)
		}
	} else {
		slog.Warn("no providers configured")
	}
	for name, health := range a.manager.GetHealthSummary().Details {
		a.metrics.UpdateProviderHealth(name, health.IsHealthy)
	}

	if cfg.Catalog.Snapshot.Enabled {
		store, err := snapshot.NewWithConfig(snapshot.Config{
			DBPath:             cfg.Catalog.Snapshot.Path,
			CheckpointInterval: cfg.Catalog.Snapshot.CheckpointInterval,
		})
		if err != nil {
			slog.Warn("failed to open catalog snapshot store", "error", err)
		} else {
			a.snapshots = store
		}
	}

	a.catalog = catalog.NewService(catalog.ServiceConfig{
		Lister:           discoverLister(a.manager),
		Store:            a.snapshots,
		Observer:         a.metrics.Catalog(),
		TTL:              cfg.Catalog.TTL,
		DiscoveryTimeout: cfg.Catalog.DiscoveryTimeout,
	})
	if cfg.Catalog.RefreshSchedule != "" {
		a.scheduler = catalog.NewScheduler(a.catalog, cfg.Catalog.RefreshSchedule)
		if err := a.scheduler.Start(ctx); err != nil {
			slog.Warn("failed to start catalog refresh scheduler", "error", err)
			a.scheduler = nil
		}
	}

	if cfg.History.Enabled {
		store, err := openHistoryStore(cfg)
		if err != nil {
			a.close()
			return nil, err
		}
		a.history = store

		if cfg.History.Retention.PruneSchedule != "" {
			a.pruner = history.NewPruner(store, &history.RetentionConfig{
				RetentionDays: cfg.History.Retention.Days,
				PruneSchedule: cfg.History.Retention.PruneSchedule,
				MaxChats:      cfg.History.Retention.MaxChats,
			})
			if err := a.pruner.Start(ctx); err != nil {
				slog.Warn("failed to start history retention scheduler", "error", err)
				a.pruner = nil
			}
		}
	}

	a.chat = chat.NewService(chat.ServiceConfig{
		Registry: a.manager,
		Catalog:  a.catalog,
		History:  a.history,
		Metrics:  a.metrics,
		Retry: &retry.Options{
			MaxRetries:   cfg.Retry.MaxRetries,
			InitialDelay: cfg.Retry.InitialDelay,
			MaxDelay:     cfg.Retry.MaxDelay,
		},
	})

	return a, nil
}

// close tears the app down in reverse construction order.
func (a *app) close() {
	if a.pruner != nil {
		a.pruner.Stop()
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
	}
	if a.snapshots != nil {
		if err := a.snapshots.Close(); err != nil {
			slog.Warn("failed to close catalog snapshot store", "error", err)
		}
	}
	if a.manager != nil {
		if err := a.manager.Close(); err != nil {
			slog.Warn("failed to close providers", "error", err)
		}
	}
	if a.metricsSrv != nil {
		a.metricsSrv.Close()
	}
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.tracer.Shutdown(ctx); err != nil {
			slog.Warn("failed to shut down tracing", "error", err)
		}
		cancel()
	}
}

// discoverLister finds the first provider that supports model discovery.
// Only gateway adapters do today; names are walked in sorted order so the
// choice is stable when several are configured.
func discoverLister(m *providerfactory.Manager) providers.ModelLister {
	for _, name := range m.Names() {
		p, err := m.Get(name)
		if err != nil {
			continue
		}
		if lister, ok := p.(providers.ModelLister); ok {
			return lister
		}
	}
	return nil
}

// openHistoryStore creates the history backend named by the configuration.
func openHistoryStore(cfg *config.Config) (history.Store, error) {
	switch cfg.History.Backend {
	case "sqlite":
		store, err := storage.NewSQLiteStore(&storage.SQLiteConfig{
			Path:         cfg.History.SQLite.Path,
			MaxOpenConns: cfg.History.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.History.SQLite.MaxIdleConns,
			WALMode:      true,
			BusyTimeout:  cfg.History.SQLite.BusyTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		return store, nil
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported history backend: %s", cfg.History.Backend)
	}
}

// serveMetrics starts a Prometheus exposition listener in the background.
// Listener failures are logged, not fatal.
func serveMetrics(addr, path string, collector *metrics.Collector) *http.Server {
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("metrics listener failed", "address", addr, "error", err)
		}
	}()
	slog.Info("metrics listener started", "address", addr, "path", path)
	return srv
}
