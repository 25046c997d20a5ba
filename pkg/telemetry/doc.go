// Package telemetry groups the observability subpackages for Hermes.
//
// # Components
//
//   - logging: slog handler construction with secret redaction and
//     context-carried request fields
//   - metrics: Prometheus collectors for provider requests, catalog cache
//     behavior, and retry activity
//   - tracing: OpenTelemetry spans for completion calls, stream
//     consumption, and catalog refreshes
//
// # Wiring
//
// The subpackages are independent; the process entry point assembles them:
//
//	logger, err := logging.New(&cfg.Telemetry.Logging, nil)
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
// Library packages depend on at most one of them: they log through the
// default slog logger, accept small observer interfaces for metrics, and
// start spans through tracing.Start.
package telemetry
