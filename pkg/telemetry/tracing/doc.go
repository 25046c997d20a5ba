// Package tracing provides OpenTelemetry distributed tracing for Hermes.
//
// # Overview
//
// The tracing package implements span creation, W3C Trace Context
// propagation, and trace export over OTLP gRPC. Spans cover the operations
// worth seeing on a timeline: completion calls, stream consumption, and
// catalog refreshes.
//
// # Lifecycle vs Instrumentation
//
// The process entry point constructs a *Tracer, which installs the
// exporter and registers the provider globally:
//
//	cfg := &config.TracingConfig{
//	    Enabled:     true,
//	    Sampler:     "ratio",
//	    SampleRatio: 0.1,
//	    Endpoint:    "localhost:4317",
//	    ServiceName: "hermes",
//	    OTLP:        config.OTLPConfig{Insecure: true, Timeout: 10 * time.Second},
//	}
//	tracer, err := tracing.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
// Library code does not hold the *Tracer. It starts spans through the
// package-level function, which uses the globally registered provider and
// degrades to non-recording spans while tracing is off:
//
//	ctx, span := tracing.Start(ctx, "catalog.refresh")
//	defer span.End()
//
// # Span Hierarchy
//
// A streamed chat request produces a tree like:
//
//	chat.stream (12s)
//	├── catalog.refresh (300ms, only when the cache was stale)
//	└── provider.stream (11.6s)
//
// # Attribute Helpers
//
// Common attributes use the "hermes.*" key namespace and are set through
// helpers so the keys stay consistent:
//
//	tracing.SetProviderAttributes(span, "openai", "gpt-4o")
//	tracing.SetTokenAttributes(span, 1500, 500)
//	tracing.SetErrorAttributes(span, err, "RATE_LIMIT")
//
// The error codes match the classification codes used as metric labels, so
// a spike on a metrics dashboard can be joined to exemplar traces on the
// same dimension.
//
// # Sampling
//
// Three strategies are supported, all parent-based so a sampled trace stays
// sampled across services:
//   - always: sample everything (development)
//   - never: sample nothing
//   - ratio: sample a trace-ID-hashed fraction (production; 0.1 default)
//
// # Propagation
//
// Outgoing provider requests carry traceparent/tracestate headers, so a
// gateway that participates in tracing attaches its spans to the same
// trace:
//
//	req, _ := http.NewRequestWithContext(ctx, "POST", url, body)
//	tracing.Inject(ctx, req.Header)
//
// Programs embedding this library behind their own HTTP server use Extract
// on the incoming request to join the caller's trace.
package tracing
