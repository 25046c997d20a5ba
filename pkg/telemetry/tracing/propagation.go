package tracing

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// W3C Trace Context propagation.
//
// The W3C Trace Context specification (https://www.w3.org/TR/trace-context/)
// defines standard HTTP headers for carrying trace context across service
// boundaries:
//
//	traceparent: version-trace_id-parent_id-trace_flags
//	Example: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
//	tracestate: optional vendor-specific key=value pairs
//
// The primary consumer here is the outgoing direction: provider requests
// carry traceparent so a gateway that participates in tracing can attach
// its own spans to the same trace. Extract covers the reverse for programs
// that embed this library behind an HTTP server of their own.

// Propagator returns the configured text map propagator. After New has
// run with tracing enabled this is a composite of W3C Trace Context and
// W3C Baggage.
func Propagator() propagation.TextMapPropagator {
	return otel.GetTextMapPropagator()
}

// Inject injects trace context into HTTP headers.
//
// Called on the client side before an HTTP request goes out:
//
//	req, _ := http.NewRequestWithContext(ctx, "POST", url, body)
//	tracing.Inject(ctx, req.Header)
//	resp, err := client.Do(req)
//
// The trace context from ctx is serialized into traceparent and
// tracestate headers. With no span in the context this is a no-op.
func Inject(ctx context.Context, headers http.Header) {
	Propagator().Inject(ctx, propagation.HeaderCarrier(headers))
}

// Extract extracts trace context from HTTP headers and returns a context
// carrying it, so spans started from that context join the caller's trace:
//
//	ctx := tracing.Extract(r.Context(), r.Header)
//	ctx, span := tracing.Start(ctx, "handle_request")
//	defer span.End()
//
// If no trace context is found in the headers, the original context is
// returned.
func Extract(ctx context.Context, headers http.Header) context.Context {
	return Propagator().Extract(ctx, propagation.HeaderCarrier(headers))
}

// InjectToMap injects trace context into a string map, for non-HTTP
// destinations.
func InjectToMap(ctx context.Context, carrier map[string]string) {
	Propagator().Inject(ctx, propagation.MapCarrier(carrier))
}

// ExtractFromMap extracts trace context from a string map, for non-HTTP
// sources.
func ExtractFromMap(ctx context.Context, carrier map[string]string) context.Context {
	return Propagator().Extract(ctx, propagation.MapCarrier(carrier))
}

// ValidateTraceParent reports whether a traceparent header is well formed
// according to the W3C Trace Context spec. Useful when checking by hand
// that a gateway actually received propagated context.
//
// Format: version-trace_id-parent_id-trace_flags
//   - version: 2 hex digits
//   - trace_id: 32 hex digits, not all zeros
//   - parent_id: 16 hex digits, not all zeros
//   - trace_flags: 2 hex digits
func ValidateTraceParent(traceparent string) bool {
	parts := strings.Split(traceparent, "-")
	if len(parts) != 4 {
		return false
	}

	if len(parts[0]) != 2 || !isHexString(parts[0]) {
		return false
	}
	if len(parts[1]) != 32 || !isHexString(parts[1]) {
		return false
	}
	if len(parts[2]) != 16 || !isHexString(parts[2]) {
		return false
	}
	if len(parts[3]) != 2 || !isHexString(parts[3]) {
		return false
	}

	if parts[1] == "00000000000000000000000000000000" {
		return false
	}
	if parts[2] == "0000000000000000" {
		return false
	}

	return true
}

// ParseTraceParent parses a traceparent header into its components.
// Returns empty strings if the header is invalid.
func ParseTraceParent(traceparent string) (version, traceID, parentID, flags string, valid bool) {
	if !ValidateTraceParent(traceparent) {
		return "", "", "", "", false
	}

	parts := strings.Split(traceparent, "-")
	return parts[0], parts[1], parts[2], parts[3], true
}

// isHexString checks if a string contains only hexadecimal characters.
func isHexString(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
