// Package logging builds the slog logger used across Hermes.
//
// # Overview
//
// The logging package configures Go's standard log/slog package to provide:
//   - Structured logging with JSON and text formats
//   - Automatic secret redaction (API keys, Bearer tokens, passwords)
//   - Context-aware logging with request IDs and turn metadata
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	// Build a logger from configuration and install it as the default
//	logger, err := logging.New(&cfg.Telemetry.Logging, nil)
//	if err != nil {
//		return err
//	}
//	slog.SetDefault(logger)
//
//	// Log structured data anywhere in the program
//	slog.Info("request processed",
//	    "request_id", "req-123",
//	    "api_key", "sk-abc123",  // Automatically redacted
//	    "duration_ms", 1234,
//	)
//
//	// Carry per-turn fields on the context
//	ctx = logging.WithRequestID(ctx, "req-123")
//	ctx = logging.WithModel(ctx, "gpt-4o")
//	slog.InfoContext(ctx, "sending request")  // Includes request_id, model
//
// # Secret Redaction
//
// Secrets are masked in log fields when RedactSecrets is enabled:
//
//   - API keys: sk-abc123xyz in any string value becomes sk-***
//   - Authorization headers: "Bearer eyJhbG..." becomes "Bearer ***"
//   - Sensitive keys: any attribute keyed api_key, token, authorization,
//     secret, or password is masked regardless of its value
//
// Custom patterns from the configuration's redact_patterns list apply on top
// of the built-ins.
//
// Redaction runs inside the handler chain, so it also covers packages that
// log through the process-wide default logger.
package logging
