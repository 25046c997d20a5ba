package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"mercator-hq/hermes/pkg/config"
)

// LogFormat represents the output format for logs.
type LogFormat string

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON LogFormat = "json"
	// FormatText outputs logs in plain text format.
	FormatText LogFormat = "text"
)

// New builds a slog.Logger from the logging configuration.
//
// The returned logger writes to w (os.Stderr when nil, keeping stdout free
// for chat output), filters below the configured level, and emits either
// text or JSON records. When RedactSecrets is enabled, every record passes
// through the secret redactor before it is written, including records logged
// through the default logger after slog.SetDefault:
//
//	logger, err := logging.New(&cfg.Telemetry.Logging, nil)
//	if err != nil {
//		return err
//	}
//	slog.SetDefault(logger)
//
// Context fields set with WithRequestID, WithProvider, WithModel, and
// WithChatID are appended to records logged through the context-aware slog
// methods (InfoContext and friends).
func New(cfg *config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log format: %w", err)
	}

	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch format {
	case FormatText:
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	if cfg.RedactSecrets {
		handler = NewRedactHandler(handler, NewRedactor(cfg.RedactPatterns))
	}
	handler = NewContextHandler(handler)

	return slog.New(handler), nil
}

// parseLevel parses a log level string into slog.Level.
func parseLevel(levelStr string) (slog.Level, error) {
	switch levelStr {
	case "debug", "DEBUG":
		return slog.LevelDebug, nil
	case "info", "INFO", "":
		return slog.LevelInfo, nil
	case "warn", "WARN", "warning", "WARNING":
		return slog.LevelWarn, nil
	case "error", "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", levelStr)
	}
}

// parseFormat parses a log format string into LogFormat.
func parseFormat(formatStr string) (LogFormat, error) {
	switch formatStr {
	case "json", "JSON":
		return FormatJSON, nil
	case "text", "TEXT", "":
		return FormatText, nil
	default:
		return FormatText, fmt.Errorf("unknown log format: %s", formatStr)
	}
}
