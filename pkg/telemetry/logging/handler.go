package logging

import (
	"context"
	"log/slog"
)

// redactHandler is a slog.Handler middleware that masks secrets in every
// record before delegating to the wrapped handler.
//
// Attributes whose key names a secret (api_key, token, authorization, and so
// on) are masked entirely. String values under other keys are scanned for
// secret patterns such as sk- keys and Bearer tokens.
type redactHandler struct {
	inner    slog.Handler
	redactor *Redactor
}

// NewRedactHandler wraps a handler so every record passes through the given
// redactor. It is applied automatically by New when redaction is enabled.
func NewRedactHandler(inner slog.Handler, redactor *Redactor) slog.Handler {
	return &redactHandler{inner: inner, redactor: redactor}
}

func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *redactHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, h.redactor.RedactString(rec.Message), rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.inner.Handle(ctx, out)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &redactHandler{inner: h.inner.WithAttrs(redacted), redactor: h.redactor}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	return &redactHandler{inner: h.inner.WithGroup(name), redactor: h.redactor}
}

// redactAttr rewrites a single attribute. Group attributes are walked
// recursively so nested secrets do not leak.
func (h *redactHandler) redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		redacted := make([]slog.Attr, len(group))
		for i, ga := range group {
			redacted[i] = h.redactAttr(ga)
		}
		a.Value = slog.GroupValue(redacted...)
		return a

	case slog.KindString:
		if h.redactor.IsSensitiveKey(a.Key) {
			a.Value = slog.StringValue(MaskValue(a.Value.String()))
			return a
		}
		a.Value = slog.StringValue(h.redactor.RedactString(a.Value.String()))
		return a

	default:
		if h.redactor.IsSensitiveKey(a.Key) {
			a.Value = slog.StringValue("***")
		}
		return a
	}
}
