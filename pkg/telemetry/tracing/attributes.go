package tracing

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute helpers.
//
// Custom attribute keys use the "hermes.*" namespace so dashboards can
// filter on them without colliding with semantic-convention keys. The
// error code values match the classification codes used for metric labels,
// which keeps traces and metrics joinable on the same dimension.

// Attribute keys used throughout the system.
const (
	// Provider attributes
	AttrProvider = "hermes.provider"
	AttrModel    = "hermes.model"

	// Request attributes
	AttrRequestID = "hermes.request_id"
	AttrChatID    = "hermes.chat_id"
	AttrStream    = "hermes.stream"

	// Token attributes
	AttrTokensPrompt     = "hermes.tokens.prompt"
	AttrTokensCompletion = "hermes.tokens.completion"
	AttrTokensTotal      = "hermes.tokens.total"

	// Completion attributes
	AttrFinishReason = "hermes.finish_reason"
	AttrStreamEvents = "hermes.stream.events"

	// Catalog attributes
	AttrCatalogModels = "hermes.catalog.models"
	AttrCatalogSource = "hermes.catalog.source"

	// Error attributes
	AttrErrorCode    = "hermes.error.code"
	AttrErrorMessage = "error.message"

	// Retry attributes
	AttrRetryCount = "hermes.retry_count"
)

// SetProviderAttributes sets provider-related attributes on a span.
//
// Example:
//
//	SetProviderAttributes(span, "openai", "gpt-4o")
func SetProviderAttributes(span trace.Span, provider, model string) {
	span.SetAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrModel, model),
	)
}

// SetRequestAttributes sets request identity attributes on a span.
// The chat ID is omitted when empty (one-shot requests have none).
func SetRequestAttributes(span trace.Span, requestID, chatID string) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrRequestID, requestID),
	}
	if chatID != "" {
		attrs = append(attrs, attribute.String(AttrChatID, chatID))
	}
	span.SetAttributes(attrs...)
}

// SetTokenAttributes sets token count attributes on a span.
//
// Example:
//
//	SetTokenAttributes(span, 1500, 500)
func SetTokenAttributes(span trace.Span, promptTokens, completionTokens int) {
	span.SetAttributes(
		attribute.Int(AttrTokensPrompt, promptTokens),
		attribute.Int(AttrTokensCompletion, completionTokens),
		attribute.Int(AttrTokensTotal, promptTokens+completionTokens),
	)
}

// SetStreamAttributes records how a stream concluded: the number of events
// consumed and the finish reason reported by the provider.
func SetStreamAttributes(span trace.Span, events int, finishReason string) {
	attrs := []attribute.KeyValue{
		attribute.Int(AttrStreamEvents, events),
	}
	if finishReason != "" {
		attrs = append(attrs, attribute.String(AttrFinishReason, finishReason))
	}
	span.SetAttributes(attrs...)
}

// SetCatalogAttributes sets catalog refresh attributes on a span: the
// resulting model count and where the models came from ("gateway",
// "snapshot", "builtin").
func SetCatalogAttributes(span trace.Span, models int, source string) {
	span.SetAttributes(
		attribute.Int(AttrCatalogModels, models),
		attribute.String(AttrCatalogSource, source),
	)
}

// SetErrorAttributes records a classified failure on the span: the error
// code, the message, the error event, and an Error status.
//
// Example:
//
//	SetErrorAttributes(span, err, "RATE_LIMIT")
func SetErrorAttributes(span trace.Span, err error, code string) {
	if err == nil {
		return
	}

	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String(AttrErrorCode, code),
		attribute.String(AttrErrorMessage, err.Error()),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetStatus sets the span status based on an error.
// If err is nil, status is set to OK, otherwise to Error.
func SetStatus(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// SetRetryAttribute sets the retry count attribute on a span.
//
// Example:
//
//	SetRetryAttribute(span, 2)
func SetRetryAttribute(span trace.Span, retryCount int) {
	span.SetAttributes(attribute.Int(AttrRetryCount, retryCount))
}

// AddEvent adds a named event to the span with optional attributes.
// Events mark interesting points in the span's lifetime, such as
// individual retry attempts.
//
// Example:
//
//	AddEvent(span, "retry",
//	    attribute.Int("attempt", 1),
//	    attribute.String("code", "RATE_LIMIT"),
//	)
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// AttributeBuilder provides a fluent interface for assembling the span
// start attributes of a completion call.
type AttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewAttributeBuilder creates a new attribute builder.
func NewAttributeBuilder() *AttributeBuilder {
	return &AttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 8),
	}
}

// WithProvider adds provider and model attributes.
func (ab *AttributeBuilder) WithProvider(provider, model string) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.String(AttrProvider, provider),
		attribute.String(AttrModel, model),
	)
	return ab
}

// WithRequest adds request identity attributes. The chat ID is omitted
// when empty.
func (ab *AttributeBuilder) WithRequest(requestID, chatID string) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.String(AttrRequestID, requestID))
	if chatID != "" {
		ab.attrs = append(ab.attrs, attribute.String(AttrChatID, chatID))
	}
	return ab
}

// WithStream marks whether the request is streaming.
func (ab *AttributeBuilder) WithStream(stream bool) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.Bool(AttrStream, stream))
	return ab
}

// WithCustom adds a custom attribute.
func (ab *AttributeBuilder) WithCustom(key string, value interface{}) *AttributeBuilder {
	switch v := value.(type) {
	case string:
		ab.attrs = append(ab.attrs, attribute.String(key, v))
	case int:
		ab.attrs = append(ab.attrs, attribute.Int(key, v))
	case int64:
		ab.attrs = append(ab.attrs, attribute.Int64(key, v))
	case float64:
		ab.attrs = append(ab.attrs, attribute.Float64(key, v))
	case bool:
		ab.attrs = append(ab.attrs, attribute.Bool(key, v))
	default:
		ab.attrs = append(ab.attrs, attribute.String(key, fmt.Sprintf("%v", v)))
	}
	return ab
}

// Build returns the built attributes as a trace.SpanStartOption.
func (ab *AttributeBuilder) Build() trace.SpanStartOption {
	return trace.WithAttributes(ab.attrs...)
}

// Apply applies the attributes to a span.
func (ab *AttributeBuilder) Apply(span trace.Span) {
	span.SetAttributes(ab.attrs...)
}

// Attributes returns the raw attribute slice.
func (ab *AttributeBuilder) Attributes() []attribute.KeyValue {
	return ab.attrs
}
