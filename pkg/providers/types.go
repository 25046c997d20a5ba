package providers

import (
	"fmt"
	"time"
)

// ProviderID identifies which backend speaks for a model. It is a closed set:
// adding a provider means adding a constant here and an adapter package that
// handles it, so dispatch sites can treat an unknown value as a hard error
// rather than a silent fallthrough.
type ProviderID string

const (
	// ProviderOpenAI is the direct OpenAI chat completions API.
	ProviderOpenAI ProviderID = "openai"

	// ProviderAnthropic is the direct Anthropic messages API.
	ProviderAnthropic ProviderID = "anthropic"

	// ProviderGateway is a unified gateway fronting many vendors behind an
	// OpenAI-compatible surface.
	ProviderGateway ProviderID = "gateway"
)

// Valid reports whether id is one of the known provider identifiers.
func (id ProviderID) Valid() bool {
	switch id {
	case ProviderOpenAI, ProviderAnthropic, ProviderGateway:
		return true
	}
	return false
}

// String returns the identifier as a plain string.
func (id ProviderID) String() string {
	return string(id)
}

// ParseProviderID converts a string into a ProviderID.
// It returns a ValidationError for anything outside the closed set.
func ParseProviderID(s string) (ProviderID, error) {
	id := ProviderID(s)
	if !id.Valid() {
		return "", &ValidationError{
			Field:   "provider",
			Message: fmt.Sprintf("unknown provider %q (expected openai, anthropic, or gateway)", s),
		}
	}
	return id, nil
}

// Message represents a single message in a conversation.
// It is provider-agnostic and is transformed to provider-specific formats.
type Message struct {
	// Role identifies the message sender (system, user, assistant)
	Role string `json:"role"`

	// Content is the message text content
	Content string `json:"content"`

	// Name is an optional name for the message sender
	Name string `json:"name,omitempty"`
}

// TokenUsage tracks token consumption for a request.
type TokenUsage struct {
	// PromptTokens is the number of tokens in the prompt
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the number of tokens in the completion
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is the total number of tokens used (prompt + completion)
	TotalTokens int `json:"total_tokens"`
}

// CompletionRequest represents a provider-agnostic completion request.
// It is transformed to provider-specific formats by each adapter.
type CompletionRequest struct {
	// Model is the model identifier (e.g., "gpt-4o", "claude-3-5-sonnet-20241022")
	Model string `json:"model"`

	// Messages is the conversation history
	Messages []Message `json:"messages"`

	// Temperature controls randomness (0.0 to 2.0, typically 0.0 to 1.0)
	Temperature float64 `json:"temperature,omitempty"`

	// MaxTokens is the maximum number of tokens to generate
	MaxTokens int `json:"max_tokens,omitempty"`

	// TopP controls nucleus sampling (0.0 to 1.0)
	TopP float64 `json:"top_p,omitempty"`

	// Stream indicates whether to stream the response
	Stream bool `json:"stream,omitempty"`

	// Stop sequences that will halt generation
	Stop []string `json:"stop,omitempty"`

	// Tags are routing hints forwarded to gateway backends via the
	// x-gateway-tags header. Direct vendor adapters ignore them.
	Tags []string `json:"-"`

	// Metadata contains additional request context (request ID, user, etc.)
	// This is not sent to the provider, but used internally.
	Metadata map[string]string `json:"-"`
}

// CompletionResponse represents a provider-agnostic completion response.
// It is normalized from provider-specific response formats.
type CompletionResponse struct {
	// ID is the unique response identifier
	ID string `json:"id"`

	// Model is the model that generated the response
	Model string `json:"model"`

	// Content is the generated text content
	Content string `json:"content"`

	// FinishReason indicates why generation stopped (stop, length, content_filter)
	FinishReason string `json:"finish_reason"`

	// Usage contains token consumption information
	Usage TokenUsage `json:"usage"`

	// Created is the Unix timestamp when the response was created
	Created int64 `json:"created"`
}

// StreamEventType discriminates the frames of a streaming completion.
type StreamEventType string

const (
	// EventTextDelta carries an incremental fragment of assistant text.
	EventTextDelta StreamEventType = "text_delta"

	// EventDone marks the normal end of a stream. The event channel is
	// closed right after it. A channel that closes without a Done event
	// means the transport ended early; whatever text arrived still stands.
	EventDone StreamEventType = "done"

	// EventError carries a mid-stream failure. It is the last event before
	// the channel closes.
	EventError StreamEventType = "error"
)

// StreamEvent is one normalized frame of a streaming completion. Adapters
// produce these from their vendor wire formats; consumers read them exactly
// once, in arrival order.
type StreamEvent struct {
	// Type discriminates which payload fields are meaningful
	Type StreamEventType `json:"type"`

	// Text is the incremental content (EventTextDelta only)
	Text string `json:"text,omitempty"`

	// FinishReason indicates why generation stopped (EventDone, if known)
	FinishReason string `json:"finish_reason,omitempty"`

	// Usage contains token counts when the vendor reports them (EventDone)
	Usage *TokenUsage `json:"usage,omitempty"`

	// Err is the failure that ended the stream (EventError only)
	Err error `json:"-"`
}

// TextDelta constructs a text fragment event.
func TextDelta(text string) StreamEvent {
	return StreamEvent{Type: EventTextDelta, Text: text}
}

// Done constructs a normal end-of-stream event.
func Done(finishReason string, usage *TokenUsage) StreamEvent {
	return StreamEvent{Type: EventDone, FinishReason: finishReason, Usage: usage}
}

// ErrorEvent constructs a stream failure event.
func ErrorEvent(err error) StreamEvent {
	return StreamEvent{Type: EventError, Err: err}
}

// ModelDescriptor describes one selectable model. Descriptors are created by
// static configuration or by parsing a gateway discovery response and are
// never mutated afterwards. Two descriptors are duplicates when their IDs
// match.
type ModelDescriptor struct {
	// ID is the vendor's model identifier, unique within a provider
	ID string `json:"id"`

	// DisplayName is the human-readable name shown to users
	DisplayName string `json:"display_name"`

	// Provider identifies which backend serves this model
	Provider ProviderID `json:"provider"`

	// ContextWindowTokens is the model's context window size in tokens
	ContextWindowTokens int `json:"context_window_tokens"`
}

// ProviderHealth tracks the health status of a provider.
type ProviderHealth struct {
	// IsHealthy indicates whether the provider is currently healthy
	IsHealthy bool

	// LastCheck is the timestamp of the last health check
	LastCheck time.Time

	// LastError is the most recent error encountered (nil if healthy)
	LastError error

	// ConsecutiveFailures counts sequential failures
	ConsecutiveFailures int

	// LastSuccessfulRequest is the timestamp of the last successful request
	LastSuccessfulRequest time.Time

	// TotalRequests is the total number of requests sent to this provider
	TotalRequests int64

	// FailedRequests is the total number of failed requests
	FailedRequests int64
}

// ProviderConfig contains configuration for a single provider instance.
type ProviderConfig struct {
	// Name is the instance label used in logs and errors (usually the
	// provider id, but distinct instances of the same backend may differ)
	Name string

	// ID selects the wire adapter
	ID ProviderID

	// BaseURL is the API endpoint base URL
	BaseURL string

	// APIKey is the authentication credential. For gateway backends this is
	// the virtual key issued for the session.
	APIKey string

	// Timeout is the request timeout duration
	Timeout time.Duration

	// Tags are default routing hints for gateway backends (comma-joined
	// into the x-gateway-tags header)
	Tags []string

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration

	// HealthCheckInterval is the period between background health probes
	// (0 means DefaultHealthCheckInterval)
	HealthCheckInterval time.Duration
}

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Finish reason constants
const (
	FinishReasonStop          = "stop"
	FinishReasonLength        = "length"
	FinishReasonContentFilter = "content_filter"
)
