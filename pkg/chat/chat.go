package chat

import (
	"context"
	"fmt"

	"mercator-hq/hermes/pkg/providers"
)

// Registry resolves configured provider instances by name. The
// providerfactory Manager satisfies it.
type Registry interface {
	Get(name string) (providers.Provider, error)
}

// ModelCatalog reports whether a model identifier is known. The catalog
// Service satisfies it.
type ModelCatalog interface {
	FindModel(ctx context.Context, id string) (providers.ModelDescriptor, bool)
}

// Request describes one completion turn.
type Request struct {
	// Provider names the configured provider instance to dispatch to.
	Provider string

	// Model is the model identifier sent to the provider.
	Model string

	// Messages is the conversation so far, oldest first.
	Messages []providers.Message

	// Temperature, MaxTokens, TopP and Stop tune generation. Zero values
	// leave the provider defaults in place.
	Temperature float64
	MaxTokens   int
	TopP        float64
	Stop        []string

	// Tags are routing hints for gateway backends.
	Tags []string

	// ChatID appends the turn to an existing history chat. Empty starts a
	// new chat when a history store is configured.
	ChatID string
}

// Response is the outcome of a completion turn.
type Response struct {
	// RequestID is the id assigned to this turn. The same id appears in
	// logs and trace spans.
	RequestID string

	// ChatID is the history chat the turn was appended to. Empty when no
	// history store is configured.
	ChatID string

	// Provider and Model identify who produced the completion. Model is
	// the concrete version reported by the backend when available.
	Provider string
	Model    string

	// Content is the assistant text. For an interrupted stream it holds
	// what arrived before the interruption.
	Content string

	// FinishReason is why generation stopped ("stop", "length", ...).
	// Empty when a stream never reached its terminal event.
	FinishReason string

	// Usage is the token accounting reported by the provider.
	Usage providers.TokenUsage

	// Partial marks a streamed turn that ended before the terminal event.
	Partial bool

	// Retries is how many re-attempts were needed before dispatch
	// succeeded.
	Retries int
}

// validate rejects requests no provider call could serve.
func (r *Request) validate() error {
	if r.Provider == "" {
		return &providers.ValidationError{Field: "provider", Message: "provider is required"}
	}
	if r.Model == "" {
		return &providers.ValidationError{Field: "model", Message: "model is required"}
	}
	if len(r.Messages) == 0 {
		return &providers.ValidationError{Field: "messages", Message: "at least one message is required"}
	}
	for i, msg := range r.Messages {
		switch msg.Role {
		case providers.RoleSystem, providers.RoleUser, providers.RoleAssistant:
		default:
			return &providers.ValidationError{
				Field:   "messages",
				Message: fmt.Sprintf("message %d has unknown role %q", i, msg.Role),
			}
		}
	}
	return nil
}
