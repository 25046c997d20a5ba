package providers

import "context"

// Provider is the core interface that all LLM provider adapters implement.
// It gives callers one surface over heterogeneous vendor chat APIs.
//
// All methods accept a context.Context for cancellation and timeout control.
// Implementations must respect context cancellation and return promptly when
// the context is cancelled.
//
// Example usage:
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
//
//	req := &providers.CompletionRequest{
//	    Model: "gpt-4o",
//	    Messages: []providers.Message{
//	        {Role: providers.RoleUser, Content: "Hello!"},
//	    },
//	}
//
//	resp, err := provider.SendCompletion(ctx, req)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.Content)
type Provider interface {
	// SendCompletion sends a non-streaming completion request. The request is
	// transformed to the provider-specific format and the response normalized
	// back. Transport and decode failures are returned as-is, without
	// classification or retry; callers run them through Classify and decide
	// about re-issuing themselves.
	SendCompletion(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// StreamCompletion opens a streaming completion call. It returns a
	// channel of normalized StreamEvents delivered strictly in arrival order.
	//
	// The channel carries zero or more EventTextDelta frames, then either an
	// EventDone (normal end) or an EventError (mid-stream failure), and is
	// then closed. A channel that closes without a terminal event means the
	// transport ended early; text received up to that point still stands.
	//
	// Cancelling the context closes the underlying connection and ends the
	// stream.
	StreamCompletion(ctx context.Context, req *CompletionRequest) (<-chan StreamEvent, error)

	// HealthCheck performs an on-demand reachability probe.
	HealthCheck(ctx context.Context) error

	// GetName returns the provider's instance label (used in logs and errors).
	GetName() string

	// GetID returns the provider's wire-adapter identifier.
	GetID() ProviderID

	// GetConfig returns the provider's configuration.
	GetConfig() ProviderConfig

	// IsHealthy returns the current health status of the provider.
	IsHealthy() bool

	// GetHealth returns detailed health information including last check
	// time, consecutive failures, and error details.
	GetHealth() ProviderHealth

	// Close releases the provider's resources (HTTP connections, health
	// checker). After Close the provider must not be used.
	Close() error
}

// ModelLister is implemented by providers that can enumerate their available
// models dynamically. The model catalog feeds on it when a gateway is
// configured.
type ModelLister interface {
	// ListModels fetches the provider's model discovery endpoint and returns
	// normalized descriptors. The call must honor the context's deadline.
	ListModels(ctx context.Context) ([]ModelDescriptor, error)
}
