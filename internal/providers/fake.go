package providers

import (
	"context"

	"mercator-hq/hermes/pkg/providers"
)

// FakeProvider is a test double for the Provider interface. Behavior is
// overridden per test through the function fields; unset fields fall back
// to a canned successful completion. Calls counts SendCompletion and
// StreamCompletion invocations, which makes retry behavior observable.
//
// FakeProvider is not safe for concurrent use.
type FakeProvider struct {
	Name    string
	ID      providers.ProviderID
	Healthy bool
	Closed  bool
	Calls   int

	CompleteFunc func(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error)
	StreamFunc   func(ctx context.Context, req *providers.CompletionRequest) (<-chan providers.StreamEvent, error)
	HealthFunc   func(ctx context.Context) error
}

// NewFakeProvider returns a healthy fake that answers every completion with
// canned content.
func NewFakeProvider(name string) *FakeProvider {
	return &FakeProvider{
		Name:    name,
		ID:      providers.ProviderOpenAI,
		Healthy: true,
	}
}

func (f *FakeProvider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	f.Calls++
	if f.CompleteFunc != nil {
		return f.CompleteFunc(ctx, req)
	}
	return &providers.CompletionResponse{
		ID:           "fake-response",
		Model:        req.Model,
		Content:      "canned answer",
		FinishReason: providers.FinishReasonStop,
		Usage:        providers.TokenUsage{PromptTokens: 3, CompletionTokens: 5, TotalTokens: 8},
	}, nil
}

func (f *FakeProvider) StreamCompletion(ctx context.Context, req *providers.CompletionRequest) (<-chan providers.StreamEvent, error) {
	f.Calls++
	if f.StreamFunc != nil {
		return f.StreamFunc(ctx, req)
	}
	ch := make(chan providers.StreamEvent, 3)
	ch <- providers.TextDelta("canned ")
	ch <- providers.TextDelta("answer")
	ch <- providers.Done(providers.FinishReasonStop, &providers.TokenUsage{PromptTokens: 3, CompletionTokens: 5, TotalTokens: 8})
	close(ch)
	return ch, nil
}

func (f *FakeProvider) HealthCheck(ctx context.Context) error {
	if f.HealthFunc != nil {
		return f.HealthFunc(ctx)
	}
	return nil
}

func (f *FakeProvider) GetName() string { return f.Name }

func (f *FakeProvider) GetID() providers.ProviderID { return f.ID }

func (f *FakeProvider) GetConfig() providers.ProviderConfig {
	return providers.ProviderConfig{Name: f.Name, ID: f.ID}
}

func (f *FakeProvider) IsHealthy() bool { return f.Healthy }

func (f *FakeProvider) GetHealth() providers.ProviderHealth {
	return providers.ProviderHealth{IsHealthy: f.Healthy}
}

func (f *FakeProvider) Close() error {
	f.Closed = true
	return nil
}
