package openai

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"mercator-hq/hermes/pkg/providers"
)

// Provider is the OpenAI provider adapter.
// It implements the providers.Provider interface for OpenAI's chat
// completions API.
type Provider struct {
	*providers.HTTPProvider
}

// DefaultBaseURL is the OpenAI API endpoint used when none is configured.
const DefaultBaseURL = "https://api.openai.com"

// NewProvider creates a new OpenAI provider instance.
//
// A missing API key is not a construction error: the key is checked when a
// request is made, so that a misconfigured provider surfaces as an
// authentication failure on use rather than preventing startup.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "openai",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}

	p := &Provider{
		HTTPProvider: providers.NewHTTPProvider(config),
	}

	slog.Info("OpenAI provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
	)

	return p, nil
}

// SendCompletion sends a completion request to OpenAI.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := p.checkCredential(); err != nil {
		return nil, err
	}

	openaiReq := transformRequest(req)
	openaiReq.Stream = false

	url := fmt.Sprintf("%s/v1/chat/completions", p.GetConfig().BaseURL)

	var openaiResp OpenAIResponse
	if err := p.DoJSONRequest(ctx, "POST", url, openaiReq, &openaiResp, p.headers()); err != nil {
		return nil, err
	}

	resp, err := transformResponse(&openaiResp)
	if err != nil {
		return nil, &providers.ParseError{
			Provider: p.GetName(),
			Cause:    err,
		}
	}

	slog.Debug("completion request succeeded",
		"provider", p.GetName(),
		"model", resp.Model,
		"tokens", resp.Usage.TotalTokens,
	)

	return resp, nil
}

// StreamCompletion sends a streaming completion request to OpenAI.
//
// The returned channel carries zero or more text delta events followed by a
// done event. OpenAI's wire format treats transport close as normal stream
// end (an optional "[DONE]" sentinel may arrive first), so a done event is
// emitted whenever the stream ends without a transport error.
func (p *Provider) StreamCompletion(ctx context.Context, req *providers.CompletionRequest) (<-chan providers.StreamEvent, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := p.checkCredential(); err != nil {
		return nil, err
	}

	openaiReq := transformRequest(req)
	openaiReq.Stream = true

	url := fmt.Sprintf("%s/v1/chat/completions", p.GetConfig().BaseURL)
	headers := p.headers()
	headers["Accept"] = "text/event-stream"

	stream, err := newStreamReader(ctx, p.HTTPProvider, url, openaiReq, headers)
	if err != nil {
		return nil, err
	}

	events := make(chan providers.StreamEvent, 100)

	go func() {
		defer close(events)
		defer stream.Close()

		for {
			delta, err := stream.Read(ctx)
			if err != nil {
				if err == io.EOF {
					// Transport close is normal end for this wire format.
					select {
					case events <- providers.Done(stream.finishReason, stream.usage):
					case <-ctx.Done():
					}
					return
				}
				select {
				case events <- providers.ErrorEvent(err):
				case <-ctx.Done():
				}
				return
			}

			select {
			case events <- providers.TextDelta(delta):
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

// HealthCheck probes the models endpoint to verify reachability.
func (p *Provider) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/models", p.GetConfig().BaseURL)

	resp, err := p.DoRequest(ctx, "GET", url, nil, p.headers())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return nil
}

// headers returns the standard request headers for OpenAI.
func (p *Provider) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + p.GetConfig().APIKey,
		"Content-Type":  "application/json",
	}
}

// checkCredential verifies an API key is configured.
func (p *Provider) checkCredential() error {
	if p.GetConfig().APIKey == "" {
		return &providers.AuthError{
			Provider: p.GetName(),
			Message:  "no API key configured",
		}
	}
	return nil
}

// validateRequest validates the completion request.
func validateRequest(req *providers.CompletionRequest) error {
	if req == nil {
		return &providers.ValidationError{
			Field:   "request",
			Message: "request cannot be nil",
		}
	}

	if req.Model == "" {
		return &providers.ValidationError{
			Field:   "model",
			Message: "model is required",
		}
	}

	if len(req.Messages) == 0 {
		return &providers.ValidationError{
			Field:   "messages",
			Message: "at least one message is required",
		}
	}

	return nil
}
