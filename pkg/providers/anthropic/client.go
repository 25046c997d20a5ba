package anthropic

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"mercator-hq/hermes/pkg/providers"
)

const (
	// DefaultBaseURL is the Anthropic API endpoint used when the
	// configuration does not override it.
	DefaultBaseURL = "https://api.anthropic.com"

	// DefaultAPIVersion is the anthropic-version header value sent with
	// every request.
	DefaultAPIVersion = "2023-06-01"
)

// Provider implements the providers.Provider interface for Anthropic.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new Anthropic provider from the given configuration.
//
// A missing API key is not a construction error: the key is checked when a
// request is made, so that a misconfigured provider surfaces as an
// authentication failure on use rather than preventing startup.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "anthropic",
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

	slog.Info("Anthropic provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
	)

	return p, nil
}

// SendCompletion sends a completion request and waits for the full response.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := p.checkCredential(); err != nil {
		return nil, err
	}

	anthropicReq := transformRequest(req)
	anthropicReq.Stream = false

	url := fmt.Sprintf("%s/v1/messages", p.GetConfig().BaseURL)

	var anthropicResp AnthropicResponse
	if err := p.DoJSONRequest(ctx, "POST", url, anthropicReq, &anthropicResp, p.headers()); err != nil {
		return nil, err
	}

	resp, err := transformResponse(&anthropicResp)
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

// StreamCompletion sends a completion request and streams the response as
// events on the returned channel. The channel is closed when the stream ends.
//
// A done event is emitted only after the wire-level message_stop event. If the
// transport closes first, the channel closes without a done event and any
// deltas already delivered stand as the partial response.
func (p *Provider) StreamCompletion(ctx context.Context, req *providers.CompletionRequest) (<-chan providers.StreamEvent, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := p.checkCredential(); err != nil {
		return nil, err
	}

	anthropicReq := transformRequest(req)
	anthropicReq.Stream = true

	url := fmt.Sprintf("%s/v1/messages", p.GetConfig().BaseURL)

	headers := p.headers()
	headers["Accept"] = "text/event-stream"

	stream, err := newStreamReader(ctx, p.HTTPProvider, url, anthropicReq, headers)
	if err != nil {
		return nil, err
	}

	events := make(chan providers.StreamEvent, 100)

	go func() {
		defer close(events)
		defer stream.Close()

		for {
			delta, err := stream.Read(ctx)
			if err == io.EOF {
				if stream.sawStop {
					select {
					case events <- providers.Done(stream.finishReason, stream.usage):
					case <-ctx.Done():
					}
				}
				return
			}
			if err != nil {
				select {
				case events <- providers.ErrorEvent(err):
				case <-ctx.Done():
				}
				return
			}
			if delta == "" {
				continue
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

// HealthCheck probes the API with a minimal request. Anthropic has no
// dedicated health endpoint, so a one-token completion serves as the probe.
func (p *Provider) HealthCheck(ctx context.Context) error {
	req := &AnthropicRequest{
		Model:     "claude-3-5-haiku-20241022",
		MaxTokens: 1,
		Messages: []AnthropicMessage{
			{Role: "user", Content: "ping"},
		},
	}

	url := fmt.Sprintf("%s/v1/messages", p.GetConfig().BaseURL)

	var resp AnthropicResponse
	return p.DoJSONRequest(ctx, "POST", url, req, &resp, p.headers())
}

func (p *Provider) headers() map[string]string {
	return map[string]string{
		"x-api-key":         p.GetConfig().APIKey,
		"anthropic-version": DefaultAPIVersion,
		"Content-Type":      "application/json",
	}
}

func (p *Provider) checkCredential() error {
	if p.GetConfig().APIKey == "" {
		return &providers.AuthError{
			Provider: p.GetName(),
			Message:  "no API key configured",
		}
	}
	return nil
}

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

	return validateMessageSequence(req.Messages)
}
