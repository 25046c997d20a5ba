package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"mercator-hq/hermes/pkg/providers"
)

// Provider is the adapter for a unified LLM gateway that fronts many vendors
// behind one OpenAI-compatible request surface. Responses use the gateway's
// line-oriented stream protocol rather than vendor SSE.
//
// A credential is optional: gateways deployed inside a trusted network often
// run without one, and a virtual key can be supplied per deployment through
// the configuration.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new gateway provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "gateway",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	// There is no well-known gateway endpoint to fall back to.
	if config.BaseURL == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "base_url",
			Message:  "base URL is required for the gateway provider",
		}
	}

	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 10
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 5
	}

	p := &Provider{
		HTTPProvider: providers.NewHTTPProvider(config),
	}

	slog.Info("gateway provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"authenticated", config.APIKey != "",
	)

	return p, nil
}

// SendCompletion sends a completion request and returns the full response.
//
// The gateway speaks its stream protocol for both modes, so the non-streaming
// path reads the same line stream and collects every delta before returning.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	stream, err := p.openStream(ctx, req)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var content strings.Builder
	for {
		delta, err := stream.Read(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		content.WriteString(delta)
	}

	finishReason := ""
	if stream.sawDone {
		finishReason = providers.FinishReasonStop
	}

	slog.Debug("completion request succeeded",
		"provider", p.GetName(),
		"model", req.Model,
		"content_length", content.Len(),
	)

	return &providers.CompletionResponse{
		ID:           uuid.NewString(),
		Model:        req.Model,
		Content:      content.String(),
		FinishReason: finishReason,
		Created:      time.Now().Unix(),
	}, nil
}

// StreamCompletion sends a completion request and streams the response as
// events on the returned channel. The channel is closed when the stream ends.
//
// A done event is emitted only after the [DONE] marker line. A transport that
// closes without the marker ends the stream with the deltas delivered so far
// standing as the partial response.
func (p *Provider) StreamCompletion(ctx context.Context, req *providers.CompletionRequest) (<-chan providers.StreamEvent, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	stream, err := p.openStream(ctx, req)
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
				if stream.sawDone {
					select {
					case events <- providers.Done(providers.FinishReasonStop, nil):
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

			select {
			case events <- providers.TextDelta(delta):
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

func (p *Provider) openStream(ctx context.Context, req *providers.CompletionRequest) (*streamReader, error) {
	gatewayReq := transformRequest(req)
	gatewayReq.Stream = true

	url := fmt.Sprintf("%s/v1/chat/completions", p.GetConfig().BaseURL)

	return newStreamReader(ctx, p.HTTPProvider, url, gatewayReq, p.requestHeaders(req))
}

// HealthCheck probes the model discovery endpoint.
func (p *Provider) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/models", p.GetConfig().BaseURL)

	resp, err := p.DoRequest(ctx, "GET", url, nil, p.headers())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return nil
}

// headers returns the base request headers. The Authorization header is only
// attached when a virtual key is configured.
func (p *Provider) headers() map[string]string {
	h := map[string]string{
		"Content-Type": "application/json",
	}
	if key := p.GetConfig().APIKey; key != "" {
		h["Authorization"] = "Bearer " + key
	}
	return h
}

// requestHeaders extends the base headers with per-request routing tags. Tags
// on the request override the provider-level tags from configuration.
func (p *Provider) requestHeaders(req *providers.CompletionRequest) map[string]string {
	h := p.headers()

	tags := req.Tags
	if len(tags) == 0 {
		tags = p.GetConfig().Tags
	}
	if len(tags) > 0 {
		h["x-gateway-tags"] = strings.Join(tags, ",")
	}

	return h
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
