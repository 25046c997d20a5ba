package gateway

import (
	"mercator-hq/hermes/pkg/providers"
)

// GatewayRequest is the OpenAI-compatible request body the gateway accepts.
type GatewayRequest struct {
	Model       string           `json:"model"`
	Messages    []GatewayMessage `json:"messages"`
	Temperature float64          `json:"temperature,omitempty"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	TopP        float64          `json:"top_p,omitempty"`
	Stream      bool             `json:"stream,omitempty"`
	Stop        []string         `json:"stop,omitempty"`
}

// GatewayMessage is a chat message in the gateway's request body.
type GatewayMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GatewayModelsResponse is the body of the model discovery endpoint.
type GatewayModelsResponse struct {
	Object string         `json:"object"`
	Data   []GatewayModel `json:"data"`
}

// GatewayModel is one entry in the model discovery response.
type GatewayModel struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by,omitempty"`
}

// transformRequest transforms a provider-agnostic request to the gateway's
// request body.
func transformRequest(req *providers.CompletionRequest) *GatewayRequest {
	gatewayReq := &GatewayRequest{
		Model:       req.Model,
		Messages:    make([]GatewayMessage, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        req.TopP,
		Stream:      req.Stream,
		Stop:        req.Stop,
	}

	for i, msg := range req.Messages {
		gatewayReq.Messages[i] = GatewayMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	return gatewayReq
}
