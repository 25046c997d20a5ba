package anthropic

import (
	"fmt"
	"time"

	"mercator-hq/hermes/pkg/providers"
)

// AnthropicRequest represents an Anthropic messages request.
type AnthropicRequest struct {
	Model         string             `json:"model"`
	Messages      []AnthropicMessage `json:"messages"`
	System        string             `json:"system,omitempty"`
	MaxTokens     int                `json:"max_tokens"`
	Temperature   float64            `json:"temperature,omitempty"`
	TopP          float64            `json:"top_p,omitempty"`
	Stream        bool               `json:"stream,omitempty"`
	StopSequences []string           `json:"stop_sequences,omitempty"`
}

// AnthropicMessage represents a message in Anthropic format.
type AnthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ContentBlock represents a content block in an Anthropic response.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// AnthropicResponse represents an Anthropic messages response.
type AnthropicResponse struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         string         `json:"role"`
	Content      []ContentBlock `json:"content"`
	Model        string         `json:"model"`
	StopReason   string         `json:"stop_reason"`
	StopSequence string         `json:"stop_sequence,omitempty"`
	Usage        AnthropicUsage `json:"usage"`
}

// AnthropicUsage represents token usage in Anthropic format.
type AnthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// AnthropicStreamEvent represents one event in Anthropic's SSE stream.
type AnthropicStreamEvent struct {
	Type string `json:"type"`

	// For message_start events.
	Message *AnthropicResponse `json:"message,omitempty"`

	// For content_block_start and content_block_stop events.
	Index        int           `json:"index,omitempty"`
	ContentBlock *ContentBlock `json:"content_block,omitempty"`

	// For content_block_delta and message_delta events, which share the
	// "delta" key on the wire.
	Delta *AnthropicStreamDelta `json:"delta,omitempty"`

	// For message_delta events.
	Usage *AnthropicUsage `json:"usage,omitempty"`

	// For error events.
	Error *AnthropicStreamError `json:"error,omitempty"`
}

// AnthropicStreamDelta is the delta payload. content_block_delta events set
// Type and Text; message_delta events set StopReason and StopSequence.
type AnthropicStreamDelta struct {
	Type         string `json:"type"`
	Text         string `json:"text,omitempty"`
	StopReason   string `json:"stop_reason,omitempty"`
	StopSequence string `json:"stop_sequence,omitempty"`
}

// AnthropicStreamError is the payload of an error event.
type AnthropicStreamError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// transformRequest transforms a provider-agnostic request to Anthropic format.
func transformRequest(req *providers.CompletionRequest) *AnthropicRequest {
	anthropicReq := &AnthropicRequest{
		Model:         req.Model,
		Messages:      make([]AnthropicMessage, 0, len(req.Messages)),
		MaxTokens:     req.MaxTokens,
		Temperature:   req.Temperature,
		TopP:          req.TopP,
		Stream:        req.Stream,
		StopSequences: req.Stop,
	}

	// max_tokens is mandatory in the Messages API.
	if anthropicReq.MaxTokens == 0 {
		anthropicReq.MaxTokens = 4096
	}

	// System prompts travel in a dedicated field, not the message list.
	for _, msg := range req.Messages {
		if msg.Role == providers.RoleSystem {
			anthropicReq.System = msg.Content
			continue
		}
		anthropicReq.Messages = append(anthropicReq.Messages, AnthropicMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	return anthropicReq
}

// validateMessageSequence enforces the Messages API turn rules: after system
// messages are lifted out, the first message must come from the user and
// roles must alternate.
func validateMessageSequence(messages []providers.Message) error {
	var prev string
	seen := 0

	for _, msg := range messages {
		if msg.Role == providers.RoleSystem {
			continue
		}

		if seen == 0 && msg.Role != providers.RoleUser {
			return &providers.ValidationError{
				Field:   "messages",
				Message: "first message must be from user (Anthropic requirement)",
			}
		}

		if seen > 0 && msg.Role == prev {
			return &providers.ValidationError{
				Field:   "messages",
				Message: fmt.Sprintf("messages must alternate between user and assistant (Anthropic requirement), found consecutive %s messages", msg.Role),
			}
		}

		prev = msg.Role
		seen++
	}

	return nil
}

// transformResponse transforms an Anthropic response to provider-agnostic format.
func transformResponse(resp *AnthropicResponse) (*providers.CompletionResponse, error) {
	if resp.Type != "" && resp.Type != "message" {
		return nil, fmt.Errorf("unexpected response type %q", resp.Type)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return &providers.CompletionResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      content,
		FinishReason: normalizeStopReason(resp.StopReason),
		Usage: providers.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
		Created: time.Now().Unix(),
	}, nil
}

// applyStreamEvent folds one wire event into the stream state and returns any
// text delta the event carries. done reports that message_stop was reached.
//
// Only content_block_delta events with a text_delta payload produce text.
// Every other event type, including ones added to the API after this package
// was written, is folded into state or skipped, never treated as an error.
func applyStreamEvent(event *AnthropicStreamEvent, state *streamState) (delta string, done bool) {
	switch event.Type {
	case "message_start":
		if event.Message != nil {
			state.id = event.Message.ID
			state.model = event.Message.Model
			if u := event.Message.Usage; u.InputTokens > 0 || u.OutputTokens > 0 {
				state.usage = &providers.TokenUsage{
					PromptTokens:     u.InputTokens,
					CompletionTokens: u.OutputTokens,
					TotalTokens:      u.InputTokens + u.OutputTokens,
				}
			}
		}

	case "content_block_delta":
		if event.Delta != nil && event.Delta.Type == "text_delta" {
			return event.Delta.Text, false
		}

	case "message_delta":
		if event.Delta != nil && event.Delta.StopReason != "" {
			state.finishReason = normalizeStopReason(event.Delta.StopReason)
		}
		if event.Usage != nil {
			prompt := 0
			if state.usage != nil {
				prompt = state.usage.PromptTokens
			}
			state.usage = &providers.TokenUsage{
				PromptTokens:     prompt,
				CompletionTokens: event.Usage.OutputTokens,
				TotalTokens:      prompt + event.Usage.OutputTokens,
			}
		}

	case "message_stop":
		return "", true
	}

	return "", false
}

// streamState tracks identity, finish reason, and usage across stream events.
type streamState struct {
	id           string
	model        string
	finishReason string
	usage        *providers.TokenUsage
	sawStop      bool
}

// normalizeStopReason maps Anthropic stop reasons to provider-agnostic values.
func normalizeStopReason(reason string) string {
	switch reason {
	case "end_turn", "stop_sequence":
		return providers.FinishReasonStop
	case "max_tokens":
		return providers.FinishReasonLength
	default:
		return reason
	}
}
