package providers

import (
	"errors"
	"testing"
)

func TestProviderIDValid(t *testing.T) {
	tests := []struct {
		name  string
		id    ProviderID
		valid bool
	}{
		{"openai", ProviderOpenAI, true},
		{"anthropic", ProviderAnthropic, true},
		{"gateway", ProviderGateway, true},
		{"empty", ProviderID(""), false},
		{"unknown", ProviderID("cohere"), false},
		{"case sensitive", ProviderID("OpenAI"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestParseProviderID(t *testing.T) {
	t.Run("known ids", func(t *testing.T) {
		for _, s := range []string{"openai", "anthropic", "gateway"} {
			id, err := ParseProviderID(s)
			if err != nil {
				t.Fatalf("ParseProviderID(%q) returned error: %v", s, err)
			}
			if id.String() != s {
				t.Errorf("ParseProviderID(%q) = %q", s, id)
			}
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := ParseProviderID("mistral")
		if err == nil {
			t.Fatal("expected error for unknown provider id")
		}

		var valErr *ValidationError
		if !errors.As(err, &valErr) {
			t.Fatalf("expected ValidationError, got %T", err)
		}
	})
}

func TestMessageConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant string
		expected string
	}{
		{"system role", RoleSystem, "system"},
		{"user role", RoleUser, "user"},
		{"assistant role", RoleAssistant, "assistant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.constant != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.constant)
			}
		})
	}
}

func TestFinishReasonConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant string
		expected string
	}{
		{"stop reason", FinishReasonStop, "stop"},
		{"length reason", FinishReasonLength, "length"},
		{"content filter reason", FinishReasonContentFilter, "content_filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.constant != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.constant)
			}
		})
	}
}

func TestCompletionRequest(t *testing.T) {
	req := &CompletionRequest{
		Model: "gpt-4",
		Messages: []Message{
			{Role: RoleUser, Content: "Hello"},
		},
		Temperature: 0.7,
		MaxTokens:   100,
		Stream:      false,
	}

	if req.Model != "gpt-4" {
		t.Errorf("expected model %q, got %q", "gpt-4", req.Model)
	}

	if len(req.Messages) != 1 {
		t.Errorf("expected 1 message, got %d", len(req.Messages))
	}

	if req.Messages[0].Role != RoleUser {
		t.Errorf("expected role %q, got %q", RoleUser, req.Messages[0].Role)
	}

	if req.Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %f", req.Temperature)
	}

	if req.MaxTokens != 100 {
		t.Errorf("expected max_tokens 100, got %d", req.MaxTokens)
	}

	if req.Stream {
		t.Error("expected stream false, got true")
	}
}

func TestStreamEventConstructors(t *testing.T) {
	t.Run("text delta", func(t *testing.T) {
		ev := TextDelta("Hello")

		if ev.Type != EventTextDelta {
			t.Errorf("expected type %q, got %q", EventTextDelta, ev.Type)
		}
		if ev.Text != "Hello" {
			t.Errorf("expected text %q, got %q", "Hello", ev.Text)
		}
		if ev.Err != nil {
			t.Errorf("expected no error, got %v", ev.Err)
		}
	})

	t.Run("done", func(t *testing.T) {
		usage := &TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}
		ev := Done(FinishReasonStop, usage)

		if ev.Type != EventDone {
			t.Errorf("expected type %q, got %q", EventDone, ev.Type)
		}
		if ev.FinishReason != FinishReasonStop {
			t.Errorf("expected finish reason %q, got %q", FinishReasonStop, ev.FinishReason)
		}
		if ev.Usage == nil || ev.Usage.TotalTokens != 15 {
			t.Errorf("expected usage with 15 total tokens, got %+v", ev.Usage)
		}
	})

	t.Run("error", func(t *testing.T) {
		cause := errors.New("boom")
		ev := ErrorEvent(cause)

		if ev.Type != EventError {
			t.Errorf("expected type %q, got %q", EventError, ev.Type)
		}
		if !errors.Is(ev.Err, cause) {
			t.Errorf("expected wrapped cause, got %v", ev.Err)
		}
	})
}

func TestModelDescriptor(t *testing.T) {
	desc := ModelDescriptor{
		ID:                  "claude-3-5-sonnet-20241022",
		DisplayName:         "Claude 3.5 Sonnet",
		Provider:            ProviderAnthropic,
		ContextWindowTokens: 200000,
	}

	if desc.Provider != ProviderAnthropic {
		t.Errorf("expected provider %q, got %q", ProviderAnthropic, desc.Provider)
	}

	if desc.ContextWindowTokens != 200000 {
		t.Errorf("expected context window 200000, got %d", desc.ContextWindowTokens)
	}
}

func TestProviderHealth(t *testing.T) {
	health := ProviderHealth{
		IsHealthy:           true,
		ConsecutiveFailures: 0,
		TotalRequests:       100,
		FailedRequests:      5,
	}

	if !health.IsHealthy {
		t.Error("expected healthy provider")
	}

	if health.ConsecutiveFailures != 0 {
		t.Errorf("expected 0 consecutive failures, got %d", health.ConsecutiveFailures)
	}

	successRate := float64(health.TotalRequests-health.FailedRequests) / float64(health.TotalRequests)
	if successRate != 0.95 {
		t.Errorf("expected success rate 0.95, got %.2f", successRate)
	}
}
