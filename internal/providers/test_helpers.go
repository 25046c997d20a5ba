package providers

import (
	"errors"
	"testing"
	"time"

	"mercator-hq/hermes/pkg/providers"
)

// TestConfig returns a test provider configuration.
func TestConfig(name string, id providers.ProviderID) providers.ProviderConfig {
	return providers.ProviderConfig{
		Name:                name,
		ID:                  id,
		BaseURL:             "http://localhost:8080",
		APIKey:              "test-key",
		Timeout:             5 * time.Second,
		HealthCheckInterval: time.Second,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     30 * time.Second,
	}
}

// TestConfigWithURL returns a test config with a specific base URL.
func TestConfigWithURL(name string, id providers.ProviderID, baseURL string) providers.ProviderConfig {
	config := TestConfig(name, id)
	config.BaseURL = baseURL
	return config
}

// TestMessage creates a test message.
func TestMessage(role, content string) providers.Message {
	return providers.Message{
		Role:    role,
		Content: content,
	}
}

// TestCompletionRequest creates a test completion request.
func TestCompletionRequest(model string, messages ...providers.Message) *providers.CompletionRequest {
	return &providers.CompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   100,
	}
}

// TestStreamingRequest creates a test streaming request.
func TestStreamingRequest(model string, messages ...providers.Message) *providers.CompletionRequest {
	req := TestCompletionRequest(model, messages...)
	req.Stream = true
	return req
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertErrorType fails the test if err does not match the expected typed
// error anywhere in its chain.
func AssertErrorType(t *testing.T, err error, expectedType interface{}) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	switch expectedType.(type) {
	case *providers.AuthError:
		var target *providers.AuthError
		if !errors.As(err, &target) {
			t.Fatalf("expected AuthError, got %T: %v", err, err)
		}
	case *providers.RateLimitError:
		var target *providers.RateLimitError
		if !errors.As(err, &target) {
			t.Fatalf("expected RateLimitError, got %T: %v", err, err)
		}
	case *providers.TimeoutError:
		var target *providers.TimeoutError
		if !errors.As(err, &target) {
			t.Fatalf("expected TimeoutError, got %T: %v", err, err)
		}
	case *providers.ProviderError:
		var target *providers.ProviderError
		if !errors.As(err, &target) {
			t.Fatalf("expected ProviderError, got %T: %v", err, err)
		}
	case *providers.ParseError:
		var target *providers.ParseError
		if !errors.As(err, &target) {
			t.Fatalf("expected ParseError, got %T: %v", err, err)
		}
	case *providers.ValidationError:
		var target *providers.ValidationError
		if !errors.As(err, &target) {
			t.Fatalf("expected ValidationError, got %T: %v", err, err)
		}
	default:
		t.Fatalf("unknown error type: %T", expectedType)
	}
}

// AssertEqual fails the test if got != expected.
func AssertEqual(t *testing.T, got, expected interface{}) {
	t.Helper()
	if got != expected {
		t.Fatalf("expected %v, got %v", expected, got)
	}
}

// CollectStreamEvents drains a stream channel, returning the events received
// before the first error event (whose error is returned separately) or
// channel close.
func CollectStreamEvents(t *testing.T, events <-chan providers.StreamEvent) ([]providers.StreamEvent, error) {
	t.Helper()

	var collected []providers.StreamEvent
	for ev := range events {
		if ev.Type == providers.EventError {
			return collected, ev.Err
		}
		collected = append(collected, ev)
	}

	return collected, nil
}

// ConcatenateText concatenates the text from all delta events.
func ConcatenateText(events []providers.StreamEvent) string {
	var result string
	for _, ev := range events {
		if ev.Type == providers.EventTextDelta {
			result += ev.Text
		}
	}
	return result
}

// FinalEvent returns the last event of a collected sequence, or a zero event
// when the sequence is empty.
func FinalEvent(events []providers.StreamEvent) providers.StreamEvent {
	if len(events) == 0 {
		return providers.StreamEvent{}
	}
	return events[len(events)-1]
}

// WaitForCondition waits for a condition to become true within a timeout.
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if condition() {
			return
		}

		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %s: %s", timeout, message)
		}

		<-ticker.C
	}
}
