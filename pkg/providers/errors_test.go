package providers

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestProviderError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := &ProviderError{
			Provider:   "openai",
			StatusCode: 500,
			Message:    "internal error",
		}

		expected := `provider "openai" error (status 500): internal error`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("without status code", func(t *testing.T) {
		err := &ProviderError{
			Provider: "openai",
			Message:  "connection failed",
		}

		expected := `provider "openai" error: connection failed`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := &ProviderError{
			Provider: "openai",
			Message:  "request failed",
			Cause:    cause,
		}

		if !errors.Is(err, cause) {
			t.Error("expected error to wrap cause")
		}
	})
}

func TestAuthError(t *testing.T) {
	err := &AuthError{Provider: "anthropic", Message: "invalid x-api-key"}

	expected := `provider "anthropic" authentication failed: invalid x-api-key`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestRateLimitError(t *testing.T) {
	t.Run("with retry after", func(t *testing.T) {
		err := &RateLimitError{
			Provider:   "openai",
			RetryAfter: 30 * time.Second,
			Message:    "slow down",
		}

		if !strings.Contains(err.Error(), "retry after 30s") {
			t.Errorf("expected retry-after in message, got %q", err.Error())
		}
		if !strings.Contains(err.Error(), "rate limit exceeded") {
			t.Errorf("expected rate limit text, got %q", err.Error())
		}
	})

	t.Run("without retry after", func(t *testing.T) {
		err := &RateLimitError{Provider: "openai", Message: "slow down"}

		if strings.Contains(err.Error(), "retry after") {
			t.Errorf("unexpected retry-after in message: %q", err.Error())
		}
	})
}

func TestTimeoutError(t *testing.T) {
	err := &TimeoutError{Provider: "gateway", Timeout: 10 * time.Second}

	expected := `provider "gateway" request timed out after 10s`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestParseError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &ParseError{
		Provider:    "gateway",
		RawResponse: `{"truncated`,
		Cause:       cause,
	}

	if !strings.Contains(err.Error(), "response parse error") {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected error to wrap cause")
	}
}

func TestModelNotFoundError(t *testing.T) {
	err := &ModelNotFoundError{Provider: "gateway", Model: "gpt-9"}

	expected := `provider "gateway" model "gpt-9" not found`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}

	// The message must also satisfy the keyword classifier's model rule.
	ce := Classify(err)
	if ce.Code != CodeModel {
		t.Errorf("ModelNotFoundError classified as %s, want %s", ce.Code, CodeModel)
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "messages", Message: "at least one message is required"}

	expected := `validation error for field "messages": at least one message is required`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestStreamError(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection reset by peer")
		err := &StreamError{Provider: "openai", Message: "read failed", Cause: cause}

		if !strings.Contains(err.Error(), "stream error") {
			t.Errorf("unexpected message: %q", err.Error())
		}
		if !errors.Is(err, cause) {
			t.Error("expected error to wrap cause")
		}
	})

	t.Run("without cause", func(t *testing.T) {
		err := &StreamError{Provider: "openai", Message: "read failed"}

		expected := `provider "openai" stream error: read failed`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Provider: "gateway", Field: "base_url", Message: "base URL is required"}

	if !strings.Contains(err.Error(), `"gateway"`) || !strings.Contains(err.Error(), `"base_url"`) {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestTypedErrorsSurviveWrapping(t *testing.T) {
	inner := &RateLimitError{Provider: "openai", RetryAfter: time.Second}
	wrapped := fmt.Errorf("completion failed: %w", inner)

	var rateErr *RateLimitError
	if !errors.As(wrapped, &rateErr) {
		t.Fatal("expected errors.As to find RateLimitError through wrapping")
	}
	if rateErr.RetryAfter != time.Second {
		t.Errorf("RetryAfter = %v, want 1s", rateErr.RetryAfter)
	}
}
