package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mercator-hq/hermes/pkg/config"
	"mercator-hq/hermes/pkg/providers"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "nil error",
			err:  nil,
			want: ExitSuccess,
		},
		{
			name: "unclassified error",
			err:  errors.New("something odd happened"),
			want: ExitError,
		},
		{
			name: "canceled context",
			err:  context.Canceled,
			want: ExitInterrupted,
		},
		{
			name: "wrapped cancellation",
			err:  fmt.Errorf("stream interrupted: %w", context.Canceled),
			want: ExitInterrupted,
		},
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: ExitTimeout,
		},
		{
			name: "cli config error",
			err:  NewConfigError("providers.openai.base_url", "must be set"),
			want: ExitConfig,
		},
		{
			name: "config validation report",
			err: config.ValidationError{Errors: []config.FieldError{
				{Field: "retry.max_attempts", Message: "must be at least 1"},
			}},
			want: ExitConfig,
		},
		{
			name: "provider config error",
			err:  &providers.ConfigError{Provider: "gateway", Field: "base_url", Message: "required"},
			want: ExitConfig,
		},
		{
			name: "auth error",
			err:  &providers.AuthError{Provider: "openai", Message: "invalid api key"},
			want: ExitAuth,
		},
		{
			name: "request validation",
			err:  &providers.ValidationError{Field: "messages", Message: "must not be empty"},
			want: ExitUsage,
		},
		{
			name: "model not found",
			err:  &providers.ModelNotFoundError{Provider: "openai", Model: "gpt-99"},
			want: ExitUsage,
		},
		{
			name: "context window exceeded",
			err:  errors.New("conversation exceeds the context window"),
			want: ExitUsage,
		},
		{
			name: "rate limited",
			err:  &providers.RateLimitError{Provider: "anthropic", RetryAfter: time.Second},
			want: ExitUnavailable,
		},
		{
			name: "server error text",
			err:  errors.New("HTTP 500 from upstream"),
			want: ExitUnavailable,
		},
		{
			name: "network error text",
			err:  errors.New("network unreachable"),
			want: ExitUnavailable,
		},
		{
			name: "provider timeout",
			err:  &providers.TimeoutError{Provider: "openai", Timeout: 30 * time.Second},
			want: ExitTimeout,
		},
		{
			name: "classification digs through command error",
			err:  NewCommandError("chat", &providers.AuthError{Provider: "gateway", Message: "expired token"}),
			want: ExitAuth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "providers.anthropic.api_key_env",
		Message: "missing required field",
	}

	expected := "config error in providers.anthropic.api_key_env: missing required field"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("field", "message")
	if err.Field != "field" {
		t.Errorf("Field = %q, want %q", err.Field, "field")
	}
	if err.Message != "message" {
		t.Errorf("Message = %q, want %q", err.Message, "message")
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := &CommandError{
		Command: "chat",
		Err:     underlyingErr,
	}

	expected := "command chat failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := &CommandError{
		Command: "chat",
		Err:     underlyingErr,
	}

	unwrapped := err.Unwrap()
	if unwrapped != underlyingErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, underlyingErr)
	}

	// Test with errors.Is
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestNewCommandError(t *testing.T) {
	underlyingErr := errors.New("test")
	err := NewCommandError("models", underlyingErr)

	if err.Command != "models" {
		t.Errorf("Command = %q, want %q", err.Command, "models")
	}
	if err.Err != underlyingErr {
		t.Errorf("Err = %v, want %v", err.Err, underlyingErr)
	}
}
