package providers

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ErrorCode identifies a failure category in the classification taxonomy.
type ErrorCode string

const (
	// CodeNetwork is a connectivity failure (DNS, refused connection, reset).
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeAuth is a rejected or missing credential.
	CodeAuth ErrorCode = "AUTH_ERROR"

	// CodeRateLimit is a provider-side throttle (HTTP 429).
	CodeRateLimit ErrorCode = "RATE_LIMIT"

	// CodeModel is a request for a model the provider does not serve.
	CodeModel ErrorCode = "MODEL_ERROR"

	// CodeTimeout is a request that exceeded its time bound.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeServer is a provider-side failure (HTTP 5xx).
	CodeServer ErrorCode = "SERVER_ERROR"

	// CodeContextLength is a conversation that no longer fits the model's
	// context window.
	CodeContextLength ErrorCode = "CONTEXT_LENGTH"

	// CodeValidation is a locally rejected request that never reached the
	// network (empty message list, unknown provider id).
	CodeValidation ErrorCode = "VALIDATION"

	// CodeUnknown is everything the taxonomy cannot place.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// ClassifiedError is the caller-facing interpretation of a raw failure. It is
// derived fresh from each error and never stored; the original error keeps
// propagating unchanged while this value drives retry decisions and the
// human-readable failure surface.
type ClassifiedError struct {
	// Message is the raw error text
	Message string `json:"message"`

	// Code is the taxonomy category
	Code ErrorCode `json:"code"`

	// Retryable reports whether re-issuing the same call can succeed
	Retryable bool `json:"retryable"`

	// SuggestedAction is a short hint for the user
	SuggestedAction string `json:"suggested_action"`
}

// classifyRule matches lower-cased error text against keyword signatures.
// A rule matches when at least one "any" keyword is present and every "all"
// keyword is present.
type classifyRule struct {
	code      ErrorCode
	retryable bool
	action    string
	any       []string
	all       []string
}

func (r *classifyRule) matches(lower string) bool {
	for _, kw := range r.all {
		if !strings.Contains(lower, kw) {
			return false
		}
	}
	if len(r.any) == 0 {
		return true
	}
	for _, kw := range r.any {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// classifyRules is consulted in order; the first match wins. The ordering is
// deliberate: "network timeout" is a network error, "model rate limited" is a
// rate limit.
var classifyRules = []classifyRule{
	{code: CodeNetwork, retryable: true, action: "check connection",
		any: []string{"fetch", "network"}},
	{code: CodeAuth, retryable: false, action: "check API keys",
		any: []string{"api key", "unauthorized", "401"}},
	{code: CodeRateLimit, retryable: true, action: "wait and retry",
		any: []string{"rate limit", "429", "too many requests"}},
	{code: CodeModel, retryable: false, action: "pick a different model",
		all: []string{"model"}, any: []string{"404", "not found"}},
	{code: CodeTimeout, retryable: true, action: "retry or shorten input",
		any: []string{"timeout", "timed out"}},
	{code: CodeServer, retryable: true, action: "retry later",
		any: []string{"500", "server error"}},
	{code: CodeContextLength, retryable: false, action: "start a new conversation",
		any: []string{"context", "token", "too long"}},
}

// unknownDefault is returned for nil errors and anything no rule matches.
func unknownDefault(message string) ClassifiedError {
	return ClassifiedError{
		Message:         message,
		Code:            CodeUnknown,
		Retryable:       true,
		SuggestedAction: "try again",
	}
}

// Classify maps a raw failure into the classification taxonomy. It is a pure
// function: no side effects, never panics, and a nil error yields the UNKNOWN
// default.
//
// Typed errors produced by this package classify directly. Everything else
// falls back to prioritized keyword matching over the lower-cased error text,
// because upstream errors from unrelated SDKs and transports share no
// structured form worth parsing.
func Classify(err error) ClassifiedError {
	if err == nil {
		return unknownDefault("unknown error")
	}

	if ce, ok := classifyTyped(err); ok {
		return ce
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	for i := range classifyRules {
		if classifyRules[i].matches(lower) {
			return ClassifiedError{
				Message:         msg,
				Code:            classifyRules[i].code,
				Retryable:       classifyRules[i].retryable,
				SuggestedAction: classifyRules[i].action,
			}
		}
	}

	return unknownDefault(msg)
}

// classifyTyped handles errors this codebase constructs itself, plus the
// standard library's context and net failures whose text would otherwise
// mislead the keyword table ("context canceled" is not a context-length
// problem).
func classifyTyped(err error) (ClassifiedError, bool) {
	msg := err.Error()

	var (
		validationErr *ValidationError
		authErr       *AuthError
		rateErr       *RateLimitError
		modelErr      *ModelNotFoundError
		timeoutErr    *TimeoutError
	)

	switch {
	case errors.As(err, &validationErr):
		return ClassifiedError{Message: msg, Code: CodeValidation, Retryable: false,
			SuggestedAction: "fix the request"}, true

	case errors.As(err, &authErr):
		return ClassifiedError{Message: msg, Code: CodeAuth, Retryable: false,
			SuggestedAction: "check API keys"}, true

	case errors.As(err, &rateErr):
		return ClassifiedError{Message: msg, Code: CodeRateLimit, Retryable: true,
			SuggestedAction: "wait and retry"}, true

	case errors.As(err, &modelErr):
		return ClassifiedError{Message: msg, Code: CodeModel, Retryable: false,
			SuggestedAction: "pick a different model"}, true

	case errors.As(err, &timeoutErr):
		return ClassifiedError{Message: msg, Code: CodeTimeout, Retryable: true,
			SuggestedAction: "retry or shorten input"}, true

	case errors.Is(err, context.DeadlineExceeded):
		return ClassifiedError{Message: msg, Code: CodeTimeout, Retryable: true,
			SuggestedAction: "retry or shorten input"}, true

	case errors.Is(err, context.Canceled):
		return unknownDefault(msg), true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ClassifiedError{Message: msg, Code: CodeTimeout, Retryable: true,
				SuggestedAction: "retry or shorten input"}, true
		}
		return ClassifiedError{Message: msg, Code: CodeNetwork, Retryable: true,
			SuggestedAction: "check connection"}, true
	}

	return ClassifiedError{}, false
}
