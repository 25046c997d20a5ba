package logging

import (
	"regexp"
	"strings"

	"mercator-hq/hermes/pkg/config"
)

// Redactor masks secrets (API keys, tokens, Authorization headers) in log
// fields.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in secret pattern names.
const (
	PatternAPIKey      = "api_key"
	PatternBearerToken = "bearer_token"
	PatternPassword    = "password"
)

// NewRedactor creates a Redactor with the built-in secret patterns plus any
// custom patterns. Custom patterns with invalid regular expressions are
// skipped; config validation rejects them before they reach this point.
func NewRedactor(customPatterns []config.RedactPattern) *Redactor {
	r := &Redactor{}
	r.addDefaultPatterns()

	for _, p := range customPatterns {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		})
	}

	return r
}

// addDefaultPatterns adds the built-in secret redaction patterns.
func (r *Redactor) addDefaultPatterns() {
	defaults := []struct {
		name        string
		regex       string
		replacement string
	}{
		// Provider API keys: OpenAI/Anthropic sk- prefixes and generic
		// api_key assignments.
		{
			name:        PatternAPIKey,
			regex:       `(sk-[a-zA-Z0-9_-]+|api[-_]?key[-_:=]\s*[a-zA-Z0-9_-]+)`,
			replacement: "sk-***",
		},

		// Authorization header values
		{
			name:        PatternBearerToken,
			regex:       `(?i)(Bearer|Basic)\s+[a-zA-Z0-9\-._~+/]+=*`,
			replacement: "$1 ***",
		},

		// Generic password fields
		{
			name:        PatternPassword,
			regex:       `(password|passwd|pwd)[:=]\s*\S+`,
			replacement: "$1: ***",
		},
	}

	for _, p := range defaults {
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}
}

// RedactString masks every secret pattern match in the given string.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	redacted := value
	for _, pattern := range r.patterns {
		redacted = pattern.regex.ReplaceAllString(redacted, pattern.replacement)
	}

	return redacted
}

// IsSensitiveKey reports whether an attribute key names a secret. Values
// under such keys are masked entirely rather than pattern-matched.
func (r *Redactor) IsSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	sensitiveKeys := []string{
		"password", "passwd", "pwd",
		"secret", "token", "api_key", "apikey",
		"authorization", "credential",
		"private_key", "privatekey",
	}

	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}

	return false
}

// MaskValue masks a sensitive value completely, keeping a short prefix of
// longer values so distinct keys remain distinguishable in logs.
func MaskValue(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "***"
	}
	return value[:4] + "***"
}

// RedactAPIKey redacts an API key, keeping only a prefix.
func RedactAPIKey(apiKey string) string {
	return MaskValue(apiKey)
}
