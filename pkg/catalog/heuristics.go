package catalog

import (
	"strings"
)

// DefaultContextWindow is the conservative fallback for model ids no
// heuristic recognizes. Unrecognized future models get this value rather
// than a guess; the inaccuracy is accepted.
const DefaultContextWindow = 4096

// contextWindowRules maps model-id prefixes to context-window sizes. Rules
// are ordered most specific first and the first matching prefix wins.
var contextWindowRules = []struct {
	prefix string
	tokens int
}{
	{"gpt-4o", 128000},
	{"gpt-4-turbo", 128000},
	{"gpt-4-32k", 32768},
	{"gpt-4", 8192},
	{"gpt-3.5-turbo", 16385},
	{"claude-3", 200000},
	{"claude-2", 100000},
}

// contextWindowFor estimates a model's context window from its id.
func contextWindowFor(id string) int {
	lower := strings.ToLower(id)
	for _, rule := range contextWindowRules {
		if strings.HasPrefix(lower, rule.prefix) {
			return rule.tokens
		}
	}
	return DefaultContextWindow
}

// displayNameFor derives a human-readable name from a model id, for entries
// discovered at runtime that carry no display metadata. Dashes and
// underscores become spaces and each word is capitalized, with a few
// initialisms special-cased.
func displayNameFor(id string) string {
	parts := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_'
	})

	for i, part := range parts {
		switch strings.ToLower(part) {
		case "gpt":
			parts[i] = "GPT"
		case "ai":
			parts[i] = "AI"
		case "llm":
			parts[i] = "LLM"
		default:
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}

	if len(parts) == 0 {
		return id
	}
	return strings.Join(parts, " ")
}
