package catalog

import (
	"mercator-hq/hermes/pkg/providers"
)

// BuiltinModels returns the static model list that is always available,
// regardless of gateway reachability. The returned slice is freshly
// allocated on every call so callers may modify it.
func BuiltinModels() []providers.ModelDescriptor {
	return []providers.ModelDescriptor{
		{
			ID:                  "gpt-4o",
			DisplayName:         "GPT-4o",
			Provider:            providers.ProviderOpenAI,
			ContextWindowTokens: 128000,
		},
		{
			ID:                  "gpt-4o-mini",
			DisplayName:         "GPT-4o mini",
			Provider:            providers.ProviderOpenAI,
			ContextWindowTokens: 128000,
		},
		{
			ID:                  "gpt-4-turbo",
			DisplayName:         "GPT-4 Turbo",
			Provider:            providers.ProviderOpenAI,
			ContextWindowTokens: 128000,
		},
		{
			ID:                  "gpt-3.5-turbo",
			DisplayName:         "GPT-3.5 Turbo",
			Provider:            providers.ProviderOpenAI,
			ContextWindowTokens: 16385,
		},
		{
			ID:                  "claude-3-5-sonnet-20241022",
			DisplayName:         "Claude 3.5 Sonnet",
			Provider:            providers.ProviderAnthropic,
			ContextWindowTokens: 200000,
		},
		{
			ID:                  "claude-3-5-haiku-20241022",
			DisplayName:         "Claude 3.5 Haiku",
			Provider:            providers.ProviderAnthropic,
			ContextWindowTokens: 200000,
		},
		{
			ID:                  "claude-3-opus-20240229",
			DisplayName:         "Claude 3 Opus",
			Provider:            providers.ProviderAnthropic,
			ContextWindowTokens: 200000,
		},
	}
}
