// Hermes is a multi-provider LLM chat client for the command line.
//
// It talks to OpenAI, Anthropic, and AI gateway chat endpoints through one
// provider abstraction, providing:
//   - Streaming and non-streaming chat completions
//   - Typed error classification with automatic retry and backoff
//   - A merged model catalog with gateway discovery and TTL caching
//   - Local SQLite chat history with retention pruning
//
// Usage:
//
//	# Ask a question with the default provider and model
//	hermes chat "explain goroutines in one paragraph"
//
//	# Stream a response from a specific provider
//	hermes chat --stream -p anthropic -m claude-sonnet-4-5 "write a haiku"
//
//	# List the model catalog, forcing fresh discovery
//	hermes models --refresh
//
//	# Check provider health
//	hermes models --health
//
//	# Validate a configuration file
//	hermes validate --config config.yaml
//
//	# Show version information
//	hermes version
//
// For complete documentation, see: https://github.com/mercator-hq/hermes
package main

func main() {
	Execute()
}
