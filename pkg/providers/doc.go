// Package providers implements a unified abstraction layer for LLM providers.
//
// # Overview
//
// The providers package gives the rest of Hermes one surface over
// heterogeneous vendor chat-completion APIs. It defines the provider-agnostic
// request/response/event types, the closed ProviderID set that selects a wire
// adapter, the typed error taxonomy with its keyword classifier, and the base
// HTTP client that adapters build on.
//
// # Architecture
//
// The package is organized into several layers:
//
//  1. Provider Interface - the contract all adapters implement
//  2. Base HTTP Provider - shared HTTP client logic (connection pooling, typed status errors, health tracking)
//  3. Provider Adapters - wire-format implementations (openai, anthropic, gateway subpackages)
//  4. Error Classifier - maps any failure into a small retry-aware taxonomy
//
// # Basic Usage
//
// Create a single provider:
//
//	config := providers.ProviderConfig{
//	    Name:    "openai",
//	    ID:      providers.ProviderOpenAI,
//	    BaseURL: "https://api.openai.com/v1",
//	    APIKey:  os.Getenv("OPENAI_API_KEY"),
//	    Timeout: 60 * time.Second,
//	}
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
// # Streaming
//
// Streaming calls yield a channel of normalized events:
//
//	events, err := provider.StreamCompletion(ctx, req)
//	if err != nil {
//	    return err
//	}
//	for ev := range events {
//	    switch ev.Type {
//	    case providers.EventTextDelta:
//	        fmt.Print(ev.Text)
//	    case providers.EventDone:
//	        fmt.Println()
//	    case providers.EventError:
//	        return ev.Err
//	    }
//	}
//
// Events arrive strictly in wire order. The channel closes after the terminal
// event; a close without one means the transport ended early and the text
// delivered so far is the message.
//
// # Error Handling
//
// Adapters return failures unwrapped. The Classify function is the single
// place that interprets them:
//
//	resp, err := provider.SendCompletion(ctx, req)
//	if err != nil {
//	    ce := providers.Classify(err)
//	    fmt.Printf("%s: %s (%s)\n", ce.Code, ce.Message, ce.SuggestedAction)
//	    if ce.Retryable {
//	        // worth re-issuing
//	    }
//	}
//
// The typed error structs (AuthError, RateLimitError, TimeoutError, ...)
// classify directly; foreign errors fall back to prioritized keyword matching
// because upstream SDKs share no structured error schema.
//
// # Thread Safety
//
// All provider implementations are safe for concurrent use from multiple
// goroutines.
package providers
