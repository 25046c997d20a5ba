// Package anthropic implements the Anthropic provider adapter.
//
// This package provides an implementation of the providers.Provider interface
// for Anthropic's Messages API. It supports:
//
//   - Messages API (Claude models)
//   - Streaming responses (Server-Sent Events)
//   - Token usage tracking
//
// # Basic Usage
//
//	config := providers.ProviderConfig{
//	    Name:    "anthropic",
//	    ID:      providers.ProviderAnthropic,
//	    BaseURL: "https://api.anthropic.com",
//	    APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
//	}
//
//	provider, err := anthropic.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	req := &providers.CompletionRequest{
//	    Model: "claude-3-5-sonnet-20241022",
//	    Messages: []providers.Message{
//	        {Role: providers.RoleUser, Content: "Hello!"},
//	    },
//	}
//
//	resp, err := provider.SendCompletion(context.Background(), req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// # Streaming
//
//	req.Stream = true
//	events, err := provider.StreamCompletion(context.Background(), req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for ev := range events {
//	    switch ev.Type {
//	    case providers.EventTextDelta:
//	        fmt.Print(ev.Text)
//	    case providers.EventError:
//	        log.Fatal(ev.Err)
//	    }
//	}
//
// # Wire Format
//
// Anthropic streams typed Server-Sent Events. Text arrives only in
// content_block_delta events whose delta type is text_delta. All other event
// types (message_start, content_block_start, content_block_stop, ping, and
// any types added to the API later) carry bookkeeping or nothing at all; the
// adapter folds them into stream state or skips them, and never treats an
// unrecognized event as an error.
//
// The done event on the channel is emitted only after the wire-level
// message_stop event. A transport that closes early ends the stream without
// a done event, and the deltas already delivered stand as the partial
// response.
//
// # Request Transformation
//
// The adapter transforms a provider-agnostic CompletionRequest to Anthropic's
// format:
//
//   - System messages are extracted and placed in the "system" field
//   - Messages must alternate between user and assistant (enforced by validation)
//   - MaxTokens is required by the API (defaults to 4096 if not provided)
//   - Stop reason is normalized (end_turn -> stop, max_tokens -> length)
//
// # Anthropic-Specific Requirements
//
// Important differences from OpenAI-compatible endpoints:
//
//  1. MaxTokens is required (cannot be 0)
//  2. System messages must be extracted from the messages array
//  3. Messages must alternate between user and assistant
//  4. First message must be from user
//  5. Uses the x-api-key header instead of Authorization: Bearer
//  6. Requires the anthropic-version header
//
// The adapter itself never retries and never classifies; callers route
// failures through providers.Classify and the retry package.
package anthropic
