// Package openai implements the OpenAI provider adapter.
//
// This package provides an implementation of the providers.Provider interface
// for OpenAI's chat completions API. It supports:
//
//   - Chat completions
//   - Streaming responses (newline-delimited JSON chunks)
//   - Token usage tracking
//
// # Basic Usage
//
//	config := providers.ProviderConfig{
//	    Name:    "openai",
//	    ID:      providers.ProviderOpenAI,
//	    BaseURL: "https://api.openai.com",
//	    APIKey:  os.Getenv("OPENAI_API_KEY"),
//	}
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	req := &providers.CompletionRequest{
//	    Model: "gpt-4",
//	    Messages: []providers.Message{
//	        {Role: "user", Content: "Hello!"},
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
// The streamed response is a sequence of newline-delimited JSON chunks, each
// carrying the next text fragment at choices[0].delta.content. The stream ends
// when the transport closes; an optional "[DONE]" sentinel line may arrive
// first and is treated as stream end, never as content. Malformed chunk lines
// are skipped rather than aborting the stream.
//
// # Error Handling
//
// HTTP errors are mapped to the common typed errors (401/403 -> AuthError,
// 429 -> RateLimitError, 5xx -> ProviderError). The adapter itself never
// retries and never classifies; callers route failures through
// providers.Classify and the retry package.
package openai
