// Package gateway implements the provider adapter for a unified LLM gateway.
//
// A gateway (such as a LiteLLM deployment) fronts many LLM vendors behind a
// single OpenAI-compatible request surface and issues virtual keys in place
// of raw vendor credentials. This package provides an implementation of the
// providers.Provider interface for such a gateway, plus model discovery
// through the providers.ModelLister interface.
//
// # Basic Usage
//
//	config := providers.ProviderConfig{
//	    Name:    "gateway",
//	    ID:      providers.ProviderGateway,
//	    BaseURL: "http://localhost:4000",
//	    APIKey:  os.Getenv("GATEWAY_API_KEY"), // optional
//	    Tags:    []string{"team-a"},
//	}
//
//	provider, err := gateway.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	models, err := provider.ListModels(context.Background())
//
// # Wire Format
//
// Requests POST an OpenAI-compatible body. An Authorization: Bearer header is
// attached only when a virtual key is configured, and routing hints travel in
// the x-gateway-tags header as a comma-separated list.
//
// Responses use the gateway's line-oriented stream protocol:
//
//	0:Hello          <- a raw text delta, everything after the prefix
//	0: world         <- deltas are taken verbatim, whitespace included
//	x:{"some":"new"} <- unrecognized prefixes are silently skipped
//	[DONE]           <- normal end of stream
//
// Deltas are not JSON-encoded; the remainder of a 0: line is the text. Lines
// with prefixes this package does not know about are skipped so the protocol
// can grow without breaking older clients. The non-streaming SendCompletion
// reads the same stream and concatenates every delta before returning.
//
// A done event is emitted only after the [DONE] marker. A transport that
// closes without it ends the stream with whatever text was delivered standing
// as a partial response.
//
// The adapter itself never retries and never classifies; callers route
// failures through providers.Classify and the retry package.
package gateway
