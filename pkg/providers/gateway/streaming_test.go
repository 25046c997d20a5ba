package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	testhelpers "mercator-hq/hermes/internal/providers"
	"mercator-hq/hermes/pkg/providers"
)

func streamingTestProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()

	provider, err := NewProvider(testhelpers.TestConfigWithURL("gateway", providers.ProviderGateway, baseURL))
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Close() })

	return provider
}

func collectGatewayStream(t *testing.T, provider *Provider, model string) ([]providers.StreamEvent, error) {
	t.Helper()

	req := testhelpers.TestStreamingRequest(model,
		testhelpers.TestMessage(providers.RoleUser, "Hello"))

	events, err := provider.StreamCompletion(context.Background(), req)
	if err != nil {
		t.Fatalf("failed to start stream: %v", err)
	}

	return testhelpers.CollectStreamEvents(t, events)
}

// TestGateway_StreamingDelivery verifies deltas arrive in order with a final done event
func TestGateway_StreamingDelivery(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/v1/chat/completions", testhelpers.MockResponse{
		StatusCode: 200,
		StreamRaw: []string{
			"0:Hello",
			"0:, ",
			"0:world!",
			"[DONE]",
		},
	})

	provider := streamingTestProvider(t, mock.URL())

	collected, err := collectGatewayStream(t, provider, "gpt-4")
	if err != nil {
		t.Fatalf("unexpected error in stream: %v", err)
	}

	if got := testhelpers.ConcatenateText(collected); got != "Hello, world!" {
		t.Errorf("expected content %q, got %q", "Hello, world!", got)
	}

	final := testhelpers.FinalEvent(collected)
	if final.Type != providers.EventDone {
		t.Fatalf("expected final event type done, got %q", final.Type)
	}
	if final.FinishReason != providers.FinishReasonStop {
		t.Errorf("expected finish reason %q, got %q", providers.FinishReasonStop, final.FinishReason)
	}
}

// TestGateway_DeltaTakenVerbatim verifies the remainder of a 0: line is not
// trimmed or unescaped.
func TestGateway_DeltaTakenVerbatim(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/v1/chat/completions", testhelpers.MockResponse{
		StatusCode: 200,
		StreamRaw: []string{
			`0: leading space kept`,
			`0:"quotes stay quotes"`,
			"[DONE]",
		},
	})

	provider := streamingTestProvider(t, mock.URL())

	collected, err := collectGatewayStream(t, provider, "gpt-4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := ` leading space kept"quotes stay quotes"`
	if got := testhelpers.ConcatenateText(collected); got != want {
		t.Errorf("expected content %q, got %q", want, got)
	}
}

// TestGateway_ChunkSplitMidLine verifies a line split across network reads
// reassembles to the same text as one delivered whole.
func TestGateway_ChunkSplitMidLine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		flusher := w.(http.Flusher)

		// First write ends mid-line; the delta must not surface until the
		// rest of the line arrives.
		fmt.Fprint(w, "0:Hel")
		flusher.Flush()
		time.Sleep(20 * time.Millisecond)

		fmt.Fprint(w, "lo\n")
		flusher.Flush()
		time.Sleep(20 * time.Millisecond)

		fmt.Fprint(w, "[DONE]\n")
		flusher.Flush()
	}))
	defer server.Close()

	provider := streamingTestProvider(t, server.URL)

	collected, err := collectGatewayStream(t, provider, "gpt-4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var deltas []string
	for _, ev := range collected {
		if ev.Type == providers.EventTextDelta {
			deltas = append(deltas, ev.Text)
		}
	}

	if len(deltas) != 1 || deltas[0] != "Hello" {
		t.Errorf("expected a single delta %q, got %v", "Hello", deltas)
	}

	if final := testhelpers.FinalEvent(collected); final.Type != providers.EventDone {
		t.Errorf("expected done event, got %q", final.Type)
	}
}

// TestGateway_UnrecognizedPrefixesSkipped verifies forward compatibility with
// frame types this client does not know about.
func TestGateway_UnrecognizedPrefixesSkipped(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/v1/chat/completions", testhelpers.MockResponse{
		StatusCode: 200,
		StreamRaw: []string{
			`f:{"messageId":"msg-1"}`,
			"0:Hello",
			`8:[{"annotation":true}]`,
			"0: world",
			`e:{"finishReason":"stop","usage":{"promptTokens":10}}`,
			`d:{"finishReason":"stop"}`,
			"[DONE]",
		},
	})

	provider := streamingTestProvider(t, mock.URL())

	collected, err := collectGatewayStream(t, provider, "gpt-4")
	if err != nil {
		t.Fatalf("expected unknown prefixes to be skipped, got error: %v", err)
	}

	if got := testhelpers.ConcatenateText(collected); got != "Hello world" {
		t.Errorf("expected content %q, got %q", "Hello world", got)
	}

	if final := testhelpers.FinalEvent(collected); final.Type != providers.EventDone {
		t.Errorf("expected done event, got %q", final.Type)
	}
}

// TestGateway_TransportCloseWithoutDone verifies that a stream cut off before
// the [DONE] marker delivers its partial text but no done event.
func TestGateway_TransportCloseWithoutDone(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/v1/chat/completions", testhelpers.MockResponse{
		StatusCode: 200,
		StreamRaw: []string{
			"0:partial",
			"0: answer",
		},
	})

	provider := streamingTestProvider(t, mock.URL())

	collected, err := collectGatewayStream(t, provider, "gpt-4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testhelpers.ConcatenateText(collected); got != "partial answer" {
		t.Errorf("expected partial content %q, got %q", "partial answer", got)
	}

	if final := testhelpers.FinalEvent(collected); final.Type != providers.EventTextDelta {
		t.Errorf("expected stream to end without a done event, final event was %q", final.Type)
	}
}

// TestGateway_StreamingClientDisconnect verifies cancellation closes the transport
func TestGateway_StreamingClientDisconnect(t *testing.T) {
	serverDone := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		flusher := w.(http.Flusher)

		for i := 0; i < 100; i++ {
			select {
			case <-r.Context().Done():
				close(serverDone)
				return
			default:
			}

			fmt.Fprintf(w, "0:chunk%d\n", i)
			flusher.Flush()
			time.Sleep(20 * time.Millisecond)
		}
	}))
	defer server.Close()

	provider := streamingTestProvider(t, server.URL)

	req := testhelpers.TestStreamingRequest("gpt-4",
		testhelpers.TestMessage(providers.RoleUser, "Hello"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := provider.StreamCompletion(ctx, req)
	if err != nil {
		t.Fatalf("failed to start stream: %v", err)
	}

	read := 0
	for ev := range events {
		if ev.Type != providers.EventTextDelta {
			continue
		}
		read++
		if read >= 3 {
			cancel()
			break
		}
	}

	select {
	case <-serverDone:
	case <-time.After(2 * time.Second):
		t.Error("server did not observe client disconnect")
	}
}
