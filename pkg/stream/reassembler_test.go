package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"mercator-hq/hermes/pkg/providers"
)

// eventChannel builds a closed channel preloaded with the given events.
func eventChannel(events ...providers.StreamEvent) <-chan providers.StreamEvent {
	ch := make(chan providers.StreamEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}

func TestReassembler_PrefixCallbacks(t *testing.T) {
	var updates []string
	r := New(func(content string) {
		updates = append(updates, content)
	})

	events := eventChannel(
		providers.TextDelta("Hel"),
		providers.TextDelta("lo, "),
		providers.TextDelta("world"),
		providers.Done(providers.FinishReasonStop, nil),
	)

	result, err := r.Consume(context.Background(), events)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}

	if result.Content != "Hello, world" {
		t.Errorf("expected content %q, got %q", "Hello, world", result.Content)
	}
	if !result.Complete {
		t.Error("expected result to be complete")
	}
	if result.FinishReason != providers.FinishReasonStop {
		t.Errorf("expected finish reason %q, got %q", providers.FinishReasonStop, result.FinishReason)
	}

	// Every intermediate prefix must be observed, in order.
	want := []string{"Hel", "Hello, ", "Hello, world"}
	if len(updates) != len(want) {
		t.Fatalf("expected %d updates, got %d: %v", len(want), len(updates), updates)
	}
	for i, w := range want {
		if updates[i] != w {
			t.Errorf("update %d: expected %q, got %q", i, w, updates[i])
		}
	}
}

func TestReassembler_NilCallback(t *testing.T) {
	r := New(nil)

	events := eventChannel(
		providers.TextDelta("no"),
		providers.TextDelta(" display"),
		providers.Done(providers.FinishReasonStop, nil),
	)

	result, err := r.Consume(context.Background(), events)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if result.Content != "no display" {
		t.Errorf("expected content %q, got %q", "no display", result.Content)
	}
}

func TestReassembler_PartialOnChannelClose(t *testing.T) {
	r := New(nil)

	// The channel closes without a done event, as happens when the
	// transport drops mid-stream.
	events := eventChannel(
		providers.TextDelta("partial "),
		providers.TextDelta("answer"),
	)

	result, err := r.Consume(context.Background(), events)
	if err != nil {
		t.Fatalf("expected partial result without error, got %v", err)
	}

	if result.Content != "partial answer" {
		t.Errorf("expected partial content to be preserved, got %q", result.Content)
	}
	if result.Complete {
		t.Error("expected result to be marked incomplete")
	}
}

func TestReassembler_PartialOnErrorEvent(t *testing.T) {
	r := New(nil)

	streamErr := &providers.StreamError{Provider: "openai", Message: "connection reset"}
	events := eventChannel(
		providers.TextDelta("before "),
		providers.TextDelta("failure"),
		providers.ErrorEvent(streamErr),
	)

	result, err := r.Consume(context.Background(), events)
	if err == nil {
		t.Fatal("expected the stream error to propagate")
	}

	// The error must come through unwrapped so the caller can classify it.
	var got *providers.StreamError
	if !errors.As(err, &got) {
		t.Fatalf("expected StreamError, got %T: %v", err, err)
	}
	if !errors.Is(err, streamErr) {
		t.Error("expected the original error object to be returned")
	}

	if result == nil {
		t.Fatal("expected a result carrying partial content")
	}
	if result.Content != "before failure" {
		t.Errorf("expected partial content %q, got %q", "before failure", result.Content)
	}
	if result.Complete {
		t.Error("expected result to be marked incomplete")
	}
}

func TestReassembler_DoneCarriesUsage(t *testing.T) {
	r := New(nil)

	usage := &providers.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}
	events := eventChannel(
		providers.TextDelta("hi"),
		providers.Done(providers.FinishReasonStop, usage),
	)

	result, err := r.Consume(context.Background(), events)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}

	if result.Usage == nil {
		t.Fatal("expected usage on result")
	}
	if result.Usage.TotalTokens != 15 {
		t.Errorf("expected total tokens 15, got %d", result.Usage.TotalTokens)
	}
}

func TestReassembler_ContextCanceled(t *testing.T) {
	r := New(nil)

	// An open channel that delivers one delta and then stalls.
	events := make(chan providers.StreamEvent, 1)
	events <- providers.TextDelta("stuck")

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	var result *Result
	var err error
	go func() {
		defer close(done)
		result, err = r.Consume(ctx, events)
	}()

	// Give the consumer time to drain the buffered delta, then cancel.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Consume did not return after cancellation")
	}

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.Content != "stuck" {
		t.Errorf("expected partial content %q to survive cancellation, got %+v", "stuck", result)
	}
}

func TestReassembler_AppendReturnsRunningContent(t *testing.T) {
	r := New(nil)

	if got := r.Append("a"); got != "a" {
		t.Errorf("expected %q, got %q", "a", got)
	}
	if got := r.Append("bc"); got != "abc" {
		t.Errorf("expected %q, got %q", "abc", got)
	}
	if r.Content() != "abc" {
		t.Errorf("expected content %q, got %q", "abc", r.Content())
	}
}
