package stream

import (
	"context"
	"strings"

	"mercator-hq/hermes/pkg/providers"
)

// Reassembler accumulates text deltas into a single running message. The
// accumulator is append-only for the lifetime of one stream: deltas are
// concatenated in arrival order and never rewritten or reordered.
//
// An optional update callback observes every intermediate state. It runs
// synchronously as each delta is appended, so callers see each prefix of the
// final message exactly once, in order, throttled naturally to network
// delivery cadence.
//
// A Reassembler is not safe for concurrent use. Each stream owns exactly one.
type Reassembler struct {
	builder  strings.Builder
	onUpdate func(content string)
}

// New creates a Reassembler. onUpdate may be nil when no live display is
// attached.
func New(onUpdate func(content string)) *Reassembler {
	return &Reassembler{onUpdate: onUpdate}
}

// Append adds one delta to the accumulator, invokes the update callback with
// the new running content, and returns it.
func (r *Reassembler) Append(text string) string {
	r.builder.WriteString(text)
	content := r.builder.String()
	if r.onUpdate != nil {
		r.onUpdate(content)
	}
	return content
}

// Content returns the accumulated message so far.
func (r *Reassembler) Content() string {
	return r.builder.String()
}

// Result is the outcome of consuming one stream.
type Result struct {
	// Content is the accumulated message. On failure it holds whatever was
	// received before the stream broke.
	Content string

	// FinishReason and Usage are taken from the done event when one arrived.
	FinishReason string
	Usage        *providers.TokenUsage

	// Complete reports whether a done event terminated the stream. A stream
	// that ends at transport close without a terminal marker yields its
	// partial content with Complete false.
	Complete bool
}

// Consume drains the event channel into the accumulator and returns the
// assembled result.
//
// Events are processed strictly in arrival order. A done event completes the
// result. A closed channel without a done event returns the partial content
// with Complete false and no error: partial output is kept, never discarded.
// An error event returns the partial content alongside the stream's error,
// unwrapped, so the caller can classify it.
func (r *Reassembler) Consume(ctx context.Context, events <-chan providers.StreamEvent) (*Result, error) {
	for {
		select {
		case <-ctx.Done():
			return &Result{Content: r.Content()}, ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return &Result{Content: r.Content()}, nil
			}

			switch ev.Type {
			case providers.EventTextDelta:
				r.Append(ev.Text)

			case providers.EventDone:
				return &Result{
					Content:      r.Content(),
					FinishReason: ev.FinishReason,
					Usage:        ev.Usage,
					Complete:     true,
				}, nil

			case providers.EventError:
				return &Result{Content: r.Content()}, ev.Err
			}
		}
	}
}
