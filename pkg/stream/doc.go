// Package stream reassembles incremental completion streams into messages.
//
// Provider adapters emit a sequence of StreamEvents: text deltas, a terminal
// done event, or an error. The Reassembler consumes that sequence into one
// append-only accumulator and exposes every intermediate state to an update
// callback, which is how a live-typing display stays current without polling.
//
//	r := stream.New(func(content string) {
//	    render(content) // called with "Hel", "Hello, ", "Hello, world"
//	})
//
//	result, err := r.Consume(ctx, events)
//	if err != nil {
//	    // result.Content still holds the partial message
//	}
//
// Two invariants shape the implementation. The accumulator only ever grows
// during a stream, so callbacks observe each prefix of the final message in
// order. And partial output survives failure: a stream that dies mid-flight
// returns what was accumulated rather than discarding it, because half an
// answer on screen is worth more than an empty error state.
package stream
