package retry

import (
	"context"
	"log/slog"
	"time"

	"mercator-hq/hermes/pkg/providers"
)

// Options controls the retry budget and backoff schedule.
type Options struct {
	// MaxRetries is the number of re-attempts after the initial call. A
	// value of 0 disables retries entirely.
	MaxRetries int

	// InitialDelay is the wait before the first retry. Each subsequent wait
	// doubles, capped at MaxDelay.
	InitialDelay time.Duration
	MaxDelay     time.Duration

	// OnRetry, when set, observes each retry decision. It is invoked with
	// the zero-indexed attempt that just failed and its error, before the
	// backoff wait. It exists for surfacing feedback and must not block.
	OnRetry func(attempt int, err error)
}

// DefaultOptions returns the standard budget: three retries with exponential
// backoff from one second, capped at ten seconds.
func DefaultOptions() Options {
	return Options{
		MaxRetries:   3,
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = time.Second
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 10 * time.Second
	}
	return o
}

// Do runs fn, re-attempting on retryable failure per the options. See DoValue.
func Do(ctx context.Context, opts Options, fn func(context.Context) error) error {
	_, err := DoValue(ctx, opts, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoValue runs fn until it succeeds, the error is not retryable, or the retry
// budget is exhausted.
//
// Whether an error warrants another attempt comes from the classifier:
// authentication, unknown-model, and context-length failures stop
// immediately, everything else retries. When retries stop, the error fn
// returned is passed through unchanged, never wrapped, so callers can match
// on the original typed error.
//
// The final attempt is never followed by a wait. A cancelled context stops
// the retry loop and returns ctx.Err(), whether cancellation lands during a
// call or during a backoff wait; OnRetry is not invoked for a stop caused by
// cancellation.
func DoValue[T any](ctx context.Context, opts Options, fn func(context.Context) (T, error)) (T, error) {
	opts = opts.withDefaults()

	var zero T
	for attempt := 0; ; attempt++ {
		value, err := fn(ctx)
		if err == nil {
			return value, nil
		}

		if attempt >= opts.MaxRetries {
			return zero, err
		}

		classified := providers.Classify(err)
		if !classified.Retryable {
			return zero, err
		}

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		delay := backoffDelay(opts.InitialDelay, opts.MaxDelay, attempt)

		if opts.OnRetry != nil {
			opts.OnRetry(attempt, err)
		}

		slog.Debug("retrying after failure",
			"attempt", attempt,
			"delay", delay,
			"code", classified.Code,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// backoffDelay computes min(initial * 2^attempt, max). The shift saturates to
// max on overflow.
func backoffDelay(initial, max time.Duration, attempt int) time.Duration {
	if attempt > 30 {
		return max
	}
	delay := initial << uint(attempt)
	if delay > max || delay <= 0 {
		return max
	}
	return delay
}
