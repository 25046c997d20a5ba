// Package retry provides bounded exponential-backoff retry around provider
// calls.
//
// Retry decisions defer to the error classifier in the providers package: a
// rate limit or server hiccup earns another attempt, a bad API key or an
// oversized conversation does not. This keeps backoff policy in one place
// instead of duplicated at every call site.
//
//	resp, err := retry.DoValue(ctx, retry.DefaultOptions(),
//	    func(ctx context.Context) (*providers.CompletionResponse, error) {
//	        return provider.SendCompletion(ctx, req)
//	    })
//
// When attempts run out, or the failure is one of the non-retryable kinds,
// the original error comes back untouched. Callers that need to distinguish
// "failed after retries" from "failed immediately" can count attempts through
// the OnRetry hook.
package retry
