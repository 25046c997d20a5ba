package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"mercator-hq/hermes/pkg/providers"
)

// streamReader reads newline-delimited JSON chunks from OpenAI's streaming
// API. Lines may arrive bare or wrapped in an SSE "data: " field; both forms
// carry the same chunk payload.
type streamReader struct {
	streamState

	provider *providers.HTTPProvider
	resp     io.ReadCloser
	scanner  *bufio.Scanner
	closed   bool
}

// newStreamReader creates a new stream reader for OpenAI's streaming response.
func newStreamReader(ctx context.Context, provider *providers.HTTPProvider, url string, req *OpenAIRequest, headers map[string]string) (*streamReader, error) {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := provider.DoRequest(ctx, "POST", url, bodyBytes, headers)
	if err != nil {
		return nil, err
	}

	return &streamReader{
		provider: provider,
		resp:     resp.Body,
		scanner:  bufio.NewScanner(resp.Body),
	}, nil
}

// Read returns the next non-empty text delta from the stream.
//
// Returns io.EOF when the stream ends, either through a "[DONE]" sentinel or
// the transport closing; both are normal termination for this wire format.
// Malformed chunk lines are skipped, not fatal.
func (s *streamReader) Read(ctx context.Context) (string, error) {
	if s.closed {
		return "", io.EOF
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return "", &providers.StreamError{
					Provider: s.provider.GetName(),
					Message:  "failed to read stream",
					Cause:    err,
				}
			}
			return "", io.EOF
		}

		line := s.scanner.Text()
		if line == "" {
			continue
		}

		// Strip the SSE field name when present.
		data := strings.TrimPrefix(line, "data: ")

		// The sentinel signals completion, it is never content.
		if data == "[DONE]" {
			return "", io.EOF
		}

		var chunk OpenAIStreamResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			slog.Debug("skipping malformed stream chunk",
				"provider", s.provider.GetName(),
				"line", data,
			)
			continue
		}

		delta := extractStreamDelta(&chunk, &s.streamState)
		if delta == "" {
			continue
		}

		return delta, nil
	}
}

// Close closes the stream and releases resources.
func (s *streamReader) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true
	return s.resp.Close()
}
