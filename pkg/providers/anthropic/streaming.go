package anthropic

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

// streamReader reads Server-Sent Events from Anthropic's streaming API and
// yields the text deltas they carry.
type streamReader struct {
	streamState

	provider *providers.HTTPProvider
	resp     io.ReadCloser
	scanner  *bufio.Scanner
	closed   bool
}

func newStreamReader(ctx context.Context, provider *providers.HTTPProvider, url string, req *AnthropicRequest, headers map[string]string) (*streamReader, error) {
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

// Read returns the next text delta from the stream. It returns io.EOF when
// the stream ends, either at message_stop (sawStop is set) or at transport
// close (sawStop stays false and the deltas so far form a partial response).
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

		eventType, data, err := s.readEvent()
		if err == io.EOF {
			return "", io.EOF
		}
		if err != nil {
			return "", &providers.StreamError{
				Provider: s.provider.GetName(),
				Message:  "failed to read stream",
				Cause:    err,
			}
		}

		var event AnthropicStreamEvent
		if data != "" {
			if err := json.Unmarshal([]byte(data), &event); err != nil {
				slog.Debug("skipping malformed stream event",
					"provider", s.provider.GetName(),
					"event", eventType,
					"error", err,
				)
				continue
			}
		}
		if event.Type == "" {
			event.Type = eventType
		}

		if event.Type == "error" {
			message := "stream error"
			if event.Error != nil {
				message = event.Error.Message
			}
			return "", &providers.StreamError{
				Provider: s.provider.GetName(),
				Message:  message,
			}
		}

		delta, done := applyStreamEvent(&event, &s.streamState)
		if done {
			s.sawStop = true
			return "", io.EOF
		}
		if delta != "" {
			return delta, nil
		}
	}
}

// readEvent accumulates SSE fields until the blank line that terminates an
// event. Multi-line data fields are joined with newlines.
func (s *streamReader) readEvent() (eventType, data string, err error) {
	var dataLines []string

	for s.scanner.Scan() {
		line := s.scanner.Text()

		if line == "" {
			if eventType != "" || len(dataLines) > 0 {
				break
			}
			continue
		}

		if strings.HasPrefix(line, "event: ") {
			eventType = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		}
		// Other SSE fields (id, retry) are ignored.
	}

	if err := s.scanner.Err(); err != nil {
		return "", "", err
	}

	if eventType == "" && len(dataLines) == 0 {
		return "", "", io.EOF
	}

	return eventType, strings.Join(dataLines, "\n"), nil
}

// Close closes the stream and releases the underlying connection.
func (s *streamReader) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true
	return s.resp.Close()
}
