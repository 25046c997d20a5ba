package gateway

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

const (
	// textPrefix marks a line whose remainder is a raw text delta.
	textPrefix = "0:"

	// doneMarker is the line that signals normal end of stream.
	doneMarker = "[DONE]"
)

// streamReader reads the gateway's line-oriented stream protocol and yields
// the text deltas it carries.
//
// bufio.Scanner buffers partial reads internally, so a logical line split
// across network chunks is reassembled before it is interpreted.
type streamReader struct {
	sawDone bool

	provider *providers.HTTPProvider
	resp     io.ReadCloser
	scanner  *bufio.Scanner
	closed   bool
}

func newStreamReader(ctx context.Context, provider *providers.HTTPProvider, url string, req *GatewayRequest, headers map[string]string) (*streamReader, error) {
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
// the stream ends, either at the [DONE] marker (sawDone is set) or at
// transport close (sawDone stays false and the deltas so far form a partial
// response).
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

		if line == doneMarker {
			s.sawDone = true
			return "", io.EOF
		}

		if strings.HasPrefix(line, textPrefix) {
			// The remainder of the line is the delta, taken verbatim.
			delta := line[len(textPrefix):]
			if delta == "" {
				continue
			}
			return delta, nil
		}

		// Unrecognized prefixes are skipped so that frame types added to
		// the protocol later do not break older clients.
		slog.Debug("skipping unrecognized stream line",
			"provider", s.provider.GetName(),
			"prefix", linePrefix(line),
		)
	}
}

// Close closes the stream and releases the underlying connection.
func (s *streamReader) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true
	return s.resp.Close()
}

// linePrefix extracts the frame tag before the first colon, for logging.
func linePrefix(line string) string {
	if i := strings.Index(line, ":"); i >= 0 {
		return line[:i]
	}
	if len(line) > 8 {
		return line[:8]
	}
	return line
}
