package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/hermes/pkg/history"
	"mercator-hq/hermes/pkg/providers"
	"mercator-hq/hermes/pkg/retry"
	"mercator-hq/hermes/pkg/stream"
	"mercator-hq/hermes/pkg/telemetry/logging"
	"mercator-hq/hermes/pkg/telemetry/metrics"
	"mercator-hq/hermes/pkg/telemetry/tracing"
)

// ServiceConfig carries the collaborators of a chat Service.
type ServiceConfig struct {
	// Registry resolves provider names to live adapters. Required.
	Registry Registry

	// Catalog, when set, is consulted before dispatch. An unknown model is
	// logged and dispatched anyway: the catalog can lag behind what a
	// backend actually serves.
	Catalog ModelCatalog

	// History receives finished turns. Nil disables persistence.
	History history.Store

	// Metrics receives counters and histograms. Nil disables recording.
	Metrics *metrics.Collector

	// Retry overrides the retry budget. Nil means retry.DefaultOptions.
	// An OnRetry hook set here is invoked after the service's own
	// bookkeeping on every retry.
	Retry *retry.Options
}

// Service runs completion turns end to end. It validates the request,
// resolves the provider, retries transient dispatch failures, reassembles
// streamed output, and hands finished turns to the history store.
type Service struct {
	registry Registry
	catalog  ModelCatalog
	store    history.Store
	metrics  *metrics.Collector
	retry    retry.Options
}

// NewService creates a chat service from its collaborators.
func NewService(cfg ServiceConfig) *Service {
	m := cfg.Metrics
	if m == nil {
		m = metrics.Disabled()
	}
	r := retry.DefaultOptions()
	if cfg.Retry != nil {
		r = *cfg.Retry
	}
	return &Service{
		registry: cfg.Registry,
		catalog:  cfg.Catalog,
		store:    cfg.History,
		metrics:  m,
		retry:    r,
	}
}

// Send runs a non-streaming completion turn.
//
// The request is validated locally before any network call, dispatched to
// the named provider, and retried on transient failures per the service's
// retry budget. The returned error is the provider's original error, so
// callers can match on the typed failures from the providers package.
func (s *Service) Send(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, &providers.ValidationError{Field: "request", Message: "request cannot be nil"}
	}

	requestID := uuid.NewString()
	ctx = s.requestContext(ctx, requestID, req)

	ctx, span := tracing.Start(ctx, "chat.send",
		tracing.NewAttributeBuilder().
			WithProvider(req.Provider, req.Model).
			WithRequest(requestID, req.ChatID).
			WithStream(false).
			Build())
	defer span.End()

	start := time.Now()

	provider, err := s.prepare(ctx, req)
	if err != nil {
		tracing.SetErrorAttributes(span, err, string(providers.Classify(err).Code))
		return nil, err
	}

	preq := completionRequest(req, false)

	retries := 0
	completion, err := retry.DoValue(ctx, s.retryOptions(ctx, span, req.Provider, &retries),
		func(ctx context.Context) (*providers.CompletionResponse, error) {
			return provider.SendCompletion(ctx, preq)
		})
	duration := time.Since(start)

	if err != nil {
		s.noteExhausted(ctx, req, err, retries)
		s.noteFailure(ctx, span, req, err, retries, duration)
		return nil, err
	}

	resp := &Response{
		RequestID:    requestID,
		Provider:     req.Provider,
		Model:        responseModel(req, completion.Model),
		Content:      completion.Content,
		FinishReason: completion.FinishReason,
		Usage:        completion.Usage,
		Retries:      retries,
	}
	resp.ChatID = s.record(ctx, req, resp)

	s.metrics.RecordRequest(req.Provider, req.Model, "success", duration)
	s.metrics.RecordTokens(req.Provider, req.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	tracing.SetTokenAttributes(span, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	if retries > 0 {
		tracing.SetRetryAttribute(span, retries)
	}
	tracing.SetStatus(span, nil)

	slog.InfoContext(ctx, "completion finished",
		"finish_reason", resp.FinishReason,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"total_tokens", resp.Usage.TotalTokens,
		"retries", retries,
		"duration_ms", duration.Milliseconds(),
	)

	return resp, nil
}

// SendStream runs a streaming completion turn. onUpdate, when non-nil, is
// invoked synchronously with the accumulated content after every text delta.
// Callers that print increments can slice off what they have already shown.
//
// Retries cover only the call setup. Once the provider has begun streaming,
// a mid-stream failure ends the turn: whatever content already reached
// onUpdate stands rather than being replayed by a fresh attempt. On a
// mid-stream failure or cancellation the partial response is returned
// alongside the error, with Partial set and Content holding what arrived.
func (s *Service) SendStream(ctx context.Context, req *Request, onUpdate func(content string)) (*Response, error) {
	if req == nil {
		return nil, &providers.ValidationError{Field: "request", Message: "request cannot be nil"}
	}

	requestID := uuid.NewString()
	ctx = s.requestContext(ctx, requestID, req)

	ctx, span := tracing.Start(ctx, "chat.stream",
		tracing.NewAttributeBuilder().
			WithProvider(req.Provider, req.Model).
			WithRequest(requestID, req.ChatID).
			WithStream(true).
			Build())
	defer span.End()

	start := time.Now()

	provider, err := s.prepare(ctx, req)
	if err != nil {
		tracing.SetErrorAttributes(span, err, string(providers.Classify(err).Code))
		return nil, err
	}

	preq := completionRequest(req, true)

	retries := 0
	events, err := retry.DoValue(ctx, s.retryOptions(ctx, span, req.Provider, &retries),
		func(ctx context.Context) (<-chan providers.StreamEvent, error) {
			return provider.StreamCompletion(ctx, preq)
		})
	if err != nil {
		s.noteExhausted(ctx, req, err, retries)
		s.noteFailure(ctx, span, req, err, retries, time.Since(start))
		return nil, err
	}

	s.metrics.StreamStarted(req.Provider)
	defer s.metrics.StreamEnded(req.Provider)

	deltas := 0
	var firstDelta time.Duration
	reassembler := stream.New(func(content string) {
		if deltas == 0 {
			firstDelta = time.Since(start)
		}
		deltas++
		if onUpdate != nil {
			onUpdate(content)
		}
	})

	result, consumeErr := reassembler.Consume(ctx, events)
	duration := time.Since(start)

	resp := &Response{
		RequestID:    requestID,
		Provider:     req.Provider,
		Model:        req.Model,
		Content:      result.Content,
		FinishReason: result.FinishReason,
		Partial:      !result.Complete,
		Retries:      retries,
	}
	if result.Usage != nil {
		resp.Usage = *result.Usage
	}

	tracing.SetStreamAttributes(span, deltas, result.FinishReason)

	if consumeErr != nil {
		if resp.Content != "" {
			resp.ChatID = s.record(ctx, req, resp)
		}
		s.noteFailure(ctx, span, req, consumeErr, retries, duration)
		if resp.Content == "" {
			return nil, consumeErr
		}
		return resp, consumeErr
	}

	resp.ChatID = s.record(ctx, req, resp)

	s.metrics.RecordRequest(req.Provider, req.Model, "success", duration)
	s.metrics.RecordTokens(req.Provider, req.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	tracing.SetTokenAttributes(span, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	if retries > 0 {
		tracing.SetRetryAttribute(span, retries)
	}
	tracing.SetStatus(span, nil)

	if resp.Partial {
		slog.WarnContext(ctx, "stream ended without terminal event",
			"deltas", deltas,
			"content_len", len(resp.Content),
			"duration_ms", duration.Milliseconds(),
		)
	} else {
		slog.InfoContext(ctx, "stream finished",
			"finish_reason", resp.FinishReason,
			"deltas", deltas,
			"first_delta_ms", firstDelta.Milliseconds(),
			"prompt_tokens", resp.Usage.PromptTokens,
			"completion_tokens", resp.Usage.CompletionTokens,
			"total_tokens", resp.Usage.TotalTokens,
			"retries", retries,
			"duration_ms", duration.Milliseconds(),
		)
	}

	return resp, nil
}

// prepare validates the request and resolves its provider. The catalog
// check is advisory: an unknown model is logged and dispatched anyway.
func (s *Service) prepare(ctx context.Context, req *Request) (providers.Provider, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	if s.registry == nil {
		return nil, &providers.ValidationError{Field: "provider", Message: "no providers are configured"}
	}

	provider, err := s.registry.Get(req.Provider)
	if err != nil {
		return nil, err
	}

	if s.catalog != nil {
		if _, ok := s.catalog.FindModel(ctx, req.Model); !ok {
			slog.WarnContext(ctx, "model not present in catalog", "model", req.Model)
		}
	}

	return provider, nil
}

// requestContext attaches the turn's identity to the context for logging.
func (s *Service) requestContext(ctx context.Context, requestID string, req *Request) context.Context {
	ctx = logging.WithRequestID(ctx, requestID)
	ctx = logging.WithProvider(ctx, req.Provider)
	ctx = logging.WithModel(ctx, req.Model)
	if req.ChatID != "" {
		ctx = logging.WithChatID(ctx, req.ChatID)
	}
	return ctx
}

// retryOptions returns the per-call retry options with the service's
// observation hook chained in front of any caller-provided one. retries is
// bumped to the number of re-attempts performed so far.
func (s *Service) retryOptions(ctx context.Context, span trace.Span, provider string, retries *int) retry.Options {
	opts := s.retry
	caller := opts.OnRetry
	opts.OnRetry = func(attempt int, err error) {
		*retries = attempt + 1
		code := string(providers.Classify(err).Code)
		s.metrics.RecordRetryAttempt(provider, code)
		tracing.AddEvent(span, "retry",
			attribute.Int("attempt", attempt),
			attribute.String("code", code),
		)
		slog.WarnContext(ctx, "retrying provider call",
			"attempt", attempt,
			"code", code,
			"error", err,
		)
		if caller != nil {
			caller(attempt, err)
		}
	}
	return opts
}

// noteExhausted records that the retry budget ran out on a retryable
// failure. Cancellation and early stops on non-retryable errors do not
// count as exhaustion.
func (s *Service) noteExhausted(ctx context.Context, req *Request, err error, retries int) {
	if errors.Is(err, context.Canceled) {
		return
	}
	classified := providers.Classify(err)
	if classified.Retryable && s.retry.MaxRetries > 0 && retries >= s.retry.MaxRetries {
		s.metrics.RecordRetriesExhausted(req.Provider)
		slog.ErrorContext(ctx, "retry budget exhausted",
			"retries", retries,
			"code", classified.Code,
		)
	}
}

// noteFailure records a failed turn in metrics, on the span, and in the log.
func (s *Service) noteFailure(ctx context.Context, span trace.Span, req *Request, err error, retries int, duration time.Duration) {
	classified := providers.Classify(err)
	status := statusOf(err)
	if status != "canceled" {
		s.metrics.RecordProviderError(req.Provider, string(classified.Code))
	}
	s.metrics.RecordRequest(req.Provider, req.Model, status, duration)
	if retries > 0 {
		tracing.SetRetryAttribute(span, retries)
	}
	tracing.SetErrorAttributes(span, err, string(classified.Code))
	slog.ErrorContext(ctx, "completion failed",
		"status", status,
		"code", classified.Code,
		"retries", retries,
		"duration_ms", duration.Milliseconds(),
		"error", err,
	)
}

// record hands the finished turn to the history store. Store failures are
// logged, never returned. The write uses a detached context so a cancelled
// stream still persists its partial content.
func (s *Service) record(ctx context.Context, req *Request, resp *Response) string {
	if s.store == nil {
		return req.ChatID
	}

	ctx = context.WithoutCancel(ctx)

	chatID := req.ChatID
	if chatID == "" {
		c, err := s.store.CreateChat(ctx, chatTitle(req.Messages))
		if err != nil {
			slog.WarnContext(ctx, "failed to create history chat", "error", err)
			return ""
		}
		chatID = c.ID

		// Leading system messages are stored once, at chat creation; a
		// continuation reloads them with the rest of the transcript.
		for _, msg := range req.Messages {
			if msg.Role != providers.RoleSystem {
				break
			}
			err := s.store.AppendMessage(ctx, &history.Message{
				ChatID:  chatID,
				Role:    providers.RoleSystem,
				Content: msg.Content,
			})
			if err != nil {
				slog.WarnContext(ctx, "failed to append system message", "error", err)
			}
		}
	}

	if user := lastUserMessage(req.Messages); user != nil {
		err := s.store.AppendMessage(ctx, &history.Message{
			ChatID:  chatID,
			Role:    providers.RoleUser,
			Content: user.Content,
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to append user message", "error", err)
		}
	}

	err := s.store.AppendMessage(ctx, &history.Message{
		ChatID:           chatID,
		Role:             providers.RoleAssistant,
		Content:          resp.Content,
		Model:            resp.Model,
		Provider:         resp.Provider,
		FinishReason:     resp.FinishReason,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		Partial:          resp.Partial,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to append assistant message", "error", err)
	}

	return chatID
}

func completionRequest(req *Request, streaming bool) *providers.CompletionRequest {
	return &providers.CompletionRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        req.TopP,
		Stream:      streaming,
		Stop:        req.Stop,
		Tags:        req.Tags,
	}
}

// responseModel prefers the concrete model version echoed by the backend.
func responseModel(req *Request, reported string) string {
	if reported != "" {
		return reported
	}
	return req.Model
}

func statusOf(err error) string {
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "error"
}

// chatTitle derives a chat title from the first non-empty user message.
func chatTitle(messages []providers.Message) string {
	const maxRunes = 60
	for _, msg := range messages {
		if msg.Role != providers.RoleUser {
			continue
		}
		title := strings.TrimSpace(msg.Content)
		if title == "" {
			continue
		}
		if utf8.RuneCountInString(title) > maxRunes {
			runes := []rune(title)
			title = strings.TrimSpace(string(runes[:maxRunes])) + "..."
		}
		return title
	}
	return "New chat"
}

// lastUserMessage returns the most recent user message, the one this turn
// answers. Earlier messages are already part of the stored transcript.
func lastUserMessage(messages []providers.Message) *providers.Message {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == providers.RoleUser {
			return &messages[i]
		}
	}
	return nil
}
