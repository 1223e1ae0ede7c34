package llm

import (
	"context"
	"time"

	"github.com/abhisek/weekcards/internal/logger"
	"github.com/abhisek/weekcards/internal/store"
)

// EventRecorder stores one row per LLM request.
type EventRecorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// LoggingProvider records every request as an event and a log line.
// Recording failures never fail the request.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   EventRecorder
	log      *logger.Logger
}

// WithLogging wraps p, which talks to the named provider. events may be nil.
func WithLogging(p Provider, provider string, events EventRecorder, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{
		inner:    p,
		provider: provider,
		events:   events,
		log:      log.With("component", "llm", "provider", provider),
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	t := tagsFrom(ctx)
	data := store.LLMRequestEventData{
		Provider:     l.provider,
		Model:        l.inner.ModelID(),
		Purpose:      PurposeFrom(ctx),
		Week:         t.week,
		QuestionPath: t.question,
		LatencyMs:    time.Since(start).Milliseconds(),
		Success:      err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}

	kv := []any{
		"model", data.Model,
		"purpose", data.Purpose,
		"week", data.Week,
		"question", data.QuestionPath,
		"latency_ms", data.LatencyMs,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("llm request failed", append(kv, "error", err)...)
	} else {
		l.log.Debug("llm request", append(kv,
			"input_tokens", data.InputTokens,
			"output_tokens", data.OutputTokens)...)
	}

	if l.events != nil {
		if recErr := l.events.AppendLLMRequest(ctx, data); recErr != nil {
			l.log.Warn("failed to record llm request event", "error", recErr)
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
