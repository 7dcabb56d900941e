package llm

import (
	"context"
	"log/slog"
)

// LLMCallEvent records metadata about a single LLM invocation.
type LLMCallEvent struct {
	Task         TaskType
	Provider     Provider
	Model        string
	LatencyMs    int64
	PromptTokens int
	Success      bool
	ErrorCode    string
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes LLM call events to a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events through logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	attrs := []slog.Attr{
		slog.String("task", string(event.Task)),
		slog.String("provider", string(event.Provider)),
		slog.String("model", event.Model),
		slog.Int64("latency_ms", event.LatencyMs),
		slog.Int("prompt_tokens", event.PromptTokens),
	}
	if !event.Success {
		attrs = append(attrs, slog.String("error_code", event.ErrorCode))
		o.logger.LogAttrs(context.Background(), slog.LevelWarn, "llm_call", attrs...)
		return
	}
	o.logger.LogAttrs(context.Background(), slog.LevelInfo, "llm_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}

// MultiObserver fans each event out to every non-nil observer.
type MultiObserver []Observer

func (m MultiObserver) OnCallComplete(event LLMCallEvent) {
	for _, o := range m {
		if o != nil {
			o.OnCallComplete(event)
		}
	}
}
