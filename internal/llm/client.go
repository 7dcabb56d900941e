package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response. It makes
	// exactly one attempt.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Model returns the model identifier requests are sent to.
	Model() string
}

// completion is the provider-neutral input handed to an adapter.
type completion struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// completer is implemented by each provider adapter. It performs a single
// call and returns the generated text.
type completer interface {
	complete(ctx context.Context, c completion) (string, error)
}

// instrumentedClient applies the per-task deadline, classifies failures and
// reports every call to the observer. Adapters stay free of that logic.
type instrumentedClient struct {
	cfg      LLMConfig
	backend  completer
	observer Observer
	tokens   *TokenCounter
}

func (c *instrumentedClient) Model() string { return c.cfg.ModelName() }

func (c *instrumentedClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	taskCfg := c.cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}

	if timeoutMs := c.cfg.TaskTimeout(req.Task); timeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
		defer cancel()
	}

	model := c.Model()
	text, err := c.backend.complete(ctx, completion{
		Model:       model,
		System:      req.SystemPrompt,
		Prompt:      req.UserPrompt,
		Temperature: temp,
		MaxTokens:   maxTok,
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		err = classify(ctx, err)
	}

	latency := time.Since(start).Milliseconds()
	c.observer.OnCallComplete(LLMCallEvent{
		Task:         req.Task,
		Provider:     c.cfg.Provider,
		Model:        model,
		LatencyMs:    latency,
		PromptTokens: c.tokens.CountTokens(req.SystemPrompt + req.UserPrompt),
		Success:      err == nil,
		ErrorCode:    errorCode(err),
	})
	if err != nil {
		return nil, err
	}

	return &GenerateResponse{Text: text, Model: model, LatencyMs: latency}, nil
}

// classify maps an adapter error onto the package sentinels while keeping
// the original message for logs.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrEmptyResponse):
		return err
	case errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrCanceled, err)
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	return strings.Contains(err.Error(), "connection refused")
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrCanceled):
		return "CANCELED"
	case errors.Is(err, ErrProviderUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrEmptyResponse):
		return "EMPTY_RESPONSE"
	case errors.Is(err, ErrRequestFailed):
		return "PROVIDER_ERROR"
	default:
		return "UNKNOWN"
	}
}
