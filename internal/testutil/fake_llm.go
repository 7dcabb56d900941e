package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/studyplan/internal/llm"
)

// FakeLLMClient is an llm.LLMClient that records every request and returns
// a canned response. It is safe for concurrent use.
type FakeLLMClient struct {
	Text  string
	Err   error
	Delay time.Duration

	mu       sync.Mutex
	requests []llm.GenerateRequest
}

// NewFakeLLMClient returns a client that answers every call with text.
func NewFakeLLMClient(text string) *FakeLLMClient {
	return &FakeLLMClient{Text: text}
}

// NewFailingLLMClient returns a client that fails every call with err.
func NewFailingLLMClient(err error) *FakeLLMClient {
	return &FakeLLMClient{Err: err}
}

func (f *FakeLLMClient) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return &llm.GenerateResponse{Text: f.Text, Model: f.Model()}, nil
}

func (f *FakeLLMClient) Model() string { return "fake-model" }

// Calls returns the number of Generate calls seen so far.
func (f *FakeLLMClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// LastPrompt returns the user prompt of the most recent call.
func (f *FakeLLMClient) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return ""
	}
	return f.requests[len(f.requests)-1].UserPrompt
}
