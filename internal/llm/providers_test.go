package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func providerConfig(p Provider, endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Provider = p
	cfg.APIKey = "test-key"
	cfg.Endpoint = endpoint
	return cfg
}

func TestOllamaClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req["model"])
		assert.Equal(t, false, req["stream"])
		assert.Equal(t, "user prompt", req["prompt"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"llama3.2","response":"# Plan\n- week 1","done":true}` + "\n"))
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), providerConfig(ProviderOllama, srv.URL), NoopObserver{})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:       TaskStudyPlan,
		UserPrompt: "user prompt",
	})

	require.NoError(t, err)
	assert.Equal(t, "# Plan\n- week 1", resp.Text)
	assert.Equal(t, "llama3.2", resp.Model)
}

func TestOllamaClient_Generate_ServerErrorIsSingleAttempt(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"model crashed"}`))
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), providerConfig(ProviderOllama, srv.URL), NoopObserver{})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskStudyPlan, UserPrompt: "x"})

	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestOllamaClient_Generate_Unavailable(t *testing.T) {
	client, err := NewClient(context.Background(), providerConfig(ProviderOllama, "http://127.0.0.1:1"), NoopObserver{})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskStudyPlan, UserPrompt: "x"})

	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestGeminiClient_Generate_Success(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.5-flash:generateContent"), r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"# Plan"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), providerConfig(ProviderGemini, srv.URL), NoopObserver{})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskStudyPlan, UserPrompt: "x"})

	require.NoError(t, err)
	assert.Equal(t, "# Plan", resp.Text)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGeminiClient_Generate_NoRetryOnProviderError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota exhausted","status":"RESOURCE_EXHAUSTED"}}`},
		{"unavailable", http.StatusServiceUnavailable, `{"error":{"code":503,"message":"model overloaded","status":"UNAVAILABLE"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := NewClient(context.Background(), providerConfig(ProviderGemini, srv.URL), NoopObserver{})
			require.NoError(t, err)

			_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskStudyPlan, UserPrompt: "x"})

			assert.ErrorIs(t, err, ErrRequestFailed)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestOpenAIClient_Generate_Success(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/responses"), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id":"resp_1","object":"response","created_at":0,"status":"completed","model":"gpt-4o-mini",
			"output":[{"type":"message","id":"msg_1","status":"completed","role":"assistant",
				"content":[{"type":"output_text","text":"# Plan","annotations":[]}]}]
		}`))
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), providerConfig(ProviderOpenAI, srv.URL+"/v1/"), NoopObserver{})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskStudyPlan, UserPrompt: "x"})

	require.NoError(t, err)
	assert.Equal(t, "# Plan", resp.Text)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIClient_Generate_NoRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), providerConfig(ProviderOpenAI, srv.URL+"/v1/"), NoopObserver{})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskStudyPlan, UserPrompt: "x"})

	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAnthropicClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-sonnet-4-5", body["model"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-5",
			"content":[{"type":"text","text":"# Plan"},{"type":"text","text":"\n- week 1"}],
			"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":5}
		}`))
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), providerConfig(ProviderAnthropic, srv.URL+"/"), NoopObserver{})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskStudyPlan, UserPrompt: "x"})

	require.NoError(t, err)
	assert.Equal(t, "# Plan\n- week 1", resp.Text)
}

func TestAnthropicClient_Generate_NoRetryOnProviderError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"rate limited", http.StatusTooManyRequests, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`},
		{"overloaded", http.StatusServiceUnavailable, `{"type":"error","error":{"type":"overloaded_error","message":"overloaded"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := NewClient(context.Background(), providerConfig(ProviderAnthropic, srv.URL+"/"), NoopObserver{})
			require.NoError(t, err)

			_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskStudyPlan, UserPrompt: "x"})

			assert.ErrorIs(t, err, ErrRequestFailed)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestProviderTransport_KeepsDefaults(t *testing.T) {
	tr := newProviderTransport()

	assert.NotNil(t, tr.Proxy)
	assert.Equal(t, http.DefaultTransport.(*http.Transport).TLSHandshakeTimeout, tr.TLSHandshakeTimeout)
	assert.Equal(t, http.DefaultTransport.(*http.Transport).MaxIdleConns, tr.MaxIdleConns)
	assert.NotNil(t, tr.DialContext)
	assert.NotSame(t, http.DefaultTransport, tr)
}
