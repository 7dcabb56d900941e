package llm

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestLogObserver_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(slog.New(slog.NewTextHandler(&buf, nil)))

	obs.OnCallComplete(LLMCallEvent{
		Task: TaskStudyPlan, Provider: ProviderGemini, Model: "gemini-2.5-flash",
		LatencyMs: 42, PromptTokens: 120, Success: true,
	})
	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "msg=llm_call")
	assert.Contains(t, out, "task=study_plan")
	assert.Contains(t, out, "latency_ms=42")

	buf.Reset()
	obs.OnCallComplete(LLMCallEvent{Task: TaskStudyPlan, Success: false, ErrorCode: "TIMEOUT"})
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "error_code=TIMEOUT")
}

func TestMultiObserver_FansOut(t *testing.T) {
	a, b := &captureObserver{}, &captureObserver{}
	MultiObserver{a, nil, b}.OnCallComplete(LLMCallEvent{Model: "m"})

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestPrometheusObserver_RecordsCalls(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewPrometheusObserver(reg)

	obs.OnCallComplete(LLMCallEvent{Provider: ProviderGemini, Model: "g", LatencyMs: 1200, PromptTokens: 50, Success: true})
	obs.OnCallComplete(LLMCallEvent{Provider: ProviderGemini, Model: "g", Success: false, ErrorCode: "TIMEOUT"})

	assert.Equal(t, 1.0, testutil.ToFloat64(obs.requestsTotal.WithLabelValues("gemini", "g", "success", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.requestsTotal.WithLabelValues("gemini", "g", "error", "TIMEOUT")))
	assert.Equal(t, 50.0, testutil.ToFloat64(obs.promptTokens.WithLabelValues("gemini", "g")))
	assert.Equal(t, 1, testutil.CollectAndCount(obs.requestDuration))
}
