package llm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusObserver records LLM call events as Prometheus metrics.
type PrometheusObserver struct {
	requestsTotal   *prometheus.CounterVec
	promptTokens    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewPrometheusObserver registers the LLM metrics on reg.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	factory := promauto.With(reg)
	return &PrometheusObserver{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studyplan_llm_requests_total",
				Help: "Total number of LLM requests by provider, model, status and error code",
			},
			[]string{"provider", "model", "status", "error_code"},
		),
		promptTokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studyplan_llm_prompt_tokens_total",
				Help: "Estimated prompt tokens sent to the LLM provider",
			},
			[]string{"provider", "model"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studyplan_llm_request_duration_seconds",
				Help:    "Duration of LLM requests in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
			},
			[]string{"provider", "model"},
		),
	}
}

func (p *PrometheusObserver) OnCallComplete(event LLMCallEvent) {
	status := "success"
	if !event.Success {
		status = "error"
	}
	provider := string(event.Provider)
	p.requestsTotal.WithLabelValues(provider, event.Model, status, event.ErrorCode).Inc()
	p.promptTokens.WithLabelValues(provider, event.Model).Add(float64(event.PromptTokens))
	p.requestDuration.WithLabelValues(provider, event.Model).
		Observe((time.Duration(event.LatencyMs) * time.Millisecond).Seconds())
}
