// Package gateway serves the study plan HTTP API.
package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/intelligence"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds the POST /api/plan body.
const maxBodyBytes = 1 << 20

// Server holds the handlers and their dependencies.
type Server struct {
	plans    intelligence.PlanService
	messages intelligence.Messages
	message  string
	origins  []string
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *httpMetrics
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger used for access and error logs.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithAllowedOrigins sets the CORS origin allow-list. "*" allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithMessage overrides the liveness message returned by GET /api/message.
func WithMessage(msg string) Option {
	return func(s *Server) {
		if msg != "" {
			s.message = msg
		}
	}
}

// WithRegistry exposes reg on /metrics and records HTTP metrics into it.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// NewServer creates a Server answering with the given message set.
func NewServer(plans intelligence.PlanService, msgs intelligence.Messages, opts ...Option) *Server {
	s := &Server{
		plans:    plans,
		messages: msgs,
		message:  msgs.Connected,
		origins:  []string{"*"},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = newHTTPMetrics(s.registry)
	return s
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/message", s.instrument("/api/message", s.allow(http.MethodGet, s.handleMessage)))
	mux.Handle("/api/plan", s.instrument("/api/plan", s.allow(http.MethodPost, s.handlePlan)))
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return s.requestID(s.accessLog(s.cors(mux)))
}

// allow rejects every method other than method with 405 and a JSON error.
func (s *Server) allow(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method+", "+http.MethodOptions)
			writeJSON(w, http.StatusMethodNotAllowed, contract.ErrorResponse{Error: "method not allowed"})
			return
		}
		next(w, r)
	}
}

// handleMessage implements GET /api/message.
func (s *Server) handleMessage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, contract.MessageResponse{Message: s.message})
}

// handlePlan implements POST /api/plan.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), s.logger)

	var req contract.PlanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.Info("plan_request_rejected", "reason", "invalid_body", "error", err.Error())
		writeJSON(w, http.StatusBadRequest, contract.ErrorResponse{Error: s.messages.InvalidBody})
		return
	}

	plan, err := s.plans.Generate(r.Context(), req.Goal())
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			logger.Info("plan_request_rejected", "reason", "validation", "field", verr.Field)
			writeJSON(w, http.StatusBadRequest, contract.ErrorResponse{Error: s.messages.NameRequired})
			return
		}
		logger.Error("plan_generation_failed", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, contract.ErrorResponse{Error: s.messages.ProviderFailure})
		return
	}

	writeJSON(w, http.StatusOK, contract.EncodePlanResult(domain.NewPlanSuccess(plan)))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
