package intelligence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/llm"
)

// ErrProvider wraps every failure of the provider call. Callers map it to
// one generic message; the wrapped cause is for logs only.
var ErrProvider = errors.New("plan provider call failed")

// PlanService turns a goal specification into plan text.
type PlanService interface {
	// Generate validates goal, renders the prompt and calls the provider
	// exactly once. It returns a *domain.ValidationError before any call
	// when the goal is rejected, or an error wrapping ErrProvider.
	Generate(ctx context.Context, goal domain.GoalSpecification) (string, error)
}

type planService struct {
	client llm.LLMClient
	locale Locale
	now    func() time.Time
}

// PlanOption configures a PlanService.
type PlanOption func(*planService)

// WithLocale selects the prompt language.
func WithLocale(l Locale) PlanOption {
	return func(s *planService) { s.locale = l }
}

// WithClock overrides the time source used for the day count.
func WithClock(now func() time.Time) PlanOption {
	return func(s *planService) { s.now = now }
}

// NewPlanService creates a PlanService backed by an LLM client.
func NewPlanService(client llm.LLMClient, opts ...PlanOption) PlanService {
	s := &planService{client: client, locale: LocaleEnglish, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *planService) Generate(ctx context.Context, goal domain.GoalSpecification) (string, error) {
	if err := goal.Validate(); err != nil {
		return "", err
	}

	prompt := RenderPlanPrompt(s.locale, goal, s.now())
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:       llm.TaskStudyPlan,
		UserPrompt: prompt,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}
	return resp.Text, nil
}
