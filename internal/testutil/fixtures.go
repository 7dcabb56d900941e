package testutil

import (
	"time"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// FixedNow is the reference clock used by prompt and day-count tests.
var FixedNow = time.Date(2025, 1, 21, 9, 30, 0, 0, time.UTC)

// Clock returns a time source pinned to t.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Goal options
type GoalOption func(*domain.GoalSpecification)

func WithName(name string) GoalOption {
	return func(g *domain.GoalSpecification) { g.Name = name }
}

func WithTargetDate(d time.Time) GoalOption {
	return func(g *domain.GoalSpecification) { g.TargetDate = d.Format(domain.DateLayout) }
}

func WithTargetDateText(s string) GoalOption {
	return func(g *domain.GoalSpecification) { g.TargetDate = s }
}

func WithHours(daily, total string) GoalOption {
	return func(g *domain.GoalSpecification) {
		g.DailyHours = daily
		g.TotalHours = total
	}
}

func WithWeakAreas(s string) GoalOption {
	return func(g *domain.GoalSpecification) { g.WeakAreas = s }
}

// NewTestGoal returns the FP3 sample goal, five days after FixedNow,
// modified by opts.
func NewTestGoal(opts ...GoalOption) domain.GoalSpecification {
	g := domain.GoalSpecification{
		Name:       "FP3級",
		TargetDate: FixedNow.AddDate(0, 0, 5).Format(domain.DateLayout),
		DailyHours: "2",
		WeakAreas:  "税金、保険",
		TotalHours: "100",
	}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

// NewTestPlanRequest returns the wire form of the FP3 sample submission.
func NewTestPlanRequest() contract.PlanRequest {
	return contract.PlanRequest{
		ExamName:   "FP3級",
		ExamDate:   "2025-01-26",
		DailyHours: "2",
		WeakAreas:  "税金、保険",
		TotalHours: "100",
	}
}
