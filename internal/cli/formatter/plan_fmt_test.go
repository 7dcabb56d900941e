package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatGoalSummary(t *testing.T) {
	now := time.Date(2025, 1, 21, 9, 30, 0, 0, time.UTC)
	goal := domain.GoalSpecification{
		Name:       "FP3級",
		TargetDate: "2025-01-26",
		DailyHours: "2",
		WeakAreas:  "税金、保険",
		TotalHours: "100",
	}

	got := stripANSI(FormatGoalSummary(goal, now))

	assert.Equal(t, "Exam     FP3級\n"+
		"Date     2025-01-26 In 5d\n"+
		"Per day  2h\n"+
		"Total    100h\n"+
		"Focus    税金、保険", got)
}

func TestFormatGoalSummary_MissingValues(t *testing.T) {
	now := time.Date(2025, 1, 21, 9, 30, 0, 0, time.UTC)

	got := stripANSI(FormatGoalSummary(domain.GoalSpecification{Name: "AWS", TargetDate: "someday"}, now))

	assert.Contains(t, got, "Date     someday\n")
	assert.Contains(t, got, "Per day  —")
	assert.Contains(t, got, "Focus    —")
}

func TestRelativeDays(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{0, "Today"},
		{1, "Tomorrow"},
		{-1, "Yesterday"},
		{5, "In 5d"},
		{21, "In 3w"},
		{90, "In 3mo"},
		{-3, "3d ago"},
		{-14, "2w ago"},
		{-90, "3mo ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeDays(tt.days), "days=%d", tt.days)
	}
}

func TestFormatPlan(t *testing.T) {
	got := stripANSI(FormatPlan("## Week 1\n- basics", 40))

	assert.True(t, strings.HasPrefix(got, "STUDY PLAN\n──────────\n\n"), got)
	assert.Contains(t, got, "Week 1")
	assert.Contains(t, got, "basics")
	assert.Equal(t, "✘ boom", stripANSI(FormatPlanFailure("boom")))
	assert.Equal(t, "✔ done", stripANSI(Success("done")))
}

func TestScrollIndicator(t *testing.T) {
	assert.Equal(t, "[TOP]", stripANSI(ScrollIndicator(true, false, 0)))
	assert.Equal(t, "[END]", stripANSI(ScrollIndicator(false, true, 1)))
	assert.Equal(t, "[42%]", stripANSI(ScrollIndicator(false, false, 0.42)))
}
