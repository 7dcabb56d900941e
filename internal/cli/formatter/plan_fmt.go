package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// FormatGoalSummary renders the submitted goal as an aligned field list.
func FormatGoalSummary(goal domain.GoalSpecification, now time.Time) string {
	date := goal.TargetDate
	if date == "" {
		date = Dim("—")
	} else if target, ok := goal.ParseTargetDate(now.Location()); ok {
		date = fmt.Sprintf("%s %s", date, RelativeDaysStyled(domain.DaysUntil(target, now)))
	}

	weak := goal.WeakAreas
	if strings.TrimSpace(weak) == "" {
		weak = Dim("—")
	}

	return RenderFields([][2]string{
		{"Exam", Bold(goal.Name)},
		{"Date", date},
		{"Per day", FormatHours(goal.DailyHours)},
		{"Total", FormatHours(goal.TotalHours)},
		{"Focus", weak},
	})
}

// RenderFields renders label/value pairs with labels padded to one column.
func RenderFields(rows [][2]string) string {
	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(r[0]))
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		pad := labelWidth - lipgloss.Width(r[0])
		b.WriteString(StyleDim.Render(r[0]))
		b.WriteString(strings.Repeat(" ", pad+2))
		b.WriteString(r[1])
	}
	return b.String()
}

// FormatPlan renders plan text under a header for terminal output.
func FormatPlan(plan string, width int) string {
	return Header("Study Plan") + "\n\n" + RenderMarkdown(plan, width)
}

// FormatPlanFailure renders a gateway or transport error message.
func FormatPlanFailure(msg string) string {
	return Failure(msg)
}
