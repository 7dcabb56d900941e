package cli

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/intelligence"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"
)

// studyplanHuhTheme returns a huh theme using the formatter palette.
func studyplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// goalFields holds the form-bound goal values. Forms bind to its fields by
// pointer, so a rebuilt form keeps what the user already typed.
type goalFields struct {
	examName   string
	examDate   string
	dailyHours string
	totalHours string
	weakAreas  string
}

// bindFlags registers the goal flags on fs.
func (f *goalFields) bindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.examName, "exam", "", "Exam or qualification name")
	fs.StringVar(&f.examDate, "date", "", "Exam date (YYYY-MM-DD)")
	fs.StringVar(&f.dailyHours, "daily-hours", "", "Average study hours per day")
	fs.StringVar(&f.totalHours, "total-hours", "", "Estimated total study hours")
	fs.StringVar(&f.weakAreas, "weak-areas", "", "Weak areas to focus on")
}

// request converts the fields to the wire request. Hours are forwarded as
// typed.
func (f *goalFields) request() contract.PlanRequest {
	return contract.PlanRequest{
		ExamName:   strings.TrimSpace(f.examName),
		ExamDate:   strings.TrimSpace(f.examDate),
		DailyHours: contract.FlexNumber(strings.TrimSpace(f.dailyHours)),
		WeakAreas:  strings.TrimSpace(f.weakAreas),
		TotalHours: contract.FlexNumber(strings.TrimSpace(f.totalHours)),
	}
}

func (f *goalFields) goal() domain.GoalSpecification {
	return f.request().Goal()
}

// newGoalForm builds the goal input form bound to f.
func newGoalForm(f *goalFields, msgs intelligence.Messages) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Exam / qualification").
				Placeholder("FP3級").
				Value(&f.examName).
				Validate(validateExamName(msgs)),
			huh.NewInput().
				Title("Exam date").
				Placeholder(domain.DateLayout).
				Value(&f.examDate).
				Validate(validateDate),
			huh.NewInput().
				Title("Study hours per day").
				Placeholder("2").
				Value(&f.dailyHours).
				Validate(validateHours),
			huh.NewInput().
				Title("Total study hours").
				Placeholder("100").
				Value(&f.totalHours).
				Validate(validateHours),
			huh.NewText().
				Title("Weak areas").
				Placeholder("税金、保険").
				Lines(3).
				Value(&f.weakAreas),
		),
	).WithTheme(studyplanHuhTheme()).WithShowHelp(false)
}

func validateExamName(msgs intelligence.Messages) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msgs.NameRequired)
		}
		return nil
	}
}

// validateDate accepts an empty value or a calendar date.
func validateDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

// validateHours accepts an empty value or a non-negative number.
func validateHours(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return errors.New("enter a number of hours")
	}
	return nil
}
