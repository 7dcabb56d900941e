package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for target dates on the wire.
const DateLayout = "2006-01-02"

// GoalSpecification describes the studying task a plan is generated for.
//
// Hours are kept as the caller sent them: only Name is validated, the other
// fields pass through to the prompt verbatim.
type GoalSpecification struct {
	Name       string
	TargetDate string
	DailyHours string
	WeakAreas  string
	TotalHours string
}

// ValidationError reports a goal field that was rejected before any
// provider call was attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the single required field. Only an empty name is
// rejected; whitespace is passed through like any other text.
func (g GoalSpecification) Validate() error {
	if g.Name == "" {
		return &ValidationError{Field: "examName", Message: "exam/qualification name is required."}
	}
	return nil
}

// ParseTargetDate parses TargetDate as a calendar date in loc.
// Leading date-only prefixes of RFC 3339 timestamps are accepted.
func (g GoalSpecification) ParseTargetDate(loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(g.TargetDate)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysUntil returns ceil((target midnight - now midnight) / 1 day), both
// midnights taken in now's location. The result is not clamped: a target
// in the past yields a negative count and today yields zero.
func DaysUntil(target, now time.Time) int {
	t := calendarDay(target.In(now.Location()))
	n := calendarDay(now)
	return int(math.Ceil(t.Sub(n).Hours() / 24))
}

// calendarDay maps t's local calendar date onto UTC midnight so that DST
// shifts never produce 23 or 25 hour days.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
