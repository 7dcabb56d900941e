package contract

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// FlexNumber carries an hours value exactly as the caller wrote it. JSON
// numbers and strings are both accepted so that non-numeric input reaches
// the prompt instead of failing the decode.
type FlexNumber string

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = FlexNumber(s)
		return nil
	}
	*n = FlexNumber(data)
	return nil
}

func (n FlexNumber) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(n))
	if isJSONNumber(s) {
		return []byte(s), nil
	}
	return json.Marshal(string(n))
}

func isJSONNumber(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}
	return json.Valid([]byte(s))
}

// PlanRequest is the body of POST /api/plan.
type PlanRequest struct {
	ExamName   string     `json:"examName"`
	ExamDate   string     `json:"examDate"`
	DailyHours FlexNumber `json:"dailyHours"`
	WeakAreas  string     `json:"weakAreas"`
	TotalHours FlexNumber `json:"totalHours"`
}

// Goal converts the wire request into the domain goal.
func (r PlanRequest) Goal() domain.GoalSpecification {
	return domain.GoalSpecification{
		Name:       r.ExamName,
		TargetDate: r.ExamDate,
		DailyHours: string(r.DailyHours),
		WeakAreas:  r.WeakAreas,
		TotalHours: string(r.TotalHours),
	}
}

// PlanResponse is the 200 body of POST /api/plan.
type PlanResponse struct {
	Plan string `json:"plan"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of GET /api/message.
type MessageResponse struct {
	Message string `json:"message"`
}

// EncodePlanResult picks the wire shape for r. The returned value marshals
// to an object with exactly one field.
func EncodePlanResult(r domain.PlanResult) any {
	if r.Succeeded() {
		return PlanResponse{Plan: r.Plan}
	}
	return ErrorResponse{Error: r.Error}
}

// planResultWire is the decode target for either variant.
type planResultWire struct {
	Plan  *string `json:"plan"`
	Error *string `json:"error"`
}

// DecodePlanResult parses a gateway response body. A body carrying a
// non-empty error is a failure; otherwise a present plan is a success.
// ok is false when neither variant is present.
func DecodePlanResult(body []byte) (result domain.PlanResult, ok bool) {
	var w planResultWire
	if err := json.Unmarshal(body, &w); err != nil {
		return domain.PlanResult{}, false
	}
	switch {
	case w.Error != nil && *w.Error != "":
		return domain.NewPlanFailure(*w.Error), true
	case w.Plan != nil:
		return domain.NewPlanSuccess(*w.Plan), true
	default:
		return domain.PlanResult{}, false
	}
}
