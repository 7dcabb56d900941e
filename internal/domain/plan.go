package domain

// PlanResult is the outcome of one generation request. Exactly one of Plan
// or Error is populated; build values with NewPlanSuccess / NewPlanFailure.
type PlanResult struct {
	Plan  string
	Error string
	ok    bool
}

// NewPlanSuccess wraps generated plan text. An empty plan is still a success.
func NewPlanSuccess(plan string) PlanResult {
	return PlanResult{Plan: plan, ok: true}
}

// NewPlanFailure wraps a user-facing failure message.
func NewPlanFailure(message string) PlanResult {
	return PlanResult{Error: message}
}

// Succeeded reports whether the result carries a plan.
func (r PlanResult) Succeeded() bool { return r.ok }
