package issue

import "strings"

// ExecutionStatus is the closed set of outcomes a resolution session can
// report. Anything unrecognized decodes to StatusFailed.
type ExecutionStatus string

const (
	StatusSuccess        ExecutionStatus = "success"
	StatusPartialSuccess ExecutionStatus = "partial_success"
	StatusFailed         ExecutionStatus = "failed"
	StatusBlocked        ExecutionStatus = "blocked"
	StatusInProgress     ExecutionStatus = "in_progress"
)

var executionStatuses = map[string]ExecutionStatus{
	"success":         StatusSuccess,
	"partial_success": StatusPartialSuccess,
	"failed":          StatusFailed,
	"blocked":         StatusBlocked,
	"in_progress":     StatusInProgress,
}

// ParseExecutionStatus maps a string onto the closed status set, defaulting
// to StatusFailed.
func ParseExecutionStatus(s string) ExecutionStatus {
	if st, ok := executionStatuses[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st
	}
	return StatusFailed
}

// Title returns the status in display form, e.g. "Partial Success".
func (s ExecutionStatus) Title() string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// ResolutionResult is the structured outcome of a resolution session.
type ResolutionResult struct {
	IssueNumber         int
	Title               string
	ExecutionStatus     ExecutionStatus
	SuccessScore        float64 // clamped to [1.0, 10.0], same as ConfidenceScore
	ActionPlan          []string
	ChangesMade         []string
	PRCreated           bool
	PRURL               string
	BlockersEncountered []string
	SessionURL          string
	Summary             string
}

// Flat returns the machine-consumable key/value shape of the result.
func (r *ResolutionResult) Flat() map[string]any {
	var prURL any
	if r.PRURL != "" {
		prURL = r.PRURL
	}
	return map[string]any{
		"issue_number":         r.IssueNumber,
		"title":                r.Title,
		"execution_status":     string(r.ExecutionStatus),
		"success_score":        r.SuccessScore,
		"action_plan":          emptyIfNil(r.ActionPlan),
		"changes_made":         emptyIfNil(r.ChangesMade),
		"pr_created":           r.PRCreated,
		"pr_url":               prURL,
		"blockers_encountered": emptyIfNil(r.BlockersEncountered),
		"session_url":          r.SessionURL,
		"summary":              r.Summary,
	}
}
