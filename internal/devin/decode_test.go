package devin

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/itstabya/devin-github-issues-integration/internal/issue"
)

func TestDecodePayloadObject(t *testing.T) {
	payload, err := DecodePayload(json.RawMessage(`{"category": "bug"}`))
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if payload["category"] != "bug" {
		t.Errorf("category = %v, want bug", payload["category"])
	}
}

func TestDecodePayloadJSONString(t *testing.T) {
	// A session may report its JSON wrapped in a string, with prose around it.
	raw := json.RawMessage(`"Here is my analysis: {\"category\": \"feature\", \"confidence_score\": 6.5} hope it helps"`)
	payload, err := DecodePayload(raw)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if payload["category"] != "feature" {
		t.Errorf("category = %v, want feature", payload["category"])
	}
}

func TestDecodePayloadBareText(t *testing.T) {
	payload, err := DecodePayload(json.RawMessage("analysis follows {\"category\": \"question\"} done"))
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if payload["category"] != "question" {
		t.Errorf("category = %v, want question", payload["category"])
	}
}

func TestDecodePayloadNoJSON(t *testing.T) {
	if _, err := DecodePayload(json.RawMessage(`"no structured data here"`)); err == nil {
		t.Error("expected error for payload without a JSON object")
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain object", `{"a": 1}`, false},
		{"embedded", `text before {"a": 1} text after`, false},
		{"no braces", "nothing here", true},
		{"reversed braces", "} {", true},
		{"unbalanced", `{"a": `, true},
	}

	for _, tt := range tests {
		_, err := ExtractJSON(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestDecodeAnalysisFull(t *testing.T) {
	rec := &issue.Record{Number: 55, Title: "Broken pagination"}
	payload := map[string]any{
		"category":               "bug",
		"complexity":             "complex",
		"confidence_score":       7.8,
		"estimated_effort_hours": float64(16),
		"key_factors":            []any{"clear repro"},
		"blockers":               []any{},
		"dependencies":           []any{"auth service"},
		"reasoning":              "Well understood failure mode.",
	}

	a := DecodeAnalysis(payload, rec)

	if a.IssueNumber != 55 || a.Title != "Broken pagination" {
		t.Errorf("identity not taken from record: %+v", a)
	}
	if a.Category != issue.CategoryBug || a.Complexity != issue.ComplexityComplex {
		t.Errorf("enums wrong: %+v", a)
	}
	if a.ConfidenceScore != 7.8 || a.EstimatedEffortHours != 16 {
		t.Errorf("numbers wrong: %+v", a)
	}
	if !reflect.DeepEqual(a.KeyFactors, []string{"clear repro"}) {
		t.Errorf("KeyFactors = %v", a.KeyFactors)
	}
	if a.Reasoning != "Well understood failure mode." {
		t.Errorf("Reasoning = %q", a.Reasoning)
	}
}

func TestDecodeAnalysisDefaults(t *testing.T) {
	a := DecodeAnalysis(map[string]any{}, &issue.Record{Number: 1})

	if a.Category != issue.CategoryUnknown {
		t.Errorf("Category = %q, want unknown", a.Category)
	}
	if a.Complexity != issue.ComplexityModerate {
		t.Errorf("Complexity = %v, want moderate", a.Complexity)
	}
	if a.ConfidenceScore != 5.0 {
		t.Errorf("ConfidenceScore = %v, want 5.0", a.ConfidenceScore)
	}
	if a.EstimatedEffortHours != 8 {
		t.Errorf("EstimatedEffortHours = %d, want 8", a.EstimatedEffortHours)
	}
	if a.KeyFactors == nil || a.Blockers == nil || a.Dependencies == nil {
		t.Error("lists must decode to empty, not nil")
	}
	if a.Reasoning != "Analysis completed via Devin API" {
		t.Errorf("Reasoning = %q", a.Reasoning)
	}
}

func TestDecodeAnalysisCoercions(t *testing.T) {
	a := DecodeAnalysis(map[string]any{
		"category":               "BANANA",
		"complexity":             map[string]any{"level": "simple", "value": float64(2)},
		"confidence_score":       "8.4",
		"estimated_effort_hours": "-3",
		"key_factors":            []any{"ok", float64(7), "also ok"},
	}, &issue.Record{})

	if a.Category != issue.CategoryUnknown {
		t.Errorf("Category = %q, want unknown", a.Category)
	}
	if a.Complexity != issue.ComplexitySimple {
		t.Errorf("Complexity = %v, want simple", a.Complexity)
	}
	if a.ConfidenceScore != 8.4 {
		t.Errorf("ConfidenceScore = %v, want 8.4", a.ConfidenceScore)
	}
	// Negative effort falls back to the default.
	if a.EstimatedEffortHours != 8 {
		t.Errorf("EstimatedEffortHours = %d, want 8", a.EstimatedEffortHours)
	}
	// Non-string list entries are dropped.
	if !reflect.DeepEqual(a.KeyFactors, []string{"ok", "also ok"}) {
		t.Errorf("KeyFactors = %v", a.KeyFactors)
	}
}

func TestDecodeAnalysisClampsConfidence(t *testing.T) {
	a := DecodeAnalysis(map[string]any{"confidence_score": 42.0}, &issue.Record{})
	if a.ConfidenceScore != 10.0 {
		t.Errorf("ConfidenceScore = %v, want 10.0", a.ConfidenceScore)
	}
}

func TestDecodeResolution(t *testing.T) {
	rec := &issue.Record{Number: 9, Title: "Flaky CI"}
	payload := map[string]any{
		"execution_status":     "partial_success",
		"success_score":        11.0,
		"action_plan":          []any{"inspect", "fix"},
		"changes_made":         []any{"pinned runner image"},
		"pr_created":           true,
		"pr_url":               "https://github.com/o/r/pull/3",
		"blockers_encountered": []any{"one test still red"},
		"session_url":          "https://evil.example/spoofed",
		"summary":              "Mostly fixed.",
	}

	r := DecodeResolution(payload, rec, "devin-abc")

	if r.ExecutionStatus != issue.StatusPartialSuccess {
		t.Errorf("ExecutionStatus = %q", r.ExecutionStatus)
	}
	if r.SuccessScore != 10.0 {
		t.Errorf("SuccessScore = %v, want clamped 10.0", r.SuccessScore)
	}
	// The session URL is always derived from the session ID.
	if r.SessionURL != "https://app.devin.ai/sessions/devin-abc" {
		t.Errorf("SessionURL = %q", r.SessionURL)
	}
	if !r.PRCreated || r.PRURL != "https://github.com/o/r/pull/3" {
		t.Errorf("PR fields wrong: %+v", r)
	}
}

func TestDecodeResolutionDefaults(t *testing.T) {
	r := DecodeResolution(map[string]any{}, &issue.Record{Number: 2}, "s1")

	if r.ExecutionStatus != issue.StatusFailed {
		t.Errorf("ExecutionStatus = %q, want failed", r.ExecutionStatus)
	}
	if r.SuccessScore != 5.0 {
		t.Errorf("SuccessScore = %v, want 5.0", r.SuccessScore)
	}
	if r.PRCreated || r.PRURL != "" {
		t.Errorf("PR fields should default to false/empty: %+v", r)
	}
	if r.Summary != "Resolution completed via Devin API" {
		t.Errorf("Summary = %q", r.Summary)
	}
}
