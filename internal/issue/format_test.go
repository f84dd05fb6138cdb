package issue

import (
	"strings"
	"testing"
)

func TestFormatAnalysisConfidenceEmoji(t *testing.T) {
	tests := []struct {
		score float64
		emoji string
	}{
		{8.0, "🟢"},
		{7.0, "🟢"},
		{6.9, "🟡"},
		{5.0, "🟡"},
		{4.9, "🔴"},
		{1.0, "🔴"},
	}

	for _, tt := range tests {
		out := FormatAnalysis(&Analysis{ConfidenceScore: tt.score})
		if !strings.Contains(out, tt.emoji+" Issue #") {
			t.Errorf("score %v: missing %s header in:\n%s", tt.score, tt.emoji, out)
		}
	}
}

func TestFormatAnalysisFields(t *testing.T) {
	out := FormatAnalysis(&Analysis{
		IssueNumber:          12,
		Title:                "Fix login",
		Category:             CategoryBug,
		Complexity:           ComplexitySimple,
		ConfidenceScore:      8.5,
		EstimatedEffortHours: 3,
		Reasoning:            "Small scoped fix.",
	})

	for _, want := range []string{
		"Issue #12: Fix login",
		"Category: Bug",
		"Complexity: Simple (2/5)",
		"Confidence Score: 8.5/10",
		"Estimated Effort: 3 hours",
		"• None identified",
		"Small scoped fix.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatResolution(t *testing.T) {
	out := FormatResolution(&ResolutionResult{
		IssueNumber:     9,
		Title:           "Broken build",
		ExecutionStatus: StatusPartialSuccess,
		SuccessScore:    6.0,
		ActionPlan:      []string{"reproduce", "patch", "test"},
		ChangesMade:     []string{"fixed Makefile"},
		PRCreated:       true,
		PRURL:           "https://github.com/o/r/pull/5",
		SessionURL:      "https://app.devin.ai/sessions/abc",
		Summary:         "Patched the build, one test still flaky.",
	})

	for _, want := range []string{
		"🟡 Issue #9: Broken build",
		"Status: Partial Success",
		"Success Score: 6.0/10",
		"PR Created: Yes",
		"PR URL: https://github.com/o/r/pull/5",
		"1. reproduce",
		"3. test",
		"• fixed Makefile",
		"Session URL: https://app.devin.ai/sessions/abc",
		"one test still flaky",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatResolutionEmptySections(t *testing.T) {
	out := FormatResolution(&ResolutionResult{ExecutionStatus: StatusFailed})

	for _, want := range []string{
		"🔴 Issue #0",
		"• No action plan provided",
		"• No changes documented",
		"• None",
		"PR Created: No",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "PR URL:") {
		t.Error("PR URL line rendered for empty URL")
	}
}
