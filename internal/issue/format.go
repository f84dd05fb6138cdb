package issue

import (
	"fmt"
	"strings"
)

// AnalysisMarker identifies a previously posted analysis comment. The
// comment decoder scans for it; changing it orphans every existing comment.
const AnalysisMarker = "🤖 Devin Analysis Results"

// noneSentinel is rendered for empty list sections and treated as "no
// entries" when decoding, never as a list item.
const noneSentinel = "None identified"

// FormatAnalysis renders an analysis as the human-readable report. The
// layout is a fixed contract: ParseAnalysisComment is its inverse and any
// change here must be mirrored there.
func FormatAnalysis(a *Analysis) string {
	emoji := "🔴"
	switch {
	case a.ConfidenceScore >= 7:
		emoji = "🟢"
	case a.ConfidenceScore >= 5:
		emoji = "🟡"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s Issue #%d: %s\n\n", emoji, a.IssueNumber, a.Title)
	sb.WriteString("📊 Analysis Results:\n")
	fmt.Fprintf(&sb, "   Category: %s\n", a.Category.Title())
	fmt.Fprintf(&sb, "   Complexity: %s (%d/5)\n", a.Complexity.Title(), a.Complexity.Value())
	fmt.Fprintf(&sb, "   Confidence Score: %s/10\n", formatScore(a.ConfidenceScore))
	fmt.Fprintf(&sb, "   Estimated Effort: %d hours\n\n", a.EstimatedEffortHours)

	sb.WriteString("🔍 Key Factors:\n")
	writeBullets(&sb, a.KeyFactors)
	sb.WriteString("\n⚠️  Potential Blockers:\n")
	writeBullets(&sb, a.Blockers)
	sb.WriteString("\n🔗 Dependencies:\n")
	writeBullets(&sb, a.Dependencies)
	fmt.Fprintf(&sb, "\n💭 Reasoning:\n   %s\n", a.Reasoning)

	return sb.String()
}

// FormatResolution renders a resolution result for display.
func FormatResolution(r *ResolutionResult) string {
	emoji := map[ExecutionStatus]string{
		StatusSuccess:        "🟢",
		StatusPartialSuccess: "🟡",
		StatusFailed:         "🔴",
		StatusBlocked:        "⚠️",
		StatusInProgress:     "🔄",
	}[r.ExecutionStatus]
	if emoji == "" {
		emoji = "❓"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s Issue #%d: %s\n\n", emoji, r.IssueNumber, r.Title)
	sb.WriteString("🎯 Resolution Results:\n")
	fmt.Fprintf(&sb, "   Status: %s\n", r.ExecutionStatus.Title())
	fmt.Fprintf(&sb, "   Success Score: %s/10\n", formatScore(r.SuccessScore))
	fmt.Fprintf(&sb, "   PR Created: %s\n", yesNo(r.PRCreated))
	if r.PRURL != "" {
		fmt.Fprintf(&sb, "   PR URL: %s\n", r.PRURL)
	}

	sb.WriteString("\n📋 Action Plan:\n")
	if len(r.ActionPlan) == 0 {
		sb.WriteString("   • No action plan provided\n")
	} else {
		for i, step := range r.ActionPlan {
			fmt.Fprintf(&sb, "   %d. %s\n", i+1, step)
		}
	}

	sb.WriteString("\n✅ Changes Made:\n")
	if len(r.ChangesMade) == 0 {
		sb.WriteString("   • No changes documented\n")
	} else {
		for _, change := range r.ChangesMade {
			fmt.Fprintf(&sb, "   • %s\n", change)
		}
	}

	sb.WriteString("\n⚠️  Blockers Encountered:\n")
	if len(r.BlockersEncountered) == 0 {
		sb.WriteString("   • None\n")
	} else {
		for _, blocker := range r.BlockersEncountered {
			fmt.Fprintf(&sb, "   • %s\n", blocker)
		}
	}

	fmt.Fprintf(&sb, "\n🔗 Session URL: %s\n", r.SessionURL)
	fmt.Fprintf(&sb, "\n📝 Summary:\n   %s\n", r.Summary)

	return sb.String()
}

// CommentBody wraps a rendered analysis in the markdown posted to GitHub.
func CommentBody(a *Analysis) string {
	return fmt.Sprintf(`## %s

%s

---
*This analysis was generated automatically by [Devin GitHub Issues Integration](https://github.com/itstabya/devin-github-issues-integration)*`,
		AnalysisMarker, FormatAnalysis(a))
}

func writeBullets(sb *strings.Builder, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(sb, "   • %s\n", noneSentinel)
		return
	}
	for _, item := range items {
		fmt.Fprintf(sb, "   • %s\n", item)
	}
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
