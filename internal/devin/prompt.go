package devin

import (
	"fmt"
	"strings"

	"github.com/itstabya/devin-github-issues-integration/internal/issue"
)

const (
	maxPromptBodyLen    = 1000
	maxPromptCommentLen = 200
	maxPromptComments   = 5
)

// AnalysisPrompt builds the prompt for an analysis session. The construction
// is deterministic: same record, same prompt.
func AnalysisPrompt(rec *issue.Record, owner, repo string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Please analyze this GitHub issue from %s/%s and provide a structured assessment:\n\n", owner, repo)
	fmt.Fprintf(&sb, "Issue #%d: %s\n\n", rec.Number, rec.Title)
	sb.WriteString(labelsLine(rec.Labels))
	fmt.Fprintf(&sb, "\n\nDescription:\n%s%s\n\n", truncate(rec.Body, maxPromptBodyLen), commentsBlock(rec.Comments))

	sb.WriteString(`Please provide your analysis in the following JSON format:
{
    "category": "bug|feature|documentation|enhancement|question|maintenance|security|performance|unknown",
    "complexity": "trivial|simple|moderate|complex|very_complex",
    "confidence_score": <float between 1.0 and 10.0>,
    "estimated_effort_hours": <integer>,
    "key_factors": ["factor1", "factor2", ...],
    "blockers": ["blocker1", "blocker2", ...],
    "dependencies": ["dep1", "dep2", ...],
    "reasoning": "Detailed explanation of your analysis and confidence score"
}

Focus on:
1. Categorizing the issue type accurately
2. Assessing complexity based on technical requirements
3. Providing a realistic confidence score for successful resolution
4. Identifying key factors that affect implementation
5. Noting any blockers or dependencies
6. Explaining your reasoning clearly

Be thorough but concise in your analysis.`)

	return sb.String()
}

// ResolutionPrompt builds the prompt for a resolution session, folding in
// the prior analysis so the agent executes instead of re-analyzing.
func ResolutionPrompt(rec *issue.Record, owner, repo string, analysis *issue.Analysis) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are tasked with resolving this GitHub issue from %s/%s. "+
		"A previous analysis has been completed and you should use this information to guide your resolution approach.\n\n", owner, repo)
	fmt.Fprintf(&sb, "Issue #%d: %s\n\n", rec.Number, rec.Title)
	sb.WriteString(labelsLine(rec.Labels))
	fmt.Fprintf(&sb, "\n\nDescription:\n%s%s\n\n", truncate(rec.Body, maxPromptBodyLen), commentsBlock(rec.Comments))

	sb.WriteString("Previous Analysis Results:\n")
	fmt.Fprintf(&sb, "- Category: %s\n", analysis.Category)
	fmt.Fprintf(&sb, "- Complexity: %s (%d/5)\n", analysis.Complexity.Name(), analysis.Complexity.Value())
	fmt.Fprintf(&sb, "- Confidence Score: %.1f/10\n", analysis.ConfidenceScore)
	fmt.Fprintf(&sb, "- Estimated Effort: %d hours\n", analysis.EstimatedEffortHours)
	fmt.Fprintf(&sb, "- Key Factors: %s\n", joinOrNone(analysis.KeyFactors))
	fmt.Fprintf(&sb, "- Potential Blockers: %s\n", joinOrNone(analysis.Blockers))
	fmt.Fprintf(&sb, "- Dependencies: %s\n", joinOrNone(analysis.Dependencies))
	fmt.Fprintf(&sb, "- Analysis Reasoning: %s\n\n", analysis.Reasoning)

	sb.WriteString(`Please follow these steps to execute the resolution:

1. **REVIEW THE ANALYSIS**: Use the provided analysis to understand the issue scope and approach
2. **EXECUTE THE RESOLUTION**: Implement the necessary changes based on the analysis insights
3. **ADDRESS KEY FACTORS**: Pay special attention to the identified key factors
4. **HANDLE BLOCKERS**: Work around or resolve any identified blockers
5. **MANAGE DEPENDENCIES**: Ensure dependencies are properly handled
6. **CREATE PULL REQUEST**: If code changes were made, create a PR with your changes
7. **REPORT RESULTS**: Provide a summary of what was accomplished

At the end of your session, please provide a structured summary in this JSON format:
{
    "execution_status": "success|partial_success|failed|blocked",
    "success_score": <float between 1.0 and 10.0>,
    "action_plan": ["step1", "step2", "step3", ...],
    "changes_made": ["change1", "change2", ...],
    "pr_created": true|false,
    "pr_url": "https://github.com/owner/repo/pull/123" or null,
    "blockers_encountered": ["blocker1", "blocker2", ...],
    "summary": "Detailed summary of what was accomplished and any remaining work"
}

Focus on:
- Using the provided analysis to guide your approach and avoid re-analyzing
- Implementing working solutions that address the core problem identified in the analysis
- Paying special attention to the key factors, blockers, and dependencies from the analysis
- Testing your changes to ensure they work correctly
- Creating a well-documented pull request if changes were made
- Providing clear feedback on success/failure and any remaining blockers

Be thorough in your implementation and testing. The analysis has already identified the scope and approach, so focus on execution rather than re-analysis.`)

	return sb.String()
}

func labelsLine(labels []string) string {
	if len(labels) == 0 {
		return "Labels: None"
	}
	return "Labels: " + strings.Join(labels, ", ")
}

// commentsBlock renders up to five comments, most recent first, each
// truncated. Empty when the issue has no comments.
func commentsBlock(comments []issue.Comment) string {
	if len(comments) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\nComments:\n")
	count := 0
	for i := len(comments) - 1; i >= 0 && count < maxPromptComments; i-- {
		author := comments[i].Author
		if author == "" {
			author = "Unknown"
		}
		fmt.Fprintf(&sb, "- %s: %s\n", author, truncate(comments[i].Body, maxPromptCommentLen))
		count++
	}
	return strings.TrimRight(sb.String(), "\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
