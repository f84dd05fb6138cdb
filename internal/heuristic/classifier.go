// Package heuristic scores GitHub issues with a fixed rule/weight table.
// It is the offline stand-in for a Devin analysis session: Classify is a
// pure function of the issue record, never fails, and touches no network.
package heuristic

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/itstabya/devin-github-issues-integration/internal/issue"
)

// maxIssueRefs caps how many #N references become dependency entries.
const maxIssueRefs = 3

var issueRefPattern = regexp.MustCompile(`#(\d+)`)

// Classify produces an Analysis for the given issue record.
func Classify(rec *issue.Record) *issue.Analysis {
	text := strings.ToLower(rec.Title + " " + rec.Body)
	category := categorize(rec.Labels, text)
	complexity := scoreComplexity(rec, text)
	confidence := scoreConfidence(rec, category, complexity)
	factors := scanSignals(text, factorRules)

	// Blockers and dependencies also consider early discussion.
	discussion := discussionText(rec)
	blockers := scanSignals(discussion, blockerRules)
	dependencies := scanSignals(discussion, dependencyRules)
	dependencies = append(dependencies, issueRefs(discussion)...)

	return &issue.Analysis{
		IssueNumber:          rec.Number,
		Title:                rec.Title,
		Category:             category,
		Complexity:           complexity,
		ConfidenceScore:      confidence,
		EstimatedEffortHours: estimateEffort(rec, category, complexity),
		KeyFactors:           factors,
		Blockers:             blockers,
		Dependencies:         dependencies,
		Reasoning:            buildReasoning(category, complexity, confidence, factors, blockers),
	}
}

// categorize checks labels first (priority order, substring containment,
// first match wins), then falls back to scanning the issue text.
func categorize(labels []string, text string) issue.Category {
	for _, label := range labels {
		lower := strings.ToLower(label)
		for _, rule := range labelCategories {
			if containsAny(lower, rule.keywords) {
				return rule.category
			}
		}
	}
	for _, rule := range textCategories {
		if containsAny(text, rule.keywords) {
			return rule.category
		}
	}
	return issue.CategoryUnknown
}

// scoreComplexity accumulates the fixed complexity weights and maps the
// total onto the 1-5 scale.
func scoreComplexity(rec *issue.Record, text string) issue.ComplexityLevel {
	score := 0
	if len(rec.Body) > 1000 {
		score++
	}
	if len(rec.Comments) > 10 {
		score++
	}
	for _, kw := range complexityKeywords {
		if strings.Contains(text, kw) {
			score++
		}
	}
	for _, label := range rec.Labels {
		if containsAny(strings.ToLower(label), majorChangeLabels) {
			score += 2
		}
	}

	switch {
	case score <= 1:
		return issue.ComplexityTrivial
	case score <= 2:
		return issue.ComplexitySimple
	case score <= 4:
		return issue.ComplexityModerate
	case score <= 6:
		return issue.ComplexityComplex
	default:
		return issue.ComplexityVeryComplex
	}
}

// scoreConfidence starts from a 7.0 base and applies the fixed adjustments.
// The result is always clamped to [1.0, 10.0] and rounded to one decimal.
func scoreConfidence(rec *issue.Record, category issue.Category, complexity issue.ComplexityLevel) float64 {
	score := 7.0
	score += categoryConfidence[category]
	score += complexityConfidence[complexity]

	if len(rec.Body) > 200 {
		score += 0.5
	}
	if len(rec.Body) < 50 {
		score -= 1.0
	}
	if len(rec.Comments) > 5 {
		score -= 0.3
	}

	body := strings.ToLower(rec.Body)
	if containsAny(body, reproductionTerms) {
		score += 0.8
	}
	if containsAny(body, errorTerms) {
		score += 0.5
	}

	return issue.ClampScore(score)
}

// estimateEffort derives hours from the complexity base, scaled by category
// and discussion volume. Multipliers truncate toward zero.
func estimateEffort(rec *issue.Record, category issue.Category, complexity issue.ComplexityLevel) int {
	hours := effortBaseHours[complexity]

	switch category {
	case issue.CategoryDocumentation:
		hours /= 2
		if hours < 1 {
			hours = 1
		}
	case issue.CategorySecurity:
		hours = int(float64(hours) * 1.5)
	case issue.CategoryFeature:
		hours = int(float64(hours) * 1.2)
	}

	if len(rec.Comments) > 10 {
		hours = int(float64(hours) * 1.3)
	}

	return hours
}

// scanSignals returns the phrase of every rule whose keywords appear in the
// text, in table order.
func scanSignals(text string, rules []signalRule) []string {
	found := []string{}
	for _, rule := range rules {
		if containsAny(text, rule.keywords) {
			found = append(found, rule.phrase)
		}
	}
	return found
}

// issueRefs extracts up to maxIssueRefs "#N" references as dependencies.
func issueRefs(text string) []string {
	matches := issueRefPattern.FindAllStringSubmatch(text, maxIssueRefs)
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, "Issue #"+m[1])
	}
	return refs
}

// discussionText is the body plus the first three comments, lowercased.
func discussionText(rec *issue.Record) string {
	var sb strings.Builder
	sb.WriteString(rec.Body)
	for i, c := range rec.Comments {
		if i >= 3 {
			break
		}
		sb.WriteString(" ")
		sb.WriteString(c.Body)
	}
	return strings.ToLower(sb.String())
}

// buildReasoning assembles the deterministic explanation template.
func buildReasoning(category issue.Category, complexity issue.ComplexityLevel, confidence float64, factors, blockers []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Categorized as %s with %s complexity.", category, complexity.Name())

	switch {
	case confidence >= 8:
		sb.WriteString(" High confidence in resolution approach.")
	case confidence >= 6:
		sb.WriteString(" Moderate confidence in resolution approach.")
	default:
		sb.WriteString(" Low confidence - issue may require additional investigation.")
	}

	if len(factors) > 0 {
		fmt.Fprintf(&sb, " Key factors: %s.", strings.Join(factors, ", "))
	}
	if len(blockers) > 0 {
		fmt.Fprintf(&sb, " Potential blockers: %s.", strings.Join(blockers, ", "))
	}

	return sb.String()
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
