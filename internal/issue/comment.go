package issue

import (
	"regexp"
	"strconv"
	"strings"
)

// The comment decoder is the textual inverse of FormatAnalysis/CommentBody.
// Field extraction anchors on the fixed line prefixes and section markers of
// that template; the render→decode contract tests keep the two in lock-step.

var (
	categoryPattern   = regexp.MustCompile(`Category:\s*([^\n]+)`)
	complexityPattern = regexp.MustCompile(`Complexity:\s*(\w+)\s*\((\d)/5\)`)
	confidencePattern = regexp.MustCompile(`Confidence Score:\s*([\d.]+)/10`)
	effortPattern     = regexp.MustCompile(`Estimated Effort:\s*(\d+)\s*hours?`)

	// Each list section runs until the next section's marker or end-of-text.
	factorsPattern   = regexp.MustCompile(`(?s)🔍 Key Factors:(.*?)(?:⚠️|🔗|💭|$)`)
	blockersPattern  = regexp.MustCompile(`(?s)⚠️.*?Potential Blockers:(.*?)(?:🔗|💭|$)`)
	depsPattern      = regexp.MustCompile(`(?s)🔗 Dependencies:(.*?)(?:💭|$)`)
	reasoningPattern = regexp.MustCompile(`(?s)💭 Reasoning:\s*(.*?)(?:---|$)`)
)

// HasAnalysisMarker reports whether a comment body contains a previously
// posted analysis.
func HasAnalysisMarker(body string) bool {
	return strings.Contains(body, AnalysisMarker)
}

// ParseAnalysisComment recovers the structured analysis out of a rendered
// comment body. Missing or malformed fields take the fixed decode defaults
// (category unknown, complexity moderate, confidence 5.0, effort 8, lists
// empty); the function never fails. IssueNumber and Title are not part of
// the rendered field set and are left for the caller to fill in.
func ParseAnalysisComment(body string) *Analysis {
	a := &Analysis{
		Category:             CategoryUnknown,
		Complexity:           ComplexityModerate,
		ConfidenceScore:      5.0,
		EstimatedEffortHours: 8,
		KeyFactors:           []string{},
		Blockers:             []string{},
		Dependencies:         []string{},
	}

	if m := categoryPattern.FindStringSubmatch(body); m != nil {
		a.Category = ParseCategory(m[1])
	}
	if m := complexityPattern.FindStringSubmatch(body); m != nil {
		if knownComplexityName(m[1]) {
			a.Complexity = ParseComplexity(m[1])
		} else if v, err := strconv.Atoi(m[2]); err == nil {
			// Level name got mangled; the numeric value still pins the level.
			a.Complexity = ComplexityFromValue(v)
		}
	}
	if m := confidencePattern.FindStringSubmatch(body); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			a.ConfidenceScore = ClampScore(v)
		}
	}
	if m := effortPattern.FindStringSubmatch(body); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil && v >= 0 {
			a.EstimatedEffortHours = v
		}
	}

	a.KeyFactors = parseBulletSection(body, factorsPattern)
	a.Blockers = parseBulletSection(body, blockersPattern)
	a.Dependencies = parseBulletSection(body, depsPattern)

	if m := reasoningPattern.FindStringSubmatch(body); m != nil {
		a.Reasoning = strings.TrimSpace(m[1])
	}

	return a
}

// parseBulletSection extracts the bullet entries of one list section.
// Lines carrying the "None identified" sentinel decode to no entry.
func parseBulletSection(body string, pattern *regexp.Regexp) []string {
	items := []string{}
	m := pattern.FindStringSubmatch(body)
	if m == nil {
		return items
	}
	for _, line := range strings.Split(m[1], "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, "•") || strings.Contains(line, noneSentinel) {
			continue
		}
		item := strings.TrimSpace(strings.TrimLeft(line, "• "))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func knownComplexityName(s string) bool {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, n := range complexityNames {
		if n == name {
			return true
		}
	}
	return false
}
