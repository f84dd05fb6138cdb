// Package issue defines the data model shared by the classifier, the Devin
// session orchestration, and the comment round-trip codec.
package issue

import (
	"math"
	"strings"
	"time"
)

// Category classifies what kind of work an issue represents.
// The set is closed; anything unrecognized decodes to CategoryUnknown.
type Category string

const (
	CategoryBug           Category = "bug"
	CategoryFeature       Category = "feature"
	CategoryDocumentation Category = "documentation"
	CategoryEnhancement   Category = "enhancement"
	CategoryQuestion      Category = "question"
	CategoryMaintenance   Category = "maintenance"
	CategorySecurity      Category = "security"
	CategoryPerformance   Category = "performance"
	CategoryUnknown       Category = "unknown"
)

var categories = map[string]Category{
	"bug":           CategoryBug,
	"feature":       CategoryFeature,
	"documentation": CategoryDocumentation,
	"enhancement":   CategoryEnhancement,
	"question":      CategoryQuestion,
	"maintenance":   CategoryMaintenance,
	"security":      CategorySecurity,
	"performance":   CategoryPerformance,
	"unknown":       CategoryUnknown,
}

// ParseCategory maps a string onto the closed category set.
// Unrecognized or empty input yields CategoryUnknown.
func ParseCategory(s string) Category {
	if c, ok := categories[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c
	}
	return CategoryUnknown
}

// Title returns the category in display form, e.g. "Bug".
func (c Category) Title() string {
	if c == "" {
		return CategoryUnknown.Title()
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// ComplexityLevel is an ordered 1-5 scale.
type ComplexityLevel int

const (
	ComplexityTrivial ComplexityLevel = iota + 1
	ComplexitySimple
	ComplexityModerate
	ComplexityComplex
	ComplexityVeryComplex
)

var complexityNames = map[ComplexityLevel]string{
	ComplexityTrivial:     "trivial",
	ComplexitySimple:      "simple",
	ComplexityModerate:    "moderate",
	ComplexityComplex:     "complex",
	ComplexityVeryComplex: "very_complex",
}

// ParseComplexity maps a level name onto the scale.
// Unrecognized input yields ComplexityModerate.
func ParseComplexity(s string) ComplexityLevel {
	name := strings.ToLower(strings.TrimSpace(s))
	for level, n := range complexityNames {
		if n == name {
			return level
		}
	}
	return ComplexityModerate
}

// ComplexityFromValue maps a 1-5 numeric value onto the scale, defaulting to
// ComplexityModerate for anything out of range.
func ComplexityFromValue(v int) ComplexityLevel {
	if v >= int(ComplexityTrivial) && v <= int(ComplexityVeryComplex) {
		return ComplexityLevel(v)
	}
	return ComplexityModerate
}

// Name returns the lowercase level name, e.g. "very_complex".
func (l ComplexityLevel) Name() string {
	if n, ok := complexityNames[l]; ok {
		return n
	}
	return complexityNames[ComplexityModerate]
}

// Title returns the level in display form, e.g. "Very_Complex".
// The underscore form is part of the rendered comment contract.
func (l ComplexityLevel) Title() string {
	n := l.Name()
	parts := strings.Split(n, "_")
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "_")
}

// Value returns the numeric 1-5 value, normalizing out-of-range levels.
func (l ComplexityLevel) Value() int {
	if l < ComplexityTrivial || l > ComplexityVeryComplex {
		return int(ComplexityModerate)
	}
	return int(l)
}

// ClampScore bounds a score to the [1.0, 10.0] convention and rounds it to
// one decimal place.
func ClampScore(v float64) float64 {
	if v < 1.0 {
		v = 1.0
	}
	if v > 10.0 {
		v = 10.0
	}
	return math.Round(v*10) / 10
}

// Comment is a single comment on an issue, in creation order.
type Comment struct {
	Author    string
	Body      string
	CreatedAt time.Time
}

// Record is the normalized issue as fetched from GitHub. It is immutable for
// the duration of one analysis or resolution operation.
type Record struct {
	Number   int
	Title    string
	Body     string
	Labels   []string
	Comments []Comment
}

// Analysis is the structured assessment of a single issue, produced either
// by a Devin session or by the offline heuristic classifier.
type Analysis struct {
	IssueNumber          int
	Title                string
	Category             Category
	Complexity           ComplexityLevel
	ConfidenceScore      float64 // always within [1.0, 10.0]
	EstimatedEffortHours int
	KeyFactors           []string
	Blockers             []string
	Dependencies         []string
	Reasoning            string
}

// Flat returns the machine-consumable key/value shape of the analysis:
// enums reduced to strings, complexity split into level+value, list order
// preserved.
func (a *Analysis) Flat() map[string]any {
	return map[string]any{
		"issue_number": a.IssueNumber,
		"title":        a.Title,
		"category":     string(a.Category),
		"complexity": map[string]any{
			"level": a.Complexity.Name(),
			"value": a.Complexity.Value(),
		},
		"confidence_score":       a.ConfidenceScore,
		"estimated_effort_hours": a.EstimatedEffortHours,
		"key_factors":            emptyIfNil(a.KeyFactors),
		"blockers":               emptyIfNil(a.Blockers),
		"dependencies":           emptyIfNil(a.Dependencies),
		"reasoning":              a.Reasoning,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
