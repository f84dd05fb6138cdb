package heuristic

import "github.com/itstabya/devin-github-issues-integration/internal/issue"

// Fixed keyword and weight tables. These are lookup configuration, not
// state: nothing mutates them after init, which keeps Classify pure.

// categoryRule pairs a category with the keywords that indicate it.
type categoryRule struct {
	category issue.Category
	keywords []string
}

// labelCategories is tested per label, in this priority order, with
// substring containment. First match wins.
var labelCategories = []categoryRule{
	{issue.CategoryBug, []string{"bug"}},
	{issue.CategoryFeature, []string{"feature"}},
	{issue.CategoryEnhancement, []string{"enhancement"}},
	{issue.CategoryDocumentation, []string{"documentation", "docs"}},
	{issue.CategoryQuestion, []string{"question"}},
	{issue.CategorySecurity, []string{"security"}},
	{issue.CategoryPerformance, []string{"performance"}},
}

// textCategories is the fallback when no label matches: the sets are tested
// against lowercased title+body in this order, first satisfied set wins.
var textCategories = []categoryRule{
	{issue.CategoryBug, []string{"bug", "error", "crash", "broken", "fails", "failure", "exception", "regression", "defect"}},
	{issue.CategoryFeature, []string{"feature", "implement", "add support", "feature request", "new functionality"}},
	{issue.CategoryEnhancement, []string{"enhancement", "enhance", "improve", "improvement", "optimize"}},
	{issue.CategoryDocumentation, []string{"documentation", "docs", "readme", "typo", "tutorial"}},
	{issue.CategoryQuestion, []string{"question", "how do i", "how to", "what is", "clarification"}},
	{issue.CategorySecurity, []string{"security", "vulnerability", "cve", "exploit", "injection"}},
	{issue.CategoryPerformance, []string{"performance", "slow", "latency", "memory leak", "bottleneck"}},
}

// complexityKeywords each add 1 to the complexity score when present in
// title+body, counted at most once per keyword.
var complexityKeywords = []string{
	"refactor",
	"architecture",
	"database",
	"migration",
	"breaking change",
	"api change",
	"concurrency",
	"distributed",
	"integration",
	"redesign",
	"performance",
}

// majorChangeLabels add 2 to the complexity score per matching label.
var majorChangeLabels = []string{"breaking", "major", "epic", "overhaul"}

// categoryConfidence is the fixed per-category confidence adjustment applied
// to the 7.0 base.
var categoryConfidence = map[issue.Category]float64{
	issue.CategoryBug:           0.5,
	issue.CategoryFeature:       -0.5,
	issue.CategoryDocumentation: 1.5,
	issue.CategoryEnhancement:   0.5,
	issue.CategoryQuestion:      1.0,
	issue.CategoryMaintenance:   0.0,
	issue.CategorySecurity:      -1.0,
	issue.CategoryPerformance:   -0.5,
	issue.CategoryUnknown:       -1.0,
}

// complexityConfidence is the fixed per-level confidence adjustment.
var complexityConfidence = map[issue.ComplexityLevel]float64{
	issue.ComplexityTrivial:     2.0,
	issue.ComplexitySimple:      1.0,
	issue.ComplexityModerate:    0.0,
	issue.ComplexityComplex:     -1.5,
	issue.ComplexityVeryComplex: -3.0,
}

// effortBaseHours is the base estimate per complexity level.
var effortBaseHours = map[issue.ComplexityLevel]int{
	issue.ComplexityTrivial:     1,
	issue.ComplexitySimple:      3,
	issue.ComplexityModerate:    8,
	issue.ComplexityComplex:     20,
	issue.ComplexityVeryComplex: 40,
}

var reproductionTerms = []string{"reproduce", "reproduction"}

var errorTerms = []string{"error", "exception", "stack trace", "traceback"}

// signalRule maps trigger keywords to the short phrase recorded in the
// analysis lists. Discovery order = table order.
type signalRule struct {
	keywords []string
	phrase   string
}

// factorRules scan title+body.
var factorRules = []signalRule{
	{[]string{"reproduce", "reproduction"}, "Reproduction steps provided"},
	{[]string{"error", "exception", "stack trace", "traceback"}, "Error details included"},
	{[]string{"test"}, "Testing considerations mentioned"},
	{[]string{"screenshot", "attached", "attachment"}, "Supporting material attached"},
	{[]string{"workaround"}, "Workaround already known"},
}

// blockerRules scan body plus the first three comments.
var blockerRules = []signalRule{
	{[]string{"blocked"}, "Explicitly marked as blocked"},
	{[]string{"waiting on", "waiting for"}, "Waiting on external input"},
	{[]string{"need more info", "needs more info", "more information"}, "Insufficient information"},
	{[]string{"cannot reproduce", "can't reproduce"}, "Reproduction difficulties reported"},
	{[]string{"upstream"}, "Depends on upstream changes"},
}

// dependencyRules scan body plus the first three comments; issue references
// of the form #N are extracted separately.
var dependencyRules = []signalRule{
	{[]string{"depends on"}, "Depends on other work"},
	{[]string{"requires"}, "Requires prerequisite changes"},
	{[]string{"third-party", "third party", "external library"}, "External dependency involved"},
}
