package issue

import (
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{"bug", CategoryBug},
		{"Bug", CategoryBug},
		{"  FEATURE  ", CategoryFeature},
		{"documentation", CategoryDocumentation},
		{"security", CategorySecurity},
		{"", CategoryUnknown},
		{"banana", CategoryUnknown},
		{"bugs", CategoryUnknown},
	}

	for _, tt := range tests {
		if got := ParseCategory(tt.input); got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseComplexity(t *testing.T) {
	tests := []struct {
		input string
		want  ComplexityLevel
	}{
		{"trivial", ComplexityTrivial},
		{"Simple", ComplexitySimple},
		{"moderate", ComplexityModerate},
		{"complex", ComplexityComplex},
		{"very_complex", ComplexityVeryComplex},
		{"VERY_COMPLEX", ComplexityVeryComplex},
		{"", ComplexityModerate},
		{"impossible", ComplexityModerate},
	}

	for _, tt := range tests {
		if got := ParseComplexity(tt.input); got != tt.want {
			t.Errorf("ParseComplexity(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestComplexityFromValue(t *testing.T) {
	tests := []struct {
		input int
		want  ComplexityLevel
	}{
		{1, ComplexityTrivial},
		{3, ComplexityModerate},
		{5, ComplexityVeryComplex},
		{0, ComplexityModerate},
		{6, ComplexityModerate},
		{-2, ComplexityModerate},
	}

	for _, tt := range tests {
		if got := ComplexityFromValue(tt.input); got != tt.want {
			t.Errorf("ComplexityFromValue(%d) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestComplexityTitle(t *testing.T) {
	if got := ComplexityVeryComplex.Title(); got != "Very_Complex" {
		t.Errorf("Title() = %q, want %q", got, "Very_Complex")
	}
	if got := ComplexityTrivial.Title(); got != "Trivial" {
		t.Errorf("Title() = %q, want %q", got, "Trivial")
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		input float64
		want  float64
	}{
		{5.0, 5.0},
		{0.3, 1.0},
		{-4, 1.0},
		{12.5, 10.0},
		{7.25, 7.3},
		{7.24, 7.2},
		{1.0, 1.0},
		{10.0, 10.0},
	}

	for _, tt := range tests {
		if got := ClampScore(tt.input); got != tt.want {
			t.Errorf("ClampScore(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestAnalysisFlat(t *testing.T) {
	a := &Analysis{
		IssueNumber:          42,
		Title:                "panic on startup",
		Category:             CategoryBug,
		Complexity:           ComplexityComplex,
		ConfidenceScore:      8.5,
		EstimatedEffortHours: 20,
	}

	flat := a.Flat()

	complexity, ok := flat["complexity"].(map[string]any)
	if !ok {
		t.Fatalf("complexity is %T, want map", flat["complexity"])
	}
	if complexity["level"] != "complex" || complexity["value"] != 4 {
		t.Errorf("complexity = %v, want level=complex value=4", complexity)
	}

	// Nil lists must flatten to empty, never null.
	for _, key := range []string{"key_factors", "blockers", "dependencies"} {
		list, ok := flat[key].([]string)
		if !ok || list == nil {
			t.Errorf("%s = %v (%T), want empty []string", key, flat[key], flat[key])
		}
	}
}
