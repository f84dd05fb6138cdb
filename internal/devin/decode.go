package devin

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/itstabya/devin-github-issues-integration/internal/issue"
)

// Decode defaults applied when a field is missing or unusable. Enums fall
// back through their Parse functions; lists always come back non-nil.
const (
	defaultConfidence   = 5.0
	defaultEffortHours  = 8
	defaultSuccessScore = 5.0
)

// DecodePayload turns the raw structured output of a terminal session into
// key/value data. The strict path expects a JSON object. The lenient path
// handles a session that wrapped its JSON in free-form text: it decodes the
// string and extracts the first balanced object from it.
func DecodePayload(raw json.RawMessage) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err == nil {
		return payload, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		text = string(raw)
	}
	return ExtractJSON(text)
}

// ExtractJSON locates the first '{' and the last '}' in free-form text and
// decodes the substring between them.
func ExtractJSON(text string) (map[string]any, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found in session output")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode embedded JSON: %w", err)
	}
	return payload, nil
}

// DecodeAnalysis maps an analysis payload onto the Analysis record.
// Unrecognized enum values and malformed numbers take the fixed defaults;
// the function never fails.
func DecodeAnalysis(payload map[string]any, rec *issue.Record) *issue.Analysis {
	return &issue.Analysis{
		IssueNumber:          rec.Number,
		Title:                rec.Title,
		Category:             issue.ParseCategory(stringField(payload, "category")),
		Complexity:           complexityField(payload),
		ConfidenceScore:      issue.ClampScore(floatField(payload, "confidence_score", defaultConfidence)),
		EstimatedEffortHours: nonNegative(intField(payload, "estimated_effort_hours", defaultEffortHours), defaultEffortHours),
		KeyFactors:           listField(payload, "key_factors"),
		Blockers:             listField(payload, "blockers"),
		Dependencies:         listField(payload, "dependencies"),
		Reasoning:            stringFieldDefault(payload, "reasoning", "Analysis completed via Devin API"),
	}
}

// DecodeResolution maps a resolution payload onto the ResolutionResult.
// The session URL is derived from the session ID, never taken from the
// payload. SuccessScore gets the same [1.0, 10.0] clamp as ConfidenceScore.
func DecodeResolution(payload map[string]any, rec *issue.Record, sessionID string) *issue.ResolutionResult {
	return &issue.ResolutionResult{
		IssueNumber:         rec.Number,
		Title:               rec.Title,
		ExecutionStatus:     issue.ParseExecutionStatus(stringField(payload, "execution_status")),
		SuccessScore:        issue.ClampScore(floatField(payload, "success_score", defaultSuccessScore)),
		ActionPlan:          listField(payload, "action_plan"),
		ChangesMade:         listField(payload, "changes_made"),
		PRCreated:           boolField(payload, "pr_created"),
		PRURL:               stringField(payload, "pr_url"),
		BlockersEncountered: listField(payload, "blockers_encountered"),
		SessionURL:          SessionURL(sessionID),
		Summary:             stringFieldDefault(payload, "summary", "Resolution completed via Devin API"),
	}
}

// complexityField accepts both the flat string form ("moderate") and the
// {level, value} object form the comment decoder produces.
func complexityField(payload map[string]any) issue.ComplexityLevel {
	switch v := payload["complexity"].(type) {
	case string:
		return issue.ParseComplexity(v)
	case map[string]any:
		if level, ok := v["level"].(string); ok {
			return issue.ParseComplexity(level)
		}
		if value, ok := v["value"]; ok {
			return issue.ComplexityFromValue(coerceInt(value, int(issue.ComplexityModerate)))
		}
	}
	return issue.ComplexityModerate
}

func stringField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}

func stringFieldDefault(payload map[string]any, key, def string) string {
	if s, ok := payload[key].(string); ok && s != "" {
		return s
	}
	return def
}

func floatField(payload map[string]any, key string, def float64) float64 {
	switch v := payload[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func intField(payload map[string]any, key string, def int) int {
	return coerceInt(payload[key], def)
}

func coerceInt(v any, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return def
}

func nonNegative(v, def int) int {
	if v < 0 {
		return def
	}
	return v
}

func boolField(payload map[string]any, key string) bool {
	b, _ := payload[key].(bool)
	return b
}

func listField(payload map[string]any, key string) []string {
	items := []string{}
	raw, ok := payload[key].([]any)
	if !ok {
		return items
	}
	for _, entry := range raw {
		if s, ok := entry.(string); ok {
			items = append(items, s)
		}
	}
	return items
}
