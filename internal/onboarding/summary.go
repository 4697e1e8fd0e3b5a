package onboarding

import (
	"fmt"
	"strings"
)

// notSpecified is the fallback rendering for any missing answer.
const notSpecified = "Not specified"

// renderSummary formats the collected answers as the human-readable review
// shown on the confirmation step. Missing scalar fields render as
// "Not specified"; empty list fields are omitted entirely.
func renderSummary(a Answers) string {
	var lines []string

	lines = append(lines, "Programming: "+stringField(a.Software, "programming_level"))
	if langs := listField(a.Software, "languages_known"); len(langs) > 0 {
		lines = append(lines, "Languages: "+strings.Join(langs, ", "))
	}
	lines = append(lines, "AI Experience: "+stringField(a.Software, "ai_experience"))
	lines = append(lines, "Web Dev: "+stringField(a.Software, "web_dev_experience"))

	robotics := "No"
	if b, ok := a.Hardware["robotics_experience"].(bool); ok && b {
		robotics = "Yes"
	}
	lines = append(lines, "Robotics Experience: "+robotics)
	lines = append(lines, "Electronics: "+stringField(a.Hardware, "electronics_familiarity"))
	if hw := listField(a.Hardware, "hardware_access"); len(hw) > 0 {
		lines = append(lines, "Hardware: "+strings.Join(hw, ", "))
	}

	lines = append(lines, "Goal: "+stringField(a.Goals, "primary_interest"))

	return strings.Join(lines, "\n")
}

// stringField renders a scalar answer, falling back to "Not specified".
func stringField(group map[string]any, field string) string {
	v, ok := group[field]
	if !ok || v == nil {
		return notSpecified
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return notSpecified
		}
		return s
	}
	return fmt.Sprint(v)
}

// listField renders a multi-select answer as a string slice. JSON decoding
// yields []any, so both []string and []any are accepted.
func listField(group map[string]any, field string) []string {
	switch v := group[field].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return nil
}
