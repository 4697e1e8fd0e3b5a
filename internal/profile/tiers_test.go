package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierOf(t *testing.T) {
	tests := []struct {
		name     string
		software map[string]any
		want     Tier
	}{
		{
			name:     "empty profile defaults to beginner",
			software: map[string]any{},
			want:     TierBeginner,
		},
		{
			name: "all none is beginner",
			software: map[string]any{
				"programming_level":  "beginner",
				"ai_experience":      "none",
				"web_dev_experience": "none",
			},
			want: TierBeginner,
		},
		{
			name: "average just below one stays beginner",
			software: map[string]any{
				"programming_level":  "intermediate",
				"ai_experience":      "none",
				"web_dev_experience": "none",
			},
			want: TierBeginner,
		},
		{
			name: "average of exactly one is intermediate",
			software: map[string]any{
				"programming_level":  "basic",
				"ai_experience":      "basic",
				"web_dev_experience": "basic",
			},
			want: TierIntermediate,
		},
		{
			name: "mixed levels land intermediate",
			software: map[string]any{
				"programming_level":  "advanced",
				"ai_experience":      "basic",
				"web_dev_experience": "none",
			},
			want: TierIntermediate,
		},
		{
			name: "average of exactly two is advanced",
			software: map[string]any{
				"programming_level":  "intermediate",
				"ai_experience":      "intermediate",
				"web_dev_experience": "intermediate",
			},
			want: TierAdvanced,
		},
		{
			name: "all advanced is advanced",
			software: map[string]any{
				"programming_level":  "advanced",
				"ai_experience":      "advanced",
				"web_dev_experience": "advanced",
			},
			want: TierAdvanced,
		},
		{
			name: "unknown values score zero",
			software: map[string]any{
				"programming_level":  "wizard",
				"ai_experience":      "expert",
				"web_dev_experience": "none",
			},
			want: TierBeginner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TierOf(tt.software))
		})
	}
}

func TestSkillsOf(t *testing.T) {
	skills := SkillsOf(map[string]any{
		"programming_level":  "intermediate",
		"languages_known":    []any{"python", "javascript"},
		"ai_experience":      "basic",
		"web_dev_experience": "basic",
	})

	assert.Equal(t, "intermediate", skills.ProgrammingLevel)
	assert.Equal(t, []string{"python", "javascript"}, skills.LanguagesKnown)
	assert.Equal(t, "basic", skills.AIExperience)
	assert.Equal(t, "basic", skills.WebDevExperience)
	assert.Equal(t, TierIntermediate, skills.OverallTier)
}

func TestSkillsOfDefaults(t *testing.T) {
	skills := SkillsOf(map[string]any{})

	assert.Equal(t, "beginner", skills.ProgrammingLevel)
	assert.Empty(t, skills.LanguagesKnown)
	assert.NotNil(t, skills.LanguagesKnown)
	assert.Equal(t, "none", skills.AIExperience)
	assert.Equal(t, "none", skills.WebDevExperience)
	assert.Equal(t, TierBeginner, skills.OverallTier)
}

func TestHardwareCapabilitiesOf(t *testing.T) {
	tests := []struct {
		name     string
		hardware map[string]any
		capable  bool
	}{
		{
			name:     "no access",
			hardware: map[string]any{"hardware_access": []any{}},
			capable:  false,
		},
		{
			name:     "laptop only is not capable",
			hardware: map[string]any{"hardware_access": []any{"laptop_only"}},
			capable:  false,
		},
		{
			name:     "raspberry pi is capable",
			hardware: map[string]any{"hardware_access": []any{"laptop_only", "raspberry_pi"}},
			capable:  true,
		},
		{
			name:     "arduino is capable",
			hardware: map[string]any{"hardware_access": []any{"arduino"}},
			capable:  true,
		},
		{
			name:     "robotics kits are capable",
			hardware: map[string]any{"hardware_access": []any{"robotics_kits"}},
			capable:  true,
		},
		{
			name:     "missing key",
			hardware: map[string]any{},
			capable:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := HardwareCapabilitiesOf(tt.hardware)
			assert.Equal(t, tt.capable, caps.CanDoHardwareProjects)
		})
	}
}

func TestHardwareCapabilitiesOfFields(t *testing.T) {
	caps := HardwareCapabilitiesOf(map[string]any{
		"robotics_experience":     true,
		"electronics_familiarity": "basic",
		"hardware_access":         []any{"arduino"},
	})

	assert.True(t, caps.RoboticsExperience)
	assert.Equal(t, "basic", caps.ElectronicsFamiliarity)
	assert.Equal(t, []string{"arduino"}, caps.HardwareAccess)
	assert.True(t, caps.CanDoHardwareProjects)

	caps = HardwareCapabilitiesOf(map[string]any{
		"robotics_experience": "true",
	})
	assert.False(t, caps.RoboticsExperience, "non-bool robotics experience is false")
	assert.Equal(t, "none", caps.ElectronicsFamiliarity)
}
