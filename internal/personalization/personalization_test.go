package personalization

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/robobook/backend/internal/profile"
)

func testProfile() *profile.Profile {
	return &profile.Profile{
		UserID: "user-1",
		Software: map[string]any{
			"programming_level":  "intermediate",
			"languages_known":    []any{"Python", "javascript"},
			"ai_experience":      "basic",
			"web_dev_experience": "basic",
		},
		Hardware: map[string]any{
			"robotics_experience":     true,
			"electronics_familiarity": "basic",
			"hardware_access":         []any{"laptop_only", "arduino"},
		},
	}
}

func TestContextOf(t *testing.T) {
	ctx := ContextOf(testProfile())

	assert.Equal(t, "user-1", ctx.UserID)
	assert.Equal(t, profile.TierIntermediate, ctx.SkillTier)
	assert.Equal(t, "intermediate", ctx.ProgrammingLevel)
	assert.Equal(t, []string{"Python", "javascript"}, ctx.LanguagesKnown)
	assert.True(t, ctx.HasRoboticsBackground)
	assert.Equal(t, []string{"laptop_only", "arduino"}, ctx.AvailableHardware)
	assert.True(t, ctx.CanDoHardwareProjects)
}

func TestRecommendedComplexity(t *testing.T) {
	tests := []struct {
		tier profile.Tier
		want Complexity
	}{
		{profile.TierBeginner, ComplexityBasic},
		{profile.TierIntermediate, ComplexityStandard},
		{profile.TierAdvanced, ComplexityTechnical},
	}
	for _, tt := range tests {
		ctx := UserContext{SkillTier: tt.tier}
		assert.Equal(t, tt.want, ctx.RecommendedComplexity())
	}
}

func TestCanUnderstandCode(t *testing.T) {
	ctx := ContextOf(testProfile())

	assert.True(t, ctx.CanUnderstandCode("python"))
	assert.True(t, ctx.CanUnderstandCode("JavaScript"))
	assert.False(t, ctx.CanUnderstandCode("rust"))
	assert.False(t, UserContext{}.CanUnderstandCode("python"))
}

func TestShouldIncludeHardwareExamples(t *testing.T) {
	ctx := ContextOf(testProfile())
	assert.True(t, ctx.ShouldIncludeHardwareExamples())

	bare := ContextOf(&profile.Profile{
		UserID:   "user-2",
		Hardware: map[string]any{"hardware_access": []any{"laptop_only"}},
	})
	assert.False(t, bare.ShouldIncludeHardwareExamples())
}

func TestHints(t *testing.T) {
	hints := ContextOf(testProfile()).Hints()

	assert.False(t, hints.UseSimpleLanguage)
	assert.True(t, hints.IncludeCodeExamples)
	assert.Equal(t, []string{"Python", "javascript"}, hints.PreferredLanguages)
	assert.False(t, hints.IncludeAIDetails, "basic AI experience does not unlock details")
	assert.True(t, hints.IncludeHardwareProjects)
	assert.True(t, hints.RoboticsContextAvailable)
	assert.Equal(t, ComplexityStandard, hints.SuggestedComplexity)
}

func TestHintsBeginner(t *testing.T) {
	p := &profile.Profile{
		UserID:   "user-2",
		Software: map[string]any{},
		Hardware: map[string]any{},
	}
	hints := ContextOf(p).Hints()

	assert.True(t, hints.UseSimpleLanguage)
	assert.False(t, hints.IncludeCodeExamples)
	assert.False(t, hints.IncludeAIDetails)
	assert.False(t, hints.IncludeHardwareProjects)
	assert.Equal(t, ComplexityBasic, hints.SuggestedComplexity)
}
