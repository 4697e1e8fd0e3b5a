// Package personalization derives content-tailoring signals from a user
// profile. Everything here is a pure function over profile data; the skill
// agents consume the results when building prompts.
package personalization

import (
	"strings"

	"github.com/robobook/backend/internal/profile"
)

// Complexity is the recommended content complexity for a user.
type Complexity string

const (
	ComplexityBasic     Complexity = "basic"
	ComplexityStandard  Complexity = "standard"
	ComplexityTechnical Complexity = "technical"
)

// UserContext aggregates everything the agents need to tailor a response.
type UserContext struct {
	UserID                 string       `json:"user_id"`
	SkillTier              profile.Tier `json:"skill_tier"`
	ProgrammingLevel       string       `json:"programming_level"`
	LanguagesKnown         []string     `json:"languages_known"`
	AIExperience           string       `json:"ai_experience"`
	WebDevExperience       string       `json:"web_dev_experience"`
	HasRoboticsBackground  bool         `json:"has_robotics_background"`
	ElectronicsFamiliarity string       `json:"electronics_familiarity"`
	AvailableHardware      []string     `json:"available_hardware"`
	CanDoHardwareProjects  bool         `json:"can_do_hardware_projects"`
}

// Hints is a flat bundle of tailoring flags for prompt construction.
type Hints struct {
	UseSimpleLanguage        bool       `json:"use_simple_language"`
	IncludeCodeExamples      bool       `json:"include_code_examples"`
	PreferredLanguages       []string   `json:"preferred_languages"`
	IncludeAIDetails         bool       `json:"include_ai_details"`
	IncludeHardwareProjects  bool       `json:"include_hardware_projects"`
	RoboticsContextAvailable bool       `json:"robotics_context_available"`
	SuggestedComplexity      Complexity `json:"suggested_complexity"`
}

// ContextOf builds the personalization context from a stored profile.
func ContextOf(p *profile.Profile) UserContext {
	skills := profile.SkillsOf(p.Software)
	hardware := profile.HardwareCapabilitiesOf(p.Hardware)
	return UserContext{
		UserID:                 p.UserID,
		SkillTier:              skills.OverallTier,
		ProgrammingLevel:       skills.ProgrammingLevel,
		LanguagesKnown:         skills.LanguagesKnown,
		AIExperience:           skills.AIExperience,
		WebDevExperience:       skills.WebDevExperience,
		HasRoboticsBackground:  hardware.RoboticsExperience,
		ElectronicsFamiliarity: hardware.ElectronicsFamiliarity,
		AvailableHardware:      hardware.HardwareAccess,
		CanDoHardwareProjects:  hardware.CanDoHardwareProjects,
	}
}

// RecommendedComplexity maps the skill tier to a content complexity level.
func (c UserContext) RecommendedComplexity() Complexity {
	switch c.SkillTier {
	case profile.TierBeginner:
		return ComplexityBasic
	case profile.TierAdvanced:
		return ComplexityTechnical
	default:
		return ComplexityStandard
	}
}

// CanUnderstandCode reports whether the user knows the given programming
// language. Comparison is case-insensitive.
func (c UserContext) CanUnderstandCode(language string) bool {
	for _, known := range c.LanguagesKnown {
		if strings.EqualFold(known, language) {
			return true
		}
	}
	return false
}

// ShouldIncludeHardwareExamples reports whether agent output should carry
// hands-on hardware examples for this user.
func (c UserContext) ShouldIncludeHardwareExamples() bool {
	return c.CanDoHardwareProjects
}

// Hints derives the flat hint bundle from the context.
func (c UserContext) Hints() Hints {
	return Hints{
		UseSimpleLanguage:        c.SkillTier == profile.TierBeginner,
		IncludeCodeExamples:      c.ProgrammingLevel != "beginner",
		PreferredLanguages:       c.LanguagesKnown,
		IncludeAIDetails:         c.AIExperience != "none" && c.AIExperience != "basic",
		IncludeHardwareProjects:  c.CanDoHardwareProjects,
		RoboticsContextAvailable: c.HasRoboticsBackground,
		SuggestedComplexity:      c.RecommendedComplexity(),
	}
}
