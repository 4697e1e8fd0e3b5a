package profile

// Tier is the overall skill bucket derived from a profile.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// skillScores maps self-reported experience levels onto an ordinal scale.
// Unknown values score zero.
var skillScores = map[string]int{
	"none":         0,
	"beginner":     0,
	"basic":        1,
	"intermediate": 2,
	"advanced":     3,
}

// hardwareKits are the access options that make hands-on hardware
// projects feasible.
var hardwareKits = map[string]bool{
	"raspberry_pi":  true,
	"arduino":       true,
	"robotics_kits": true,
}

// Skills is the derived software-skills view of a profile.
type Skills struct {
	ProgrammingLevel string   `json:"programming_level"`
	LanguagesKnown   []string `json:"languages_known"`
	AIExperience     string   `json:"ai_experience"`
	WebDevExperience string   `json:"web_dev_experience"`
	OverallTier      Tier     `json:"overall_tier"`
}

// HardwareCapabilities is the derived hardware view of a profile.
type HardwareCapabilities struct {
	RoboticsExperience     bool     `json:"robotics_experience"`
	ElectronicsFamiliarity string   `json:"electronics_familiarity"`
	HardwareAccess         []string `json:"hardware_access"`
	CanDoHardwareProjects  bool     `json:"can_do_hardware_projects"`
}

// SkillsOf derives the skills view from a software background map.
func SkillsOf(software map[string]any) Skills {
	return Skills{
		ProgrammingLevel: stringOf(software, "programming_level", "beginner"),
		LanguagesKnown:   listOf(software, "languages_known"),
		AIExperience:     stringOf(software, "ai_experience", "none"),
		WebDevExperience: stringOf(software, "web_dev_experience", "none"),
		OverallTier:      TierOf(software),
	}
}

// TierOf computes the overall tier by averaging the ordinal scores of
// programming level, AI experience and web development experience.
func TierOf(software map[string]any) Tier {
	total := skillScores[stringOf(software, "programming_level", "beginner")] +
		skillScores[stringOf(software, "ai_experience", "none")] +
		skillScores[stringOf(software, "web_dev_experience", "none")]
	avg := float64(total) / 3.0
	switch {
	case avg < 1:
		return TierBeginner
	case avg < 2:
		return TierIntermediate
	default:
		return TierAdvanced
	}
}

// HardwareCapabilitiesOf derives the hardware view from a hardware
// background map. Hands-on projects are considered feasible only when the
// user has access to at least one supported kit.
func HardwareCapabilitiesOf(hardware map[string]any) HardwareCapabilities {
	access := listOf(hardware, "hardware_access")
	capable := false
	for _, item := range access {
		if hardwareKits[item] {
			capable = true
			break
		}
	}
	robotics, _ := hardware["robotics_experience"].(bool)
	return HardwareCapabilities{
		RoboticsExperience:     robotics,
		ElectronicsFamiliarity: stringOf(hardware, "electronics_familiarity", "none"),
		HardwareAccess:         access,
		CanDoHardwareProjects:  capable,
	}
}

func stringOf(m map[string]any, key, fallback string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func listOf(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}
