package skills

import (
	"strings"

	"github.com/robobook/backend/internal/personalization"
)

const baseInstructions = `You are a helpful assistant for an AI and robotics textbook.
Answer questions about AI, robotics, and related topics in a clear, educational manner.`

const guestInstructions = baseInstructions + `
Since this is a guest user, provide general explanations suitable for beginners.
Mention that signing up enables personalized learning.`

// buildSystemPrompt renders the chatbot system prompt. A nil context
// produces the guest prompt; otherwise the prompt embeds the user's
// background and level-appropriate guidance.
func buildSystemPrompt(userCtx *personalization.UserContext) string {
	if userCtx == nil {
		return guestInstructions
	}

	var b strings.Builder
	b.WriteString(baseInstructions)

	b.WriteString("\n\nUSER PROFILE (use this to personalize your response):\n")
	b.WriteString("- Programming Level: " + userCtx.ProgrammingLevel + "\n")
	b.WriteString("- AI/ML Experience: " + userCtx.AIExperience + "\n")
	b.WriteString("- Known Languages: " + orDefault(strings.Join(userCtx.LanguagesKnown, ", "), "None specified") + "\n")
	b.WriteString("- Robotics Experience: " + yesNo(userCtx.HasRoboticsBackground) + "\n")
	b.WriteString("- Available Hardware: " + orDefault(strings.Join(userCtx.AvailableHardware, ", "), "Laptop only") + "\n")
	b.WriteString("\nPERSONALIZATION GUIDELINES:\n")

	switch userCtx.ProgrammingLevel {
	case "beginner":
		b.WriteString(`- Use simple explanations and avoid jargon
- Break down complex concepts into smaller steps
- Provide analogies to everyday experiences
- Include code examples only if they're very simple`)
	case "intermediate":
		b.WriteString(`- Assume basic programming knowledge
- You can use technical terms but briefly explain new ones
- Include practical code examples when relevant
- Mention best practices and common patterns`)
	default:
		b.WriteString(`- Assume strong programming background
- Use technical terminology freely
- Focus on implementation details and edge cases
- Discuss trade-offs and advanced patterns
- Skip basic explanations unless asked`)
	}

	switch userCtx.AIExperience {
	case "none", "basic":
		b.WriteString(`
- When discussing AI/ML, explain concepts from scratch
- Use intuitive examples before mathematical notation`)
	case "intermediate", "advanced":
		b.WriteString(`
- Can assume familiarity with ML fundamentals
- Reference specific algorithms and techniques`)
	}

	if userCtx.CanUnderstandCode("python") {
		b.WriteString(`
- Prefer Python examples when showing code`)
	} else if userCtx.CanUnderstandCode("javascript") || userCtx.CanUnderstandCode("typescript") {
		b.WriteString(`
- Can use JavaScript/TypeScript for web-related examples`)
	}

	if userCtx.HasRoboticsBackground || hasAccess(userCtx, "raspberry_pi") || hasAccess(userCtx, "arduino") {
		b.WriteString(`
- Can include hands-on hardware project suggestions`)
	} else {
		b.WriteString(`
- Focus on simulation and software approaches
- Avoid assuming access to physical hardware`)
	}

	return b.String()
}

// Greeting returns the chatbot welcome line. A nil context means a guest.
func Greeting(userCtx *personalization.UserContext) string {
	if userCtx == nil {
		return "Welcome! I'm here to help you learn about AI and Robotics. Sign up for a personalized experience!"
	}

	switch {
	case userCtx.ProgrammingLevel == "advanced" &&
		(userCtx.AIExperience == "intermediate" || userCtx.AIExperience == "advanced"):
		return "Welcome back! Ready to dive into advanced AI and robotics topics?"
	case userCtx.ProgrammingLevel == "intermediate":
		return "Welcome back! Let's continue building your AI and robotics skills!"
	default:
		return "Welcome back! I'm excited to help you explore AI and robotics. What would you like to learn today?"
	}
}

func hasAccess(userCtx *personalization.UserContext, item string) bool {
	for _, have := range userCtx.AvailableHardware {
		if have == item {
			return true
		}
	}
	return false
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
