// Package skills implements the LLM-backed textbook skills: glossary
// definitions, ASCII diagrams, English-to-Urdu translation and quiz
// generation, plus a general chatbot personalized from the user profile.
package skills

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Skill identifies one of the specialized agents.
type Skill string

const (
	SkillGlossary  Skill = "glossary"
	SkillDiagram   Skill = "diagram"
	SkillTranslate Skill = "translate"
	SkillExercises Skill = "exercises"
)

const maxInputChars = 2000

// Sentinel errors for skill invocation.
var (
	// ErrEmptyInput indicates the query was empty after trimming.
	ErrEmptyInput = errors.New("query cannot be empty")

	// ErrUnknownSkill indicates the skill name matches no agent.
	ErrUnknownSkill = errors.New("unknown skill")
)

// ResponseType distinguishes plain text answers from structured quizzes.
type ResponseType string

const (
	ResponseTypeText ResponseType = "text"
	ResponseTypeQuiz ResponseType = "quiz"
)

// Response is the output of any skill invocation.
type Response struct {
	Response string       `json:"response"`
	Type     ResponseType `json:"type,omitempty"`
}

// ParseSkill validates a skill name from transport input.
func ParseSkill(name string) (Skill, error) {
	switch s := Skill(name); s {
	case SkillGlossary, SkillDiagram, SkillTranslate, SkillExercises:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSkill, name)
	}
}

// sanitizeInput trims the query, rejects empty input and truncates
// anything over the input limit with an explicit notice. The cut backs up
// to a rune boundary so multi-byte text (Urdu, CJK) stays valid UTF-8.
func sanitizeInput(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrEmptyInput
	}
	if len(value) > maxInputChars {
		cut := maxInputChars
		for cut > 0 && !utf8.RuneStart(value[cut]) {
			cut--
		}
		value = value[:cut] + "... [truncated]"
	}
	return value, nil
}
