package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/robobook/backend/internal/log"
	"github.com/robobook/backend/internal/personalization"
)

// Orchestrator routes queries to the skill agents or, when no skill is
// requested, to the general chatbot with a profile-personalized prompt.
type Orchestrator struct {
	g      *genkit.Genkit
	model  string
	logger log.Logger
}

// NewOrchestrator creates the skill orchestrator. model is a genkit model
// name such as "googleai/gemini-2.5-flash".
func NewOrchestrator(g *genkit.Genkit, model string, logger log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Orchestrator{g: g, model: model, logger: logger}
}

// Route answers a chatbot query. A recognized skill name dispatches to
// that agent; anything else goes to the personalized general assistant.
// userCtx may be nil for guests.
func (o *Orchestrator) Route(ctx context.Context, query, skillName string, userCtx *personalization.UserContext) (*Response, error) {
	if strings.TrimSpace(query) == "" {
		return &Response{Response: "Please provide a question or topic.", Type: ResponseTypeText}, nil
	}

	if skill, err := ParseSkill(skillName); skillName != "" && err == nil {
		return o.RunSkill(ctx, skill, query)
	}

	query, err := sanitizeInput(query)
	if err != nil {
		return nil, err
	}

	resp, err := genkit.Generate(ctx, o.g,
		ai.WithModelName(o.model),
		ai.WithSystem(buildSystemPrompt(userCtx)),
		ai.WithPrompt(query),
	)
	if err != nil {
		return nil, fmt.Errorf("generating chat response: %w", err)
	}
	return &Response{Response: resp.Text(), Type: ResponseTypeText}, nil
}

// RunSkill invokes one specific agent.
func (o *Orchestrator) RunSkill(ctx context.Context, skill Skill, query string) (*Response, error) {
	instructions, ok := skillInstructions[skill]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSkill, skill)
	}

	query, err := sanitizeInput(query)
	if err != nil {
		return nil, err
	}

	resp, err := genkit.Generate(ctx, o.g,
		ai.WithModelName(o.model),
		ai.WithSystem(instructions),
		ai.WithPrompt(query),
	)
	if err != nil {
		return nil, fmt.Errorf("running %s agent: %w", skill, err)
	}

	text := resp.Text()
	if skill == SkillExercises {
		return parseQuiz(text), nil
	}
	return &Response{Response: text, Type: ResponseTypeText}, nil
}

// parseQuiz tries to interpret the model output as quiz JSON. Markdown
// code fences are stripped first; output that still fails to parse is
// returned as plain text.
func parseQuiz(output string) *Response {
	text := strings.TrimSpace(output)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	text = strings.TrimSpace(text)

	var quiz map[string]any
	if err := json.Unmarshal([]byte(text), &quiz); err != nil {
		return &Response{Response: output, Type: ResponseTypeText}
	}

	normalized, err := json.Marshal(quiz)
	if err != nil {
		return &Response{Response: output, Type: ResponseTypeText}
	}
	return &Response{Response: string(normalized), Type: ResponseTypeQuiz}
}
