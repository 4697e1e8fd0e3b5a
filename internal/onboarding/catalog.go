package onboarding

import "fmt"

// Kind identifies how a question is presented and answered.
type Kind string

// Question kinds.
const (
	KindGreeting     Kind = "greeting"      // welcome message, no input expected
	KindSingleSelect Kind = "single_select" // user picks one option
	KindMultiSelect  Kind = "multi_select"  // user picks multiple options
	KindConfirmation Kind = "confirmation"  // summary with confirm/edit choice
)

// Group names the three fixed top-level answer groups.
type Group string

// Answer groups.
const (
	GroupSoftware Group = "software_background"
	GroupHardware Group = "hardware_background"
	GroupGoals    Group = "learning_goals"
)

// Option is a single selectable answer choice.
type Option struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Question is an immutable question definition within the catalog chain.
// Field addressing uses a typed (Group, Field) pair rather than a dotted
// path string, so an answer can only land in one of the known groups.
type Question struct {
	ID        string   `json:"id"`
	Kind      Kind     `json:"type"`
	Prompt    string   `json:"bot_message"`
	Options   []Option `json:"options,omitempty"`
	Group     Group    `json:"-"` // empty for greeting/confirmation
	Field     string   `json:"-"` // empty for greeting/confirmation
	BoolValue bool     `json:"-"` // coerce the raw answer to a boolean before storage
	NextID    string   `json:"-"` // empty only on the terminal question
}

// HasField reports whether answers to this question are stored.
func (q *Question) HasField() bool {
	return q.Field != ""
}

// Catalog is the ordered, immutable questionnaire chain. Questions link to
// their successor via NextID; exactly one question (the terminal
// confirmation) has no successor.
type Catalog struct {
	questions []Question
	byID      map[string]*Question
}

// NewCatalog builds a catalog from the given chain and verifies the chain
// invariant: every NextID resolves, exactly one question is terminal, and
// the chain visits every question exactly once starting from the head.
func NewCatalog(questions []Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("catalog must not be empty")
	}

	c := &Catalog{
		questions: questions,
		byID:      make(map[string]*Question, len(questions)),
	}
	for i := range c.questions {
		q := &c.questions[i]
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		c.byID[q.ID] = q
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate walks the chain from the head and checks it is a single linked
// list with no branching and no cycles.
func (c *Catalog) validate() error {
	terminals := 0
	for i := range c.questions {
		q := &c.questions[i]
		if q.NextID == "" {
			terminals++
			continue
		}
		if _, ok := c.byID[q.NextID]; !ok {
			return fmt.Errorf("question %q points to unknown next id %q", q.ID, q.NextID)
		}
	}
	if terminals != 1 {
		return fmt.Errorf("catalog must have exactly one terminal question, found %d", terminals)
	}

	seen := make(map[string]bool, len(c.questions))
	for id := c.Head(); id != ""; {
		if seen[id] {
			return fmt.Errorf("catalog chain has a cycle at %q", id)
		}
		seen[id] = true
		id = c.byID[id].NextID
	}
	if len(seen) != len(c.questions) {
		return fmt.Errorf("catalog chain is disconnected: visited %d of %d questions", len(seen), len(c.questions))
	}
	return nil
}

// Get returns the question with the given id, or nil if absent.
func (c *Catalog) Get(id string) *Question {
	return c.byID[id]
}

// Head returns the id of the first question in the chain.
func (c *Catalog) Head() string {
	return c.questions[0].ID
}

// Len returns the number of questions in the chain.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// FieldCount returns the number of questions that store an answer.
func (c *Catalog) FieldCount() int {
	n := 0
	for i := range c.questions {
		if c.questions[i].HasField() {
			n++
		}
	}
	return n
}

// DefaultCatalog returns the signup questionnaire for the AI & Robotics
// textbook. The chain is static; loading it from config would add a failure
// mode with no benefit.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]Question{
		{
			ID:     "welcome",
			Kind:   KindGreeting,
			Prompt: "Welcome! I'm excited to help you learn AI and Robotics. Let me ask a few questions to personalize your experience.",
			NextID: "programming_level",
		},
		{
			ID:     "programming_level",
			Kind:   KindSingleSelect,
			Prompt: "First, how would you describe your programming experience?",
			Options: []Option{
				{Value: "beginner", Label: "Beginner", Description: "New to coding or just started learning"},
				{Value: "intermediate", Label: "Intermediate", Description: "Can build basic projects independently"},
				{Value: "advanced", Label: "Advanced", Description: "Comfortable with complex systems and architectures"},
			},
			Group:  GroupSoftware,
			Field:  "programming_level",
			NextID: "languages_known",
		},
		{
			ID:     "languages_known",
			Kind:   KindMultiSelect,
			Prompt: "Which programming languages are you familiar with? (Select all that apply)",
			Options: []Option{
				{Value: "python", Label: "Python"},
				{Value: "javascript", Label: "JavaScript"},
				{Value: "typescript", Label: "TypeScript"},
				{Value: "c_cpp", Label: "C/C++"},
				{Value: "java", Label: "Java"},
				{Value: "none", Label: "None yet"},
			},
			Group:  GroupSoftware,
			Field:  "languages_known",
			NextID: "ai_experience",
		},
		{
			ID:     "ai_experience",
			Kind:   KindSingleSelect,
			Prompt: "How much experience do you have with AI/Machine Learning?",
			Options: []Option{
				{Value: "none", Label: "No experience", Description: "Haven't worked with AI yet"},
				{Value: "basic", Label: "Basic", Description: "Used some AI tools or completed tutorials"},
				{Value: "intermediate", Label: "Intermediate", Description: "Built ML models or used AI APIs"},
				{Value: "advanced", Label: "Advanced", Description: "Professional experience with AI systems"},
			},
			Group:  GroupSoftware,
			Field:  "ai_experience",
			NextID: "web_dev_experience",
		},
		{
			ID:     "web_dev_experience",
			Kind:   KindSingleSelect,
			Prompt: "What about web development experience?",
			Options: []Option{
				{Value: "none", Label: "No experience"},
				{Value: "basic", Label: "Basic", Description: "HTML/CSS basics"},
				{Value: "intermediate", Label: "Intermediate", Description: "Can build frontend apps"},
				{Value: "advanced", Label: "Advanced", Description: "Full-stack development"},
			},
			Group:  GroupSoftware,
			Field:  "web_dev_experience",
			NextID: "robotics_experience",
		},
		{
			ID:     "robotics_experience",
			Kind:   KindSingleSelect,
			Prompt: "Great! Now let's talk about hardware. Have you worked with robotics before?",
			Options: []Option{
				{Value: "true", Label: "Yes", Description: "I have hands-on robotics experience"},
				{Value: "false", Label: "No", Description: "No robotics experience yet"},
			},
			Group:     GroupHardware,
			Field:     "robotics_experience",
			BoolValue: true,
			NextID:    "electronics_familiarity",
		},
		{
			ID:     "electronics_familiarity",
			Kind:   KindSingleSelect,
			Prompt: "How familiar are you with electronics and circuits?",
			Options: []Option{
				{Value: "none", Label: "Not familiar", Description: "Never worked with electronics"},
				{Value: "basic", Label: "Basic", Description: "Know some basics, maybe LEDs and sensors"},
				{Value: "intermediate", Label: "Intermediate", Description: "Can design and build circuits"},
			},
			Group:  GroupHardware,
			Field:  "electronics_familiarity",
			NextID: "hardware_access",
		},
		{
			ID:     "hardware_access",
			Kind:   KindMultiSelect,
			Prompt: "What hardware do you have access to? (Select all that apply)",
			Options: []Option{
				{Value: "laptop_only", Label: "Laptop only"},
				{Value: "raspberry_pi", Label: "Raspberry Pi"},
				{Value: "arduino", Label: "Arduino"},
				{Value: "robotics_kits", Label: "Robotics kits"},
				{Value: "none", Label: "No hardware access"},
			},
			Group:  GroupHardware,
			Field:  "hardware_access",
			NextID: "learning_goals",
		},
		{
			ID:     "learning_goals",
			Kind:   KindSingleSelect,
			Prompt: "Last question! What's your primary learning goal?",
			Options: []Option{
				{Value: "career", Label: "Career in AI/Robotics", Description: "Looking for job opportunities"},
				{Value: "hobby", Label: "Personal projects/Hobby", Description: "Building things for fun"},
				{Value: "academic", Label: "Academic research", Description: "Research or coursework"},
				{Value: "explore", Label: "Just exploring", Description: "Curious about the field"},
			},
			Group:  GroupGoals,
			Field:  "primary_interest",
			NextID: "summary",
		},
		{
			ID:     "summary",
			Kind:   KindConfirmation,
			Prompt: "Here's what I learned about you:",
		},
	})
	if err != nil {
		// The default chain is a compile-time constant; a broken chain is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return c
}
