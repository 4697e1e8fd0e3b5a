// Package onboarding implements the chatbot-driven signup flow: a fixed
// questionnaire chain walked one answer at a time, with transient per-user
// session state held in memory until the account is created.
//
// Responsibilities: session lifecycle (create, lazy expiry, delete, sweep)
// and the state machine that validates answers against the catalog, stores
// them in the right answer group, and advances the cursor.
package onboarding

import (
	"maps"
	"time"
)

// SessionTTL is how long an onboarding conversation may stay idle before it
// expires. Expiry is checked lazily on access; see Store.Get.
const SessionTTL = 30 * time.Minute

// Answers holds the collected questionnaire answers in the three fixed
// top-level groups. Field values are strings, string slices, or bools
// depending on the question kind.
type Answers struct {
	Software map[string]any `json:"software_background"`
	Hardware map[string]any `json:"hardware_background"`
	Goals    map[string]any `json:"learning_goals"`
}

// NewAnswers returns an Answers value with all three groups allocated.
func NewAnswers() Answers {
	return Answers{
		Software: make(map[string]any),
		Hardware: make(map[string]any),
		Goals:    make(map[string]any),
	}
}

// Set stores value under field in the named group. Unknown groups are
// ignored; the catalog only produces the three known ones.
func (a Answers) Set(group Group, field string, value any) {
	if m := a.group(group); m != nil {
		m[field] = value
	}
}

// Get returns the value stored under field in the named group.
func (a Answers) Get(group Group, field string) (any, bool) {
	m := a.group(group)
	if m == nil {
		return nil, false
	}
	v, ok := m[field]
	return v, ok
}

// clone returns a copy of the answers with freshly allocated group maps.
// Payloads handed back from the walker outlive the store lock, so they must
// not alias the session's live maps, which later submissions keep writing.
func (a Answers) clone() Answers {
	return Answers{
		Software: maps.Clone(a.Software),
		Hardware: maps.Clone(a.Hardware),
		Goals:    maps.Clone(a.Goals),
	}
}

func (a Answers) group(g Group) map[string]any {
	switch g {
	case GroupSoftware:
		return a.Software
	case GroupHardware:
		return a.Hardware
	case GroupGoals:
		return a.Goals
	}
	return nil
}

// Session is one user's active onboarding conversation. The credentials are
// held in memory only until account creation; nothing in a Session is ever
// persisted.
type Session struct {
	ID                string
	Email             string
	Password          string
	CurrentQuestionID string
	Answers           Answers
	CreatedAt         time.Time
	ExpiresAt         time.Time
}

// IsExpired reports whether the session is past its expiry at time now.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
