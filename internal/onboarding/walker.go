package onboarding

import (
	"fmt"

	"github.com/robobook/backend/internal/log"
)

// Status reports how an answer submission was resolved.
type Status string

// Submission statuses.
const (
	StatusContinue Status = "continue" // more questions remain
	StatusComplete Status = "complete" // chain exhausted, ready to create the account
)

// QuestionPayload is the caller-facing view of a question. For the
// confirmation step it carries the rendered summary and the raw collected
// answers so the caller can present a final review.
type QuestionPayload struct {
	ID      string   `json:"id"`
	Kind    Kind     `json:"type"`
	Prompt  string   `json:"bot_message"`
	Options []Option `json:"options,omitempty"`
	Summary string   `json:"summary,omitempty"`
	Answers *Answers `json:"collected_answers,omitempty"`
}

// SubmitResult is the outcome of one answer submission.
type SubmitResult struct {
	Status       Status           `json:"status"`
	NextQuestion *QuestionPayload `json:"next_question,omitempty"`
	Answers      *Answers         `json:"collected_answers,omitempty"`
}

// SummaryPayload is the review view of a session before completion.
type SummaryPayload struct {
	Email       string  `json:"email"`
	SummaryText string  `json:"summary_text"`
	Answers     Answers `json:"collected_answers"`
}

// Enrollment is everything a caller needs to materialize the real account
// and profile once the user confirms the summary.
type Enrollment struct {
	Email    string
	Password string
	Software map[string]any
	Hardware map[string]any
	Goals    map[string]any
}

// Walker drives the onboarding state machine. A session's state is its
// current question id; Walker validates transitions against the catalog,
// stores answers in the session's answer groups, and advances the cursor.
//
// Walker performs no external I/O; every transition is a single in-memory
// mutation executed under the store lock.
type Walker struct {
	catalog *Catalog
	store   *Store
	logger  log.Logger
}

// NewWalker creates a Walker over the given catalog and session store.
func NewWalker(catalog *Catalog, store *Store, logger log.Logger) *Walker {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Walker{catalog: catalog, store: store, logger: logger}
}

// Store exposes the underlying session store for lifecycle operations
// (Create on start, Delete on completion or abort).
func (w *Walker) Store() *Store {
	return w.store
}

// Start creates a session for the given credentials and returns it together
// with the first question of the chain.
func (w *Walker) Start(email, password string) (*Session, *QuestionPayload) {
	sess := w.store.Create(email, password)
	w.logger.Debug("onboarding session started", "session_id", sess.ID)
	return sess, w.payloadFor(w.catalog.Get(sess.CurrentQuestionID), sess)
}

// CurrentQuestion returns the question the session is waiting on.
// Returns ErrSessionNotFound if the session is absent or expired, and
// ErrQuestionNotFound if the cursor does not resolve against the catalog.
func (w *Walker) CurrentQuestion(sessionID string) (*QuestionPayload, error) {
	var payload *QuestionPayload
	err := w.withSession(sessionID, func(sess *Session) error {
		q := w.catalog.Get(sess.CurrentQuestionID)
		if q == nil {
			return fmt.Errorf("%w: cursor %q", ErrQuestionNotFound, sess.CurrentQuestionID)
		}
		payload = w.payloadFor(q, sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// SubmitAnswer records an answer for the session's current question and
// advances the cursor. Greetings store nothing. When the chain is exhausted
// the result carries StatusComplete and the full answer set; the session is
// deliberately NOT deleted so the caller can retry account creation.
//
// Answer shapes are not validated against the question's options; the
// original accepted any payload and callers depend on that.
func (w *Walker) SubmitAnswer(sessionID string, answer any) (*SubmitResult, error) {
	var result *SubmitResult
	err := w.withSession(sessionID, func(sess *Session) error {
		q := w.catalog.Get(sess.CurrentQuestionID)
		if q == nil {
			return fmt.Errorf("%w: cursor %q", ErrQuestionNotFound, sess.CurrentQuestionID)
		}

		if q.Kind != KindGreeting && q.HasField() {
			sess.Answers.Set(q.Group, q.Field, transformValue(q, answer))
		}

		if q.NextID == "" {
			// Terminal question: either the confirmation step was answered
			// or the chain is exhausted. Both mean "ready to complete".
			answers := sess.Answers.clone()
			result = &SubmitResult{Status: StatusComplete, Answers: &answers}
			return nil
		}

		sess.CurrentQuestionID = q.NextID
		next := w.catalog.Get(sess.CurrentQuestionID)
		if next == nil {
			return fmt.Errorf("%w: cursor %q", ErrQuestionNotFound, sess.CurrentQuestionID)
		}
		result = &SubmitResult{Status: StatusContinue, NextQuestion: w.payloadFor(next, sess)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Summary returns the rendered review of all collected answers.
func (w *Walker) Summary(sessionID string) (*SummaryPayload, error) {
	var payload *SummaryPayload
	err := w.withSession(sessionID, func(sess *Session) error {
		payload = &SummaryPayload{
			Email:       sess.Email,
			SummaryText: renderSummary(sess.Answers),
			Answers:     sess.Answers.clone(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// CredentialsAndProfile returns the payload used to create the account and
// profile. It does not delete the session; the caller deletes it after the
// account is actually created, which keeps abort/retry possible.
func (w *Walker) CredentialsAndProfile(sessionID string) (*Enrollment, error) {
	var e *Enrollment
	err := w.withSession(sessionID, func(sess *Session) error {
		answers := sess.Answers.clone()
		e = &Enrollment{
			Email:    sess.Email,
			Password: sess.Password,
			Software: answers.Software,
			Hardware: answers.Hardware,
			Goals:    answers.Goals,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// withSession runs fn against the resolved session while holding the store
// lock, serializing transitions on the same session.
func (w *Walker) withSession(sessionID string, fn func(*Session) error) error {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()

	sess := w.store.getLocked(sessionID)
	if sess == nil {
		return ErrSessionNotFound
	}
	return fn(sess)
}

// payloadFor builds the caller-facing view of q for the given session.
// Must be called with the store lock held (or on a session not yet shared).
func (w *Walker) payloadFor(q *Question, sess *Session) *QuestionPayload {
	p := &QuestionPayload{
		ID:      q.ID,
		Kind:    q.Kind,
		Prompt:  q.Prompt,
		Options: q.Options,
	}
	if q.Kind == KindConfirmation {
		answers := sess.Answers.clone()
		p.Summary = renderSummary(answers)
		p.Answers = &answers
	}
	return p
}

// transformValue applies the question's declared value transform.
// The boolean transform coerces exactly the string "true" and boolean true
// to true; everything else, including "True" and numeric inputs, is false.
func transformValue(q *Question, answer any) any {
	if !q.BoolValue {
		return answer
	}
	switch v := answer.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
