package onboarding

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// sessionTokenBytes is the entropy of a session id. 32 bytes (256 bits)
// keeps collision probability cryptographically negligible.
const sessionTokenBytes = 32

// Store holds active onboarding sessions in process memory, keyed by
// session id. The original design shared a process-wide map with no
// locking; here access is serialized with a mutex so concurrent requests
// against the same session cannot corrupt its answer maps.
//
// Store is safe for concurrent use by multiple goroutines. Sessions are
// never persisted: a restart drops in-flight conversations, which is
// acceptable for a 30-minute signup flow.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	head     string // id of the catalog chain head, the initial cursor

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewStore creates an empty session store whose sessions start at the given
// catalog's head question.
func NewStore(catalog *Catalog) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		head:     catalog.Head(),
		now:      time.Now,
	}
}

// Create generates a fresh session for the given credentials and returns it.
// The caller is expected to have validated the credentials (email not yet
// registered) before calling.
func (s *Store) Create(email, password string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &Session{
		ID:                newSessionID(),
		Email:             email,
		Password:          password,
		CurrentQuestionID: s.head,
		Answers:           NewAnswers(),
		CreatedAt:         now,
		ExpiresAt:         now.Add(SessionTTL),
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns the session with the given id, or nil if it is absent or
// expired. An expired entry is evicted as a side effect, so repeated calls
// for the same expired id behave identically.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(id)
}

// getLocked is Get without locking, for callers already holding mu.
func (s *Store) getLocked(id string) *Session {
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if sess.IsExpired(s.now()) {
		delete(s.sessions, id)
		return nil
	}
	return sess
}

// Delete removes the session with the given id. It is idempotent and
// reports whether an entry was removed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Sweep removes all expired sessions and returns the count removed.
// Expiry is otherwise lazy, so Sweep is optional maintenance rather than a
// correctness requirement; the caller decides the cadence.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if sess.IsExpired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of sessions currently held, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// newSessionID returns an opaque unique session token.
func newSessionID() string {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure means the platform RNG is broken; there is no
		// safe fallback for a session token.
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
