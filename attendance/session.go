package attendance

import (
	"sync"
	"time"

	"zoom-attendance-llm/config"
)

// Session is one interactive counting session. It owns the record and the
// API credential (memory only, never persisted) and serializes access, since
// web handlers may touch the same session concurrently.
type Session struct {
	ID        string
	Provider  string
	Policy    config.CountPolicy
	CreatedAt time.Time

	// credential is held for the lifetime of the session only.
	credential string

	mu     sync.Mutex
	record *Record
	busy   bool
}

func NewSession(id, provider, credential string, policy config.CountPolicy) *Session {
	if policy == "" {
		policy = config.CountOncePerCapture
	}
	return &Session{
		ID:         id,
		Provider:   provider,
		Policy:     policy,
		CreatedAt:  time.Now(),
		credential: credential,
		record:     NewRecord(),
	}
}

// Credential returns the in-memory API credential.
func (s *Session) Credential() string { return s.credential }

// TryBeginSubmission marks the session busy. It returns false if a
// submission is already in flight; at most one runs at a time.
func (s *Session) TryBeginSubmission() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

// EndSubmission clears the busy flag.
func (s *Session) EndSubmission() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Busy reports whether a submission is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Apply records one capture event's names.
func (s *Session) Apply(names []string, at time.Time) {
	s.mu.Lock()
	s.record.Apply(names, at)
	s.mu.Unlock()
}

// Snapshot returns the current tally in alphabetical order.
func (s *Session) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Snapshot()
}

// Count returns the tally for one name.
func (s *Session) Count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Count(name)
}

// Len returns the number of distinct attendees.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Len()
}

// Reset clears the tally back to empty.
func (s *Session) Reset() {
	s.mu.Lock()
	s.record.Reset()
	s.mu.Unlock()
}
