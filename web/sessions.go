package web

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"zoom-attendance-llm/attendance"
	"zoom-attendance-llm/capture"
	"zoom-attendance-llm/config"
)

var ErrSessionNotFound = errors.New("session not found")

// sessionHandle pairs a session with the flow bound to its credential.
type sessionHandle struct {
	Session *attendance.Session
	Flow    *capture.Flow
}

// SessionStore is the in-memory session registry. Sessions live only as
// long as the process; there is no persistence.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionHandle

	policy  config.CountPolicy
	timeout time.Duration
	logger  zerolog.Logger
}

func NewSessionStore(policy config.CountPolicy, timeout time.Duration, logger zerolog.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionHandle),
		policy:   policy,
		timeout:  timeout,
		logger:   logger,
	}
}

// Create builds a session around a user-supplied credential and returns its
// opaque token. The credential stays in memory only.
func (st *SessionStore) Create(provider, apiKey, model string) (string, error) {
	extractor, err := capture.NewExtractor(provider, apiKey, model, nil)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	session := attendance.NewSession(id, extractor.Provider(), apiKey, st.policy)
	handle := &sessionHandle{
		Session: session,
		Flow: &capture.Flow{
			Extractor: extractor,
			Session:   session,
			Timeout:   st.timeout,
			Logger:    st.logger.With().Str("session", id).Logger(),
		},
	}

	st.mu.Lock()
	st.sessions[id] = handle
	st.mu.Unlock()
	return id, nil
}

func (st *SessionStore) Get(id string) (*sessionHandle, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	h, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return h, nil
}

// Delete ends a session, discarding its record and credential.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
