package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore keeps the live conversation sessions, keyed by an opaque id.
// Idle sessions are pruned so the store stays bounded across many users.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*ConversationSession
	factory  func() *ConversationSession
	maxIdle  time.Duration
}

// NewSessionStore creates a store that builds new sessions with factory and
// drops sessions untouched for longer than maxIdle.
func NewSessionStore(factory func() *ConversationSession, maxIdle time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*ConversationSession),
		factory:  factory,
		maxIdle:  maxIdle,
	}
}

// GetOrCreate returns the session for id, creating one (with a fresh uuid)
// when id is empty or unknown.
func (st *SessionStore) GetOrCreate(id string) (string, *ConversationSession) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.pruneLocked()

	if id != "" {
		if session, ok := st.sessions[id]; ok {
			return id, session
		}
	}

	id = uuid.NewString()
	session := st.factory()
	st.sessions[id] = session
	return id, session
}

// Get returns the session for id, or nil.
func (st *SessionStore) Get(id string) *ConversationSession {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sessions[id]
}

// Delete removes a session. Returns true if it existed.
func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *SessionStore) pruneLocked() {
	if st.maxIdle <= 0 {
		return
	}
	cutoff := time.Now().Add(-st.maxIdle)
	for id, session := range st.sessions {
		if session.LastActive().Before(cutoff) {
			delete(st.sessions, id)
		}
	}
}
