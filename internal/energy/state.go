package energy

import (
	"sync"
	"time"
)

// DefaultSessionID is used when a request names no session.
const DefaultSessionID = "default"

// State is one session's energy bookkeeping. It lives in process memory only
// and resets to full whenever the wall-clock date advances. All access goes
// through the owning Session's lock.
type State struct {
	SessionID     string
	CurrentEnergy int
	MaxEnergy     int

	IsOnBreak      bool
	BreakStartedAt *time.Time
	BreakEndTime   *time.Time

	LastResetDate string // YYYY-MM-DD of the last daily reset

	IsRegenerating       bool
	RegenerationPausedAt *time.Time
	LastRegenerationTime time.Time
}

// Session pairs a State with its own mutex. Each session is guarded
// independently so concurrent requests for different sessions never contend.
type Session struct {
	mu    sync.Mutex
	State State
}

// SessionStore hands out per-session state. Get creates the session lazily;
// the engine initializes the State on first use under the session lock.
type SessionStore interface {
	Get(id string) *Session
	All() []*Session
}

// MemoryStore keeps sessions for the process lifetime, no persistence.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]*Session{}}
}

func (s *MemoryStore) Get(id string) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[id]; ok {
		return sess
	}
	sess = &Session{}
	s.sessions[id] = sess
	return sess
}

func (s *MemoryStore) All() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}
