package memory

import (
	"sync"
)

// Session pairs a session id with its exclusively owned memory. The
// embedded mutex serializes whole turns: the orchestrator locks the
// session for the duration of HandleTurn, so nothing else observes a
// half-applied turn.
type Session struct {
	sync.Mutex

	ID     string
	Memory *Memory
}

// Sessions hands out per-session memories. The map itself is the only
// shared state; each Session is owned by whoever holds its lock.
type Sessions struct {
	mu       sync.Mutex
	capacity int
	byID     map[string]*Session
}

func NewSessions(capacity int) *Sessions {
	return &Sessions{
		capacity: capacity,
		byID:     make(map[string]*Session),
	}
}

// Get returns the session for id, creating it on first use. Memory is
// in-process only and does not survive a restart.
func (s *Sessions) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.byID[id]; ok {
		return sess
	}
	sess := &Session{
		ID:     id,
		Memory: New(s.capacity),
	}
	s.byID[id] = sess
	return sess
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
