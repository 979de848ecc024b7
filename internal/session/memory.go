package session

import (
	"sync"
	"time"
)

// MemoryStore is the in-memory Store implementation. Histories are
// append-only and never persisted.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]Message),
	}
}

func (s *MemoryStore) Append(sessionID string, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	s.sessions[sessionID] = append(s.sessions[sessionID], msg)
}

func (s *MemoryStore) History(sessionID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.sessions[sessionID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

func (s *MemoryStore) Window(sessionID string, n int) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.sessions[sessionID]
	if n > 0 && len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
