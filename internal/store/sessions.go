package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions maps session IDs to their stores. Stores are created on first
// use and dropped after sitting idle longer than the configured TTL, which
// is how "store lifetime equals session lifetime" is realized over a
// stateless HTTP surface.
type Sessions struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[uuid.UUID]*sessionEntry
}

type sessionEntry struct {
	store    *Store
	lastSeen time.Time
}

// NewSessions creates a session registry with the given idle TTL.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ttl:     ttl,
		entries: make(map[uuid.UUID]*sessionEntry),
	}
}

// Get returns the store for a session, creating it on first use, and marks
// the session as active.
func (s *Sessions) Get(id uuid.UUID) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		entry = &sessionEntry{store: New()}
		s.entries[id] = entry
	}
	entry.lastSeen = time.Now()
	return entry.store
}

// Purge drops sessions idle past the TTL and returns how many were
// removed.
func (s *Sessions) Purge(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.entries {
		if now.Sub(entry.lastSeen) > s.ttl {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
