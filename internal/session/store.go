// Package session holds the one piece of retained state in the system: the
// last successful search outcome per session, kept so the user can re-sort
// results without re-issuing the journey query. A new search replaces the
// outcome; clearing a selection deletes it. Nothing else is ever cached.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/tomwhitfield/journeyplanner/internal/models"
)

type Store interface {
	Get(ctx context.Context, sessionID string) (*models.SearchOutcome, bool)
	Put(ctx context.Context, sessionID string, outcome *models.SearchOutcome) error
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

// MemoryStore is the default single-process store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	outcome   *models.SearchOutcome
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*models.SearchOutcome, bool) {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, sessionID)
		s.mu.Unlock()
		return nil, false
	}
	return entry.outcome, true
}

func (s *MemoryStore) Put(ctx context.Context, sessionID string, outcome *models.SearchOutcome) error {
	entry := memoryEntry{outcome: outcome}
	if s.ttl > 0 {
		entry.expiresAt = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[sessionID] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
