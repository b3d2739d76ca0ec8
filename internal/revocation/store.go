// Package revocation keeps the set of token identifiers (jti) that were
// revoked before their natural expiry.
package revocation

import (
	"context"
	"sync"
	"time"
)

// Store is the revocation set consulted on every token validation.
type Store interface {
	// Revoke marks jti as revoked. expiresAt is the expiry of the token
	// carrying it; the entry is useless after that moment.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const defaultPruneInterval = time.Minute

// MemoryStore is a process-local revocation set. It starts empty and is lost
// on restart.
type MemoryStore struct {
	mu            sync.RWMutex
	entries       map[string]time.Time
	lastPrune     time.Time
	pruneInterval time.Duration
	now           func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:       make(map[string]time.Time),
		pruneInterval: defaultPruneInterval,
		now:           time.Now,
	}
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.entries[jti] = expiresAt

	if now.Sub(s.lastPrune) >= s.pruneInterval {
		s.pruneLocked(now)
		s.lastPrune = now
	}
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[jti]
	return ok, nil
}

// Prune drops entries whose token has already expired and returns how many were removed.
func (s *MemoryStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.lastPrune = now
	return s.pruneLocked(now)
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) pruneLocked(now time.Time) int {
	removed := 0
	for jti, exp := range s.entries {
		if !exp.After(now) {
			delete(s.entries, jti)
			removed++
		}
	}
	return removed
}
