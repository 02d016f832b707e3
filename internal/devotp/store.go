// Package devotp keeps plain OTPs by challenge id so a developer can read them
// back through DevService/GetOTP instead of receiving an SMS.
package devotp

import (
	"context"
	"sync"
	"time"
)

// Store holds plain OTPs by challenge id. Only wired when dev OTP mode is on.
type Store interface {
	// Put stores otp for challengeID until expiresAt.
	Put(ctx context.Context, challengeID, otp string, expiresAt time.Time)
	// Get returns the otp for challengeID if present and not expired.
	Get(ctx context.Context, challengeID string) (otp string, ok bool)
	// Delete forgets challengeID once the challenge is consumed.
	Delete(ctx context.Context, challengeID string)
}

type entry struct {
	otp       string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store. Expired entries are dropped lazily on Get and on Put.
type MemoryStore struct {
	mu  sync.RWMutex
	m   map[string]entry
	now func() time.Time
}

// NewMemoryStore returns a new in-memory dev OTP store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:   make(map[string]entry),
		now: time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, challengeID, otp string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.m {
		if !e.expiresAt.After(now) {
			delete(s.m, id)
		}
	}
	s.m[challengeID] = entry{otp: otp, expiresAt: expiresAt}
}

func (s *MemoryStore) Get(_ context.Context, challengeID string) (string, bool) {
	s.mu.RLock()
	e, ok := s.m[challengeID]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.m, challengeID)
		s.mu.Unlock()
		return "", false
	}
	return e.otp, true
}

func (s *MemoryStore) Delete(_ context.Context, challengeID string) {
	s.mu.Lock()
	delete(s.m, challengeID)
	s.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
