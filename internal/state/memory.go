package state

import (
	"context"
	"sync"
	"time"

	"github.com/angaddubey10/oauth-demo/internal/utils"
)

// MemoryStore keeps login attempts in a mutex-guarded map. Expired
// attempts are swept opportunistically on Issue; there is no background
// timer, so an idle store holds stale entries until the next login.
type MemoryStore struct {
	mu       sync.Mutex
	attempts map[string]Attempt

	ttl time.Duration
	now func() time.Time
}

// NewMemoryStore returns an empty in-process store with the default TTL.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		attempts: make(map[string]Attempt),
		ttl:      TTL,
		now:      time.Now,
	}
}

func (s *MemoryStore) Issue(ctx context.Context, verifier string) (string, error) {
	token := utils.RandomString(32)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.attempts[token] = Attempt{Verifier: verifier, CreatedAt: s.now()}
	return token, nil
}

func (s *MemoryStore) Consume(ctx context.Context, token string) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[token]
	if !ok {
		return nil, nil
	}
	// Check and delete under one lock so exactly one caller wins a race
	// on the same token.
	delete(s.attempts, token)
	if s.now().Sub(attempt.CreatedAt) > s.ttl {
		return nil, nil
	}
	return &attempt, nil
}

func (s *MemoryStore) Pending(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts), nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = make(map[string]Attempt)
	return nil
}

// sweepLocked drops attempts past their validity window. Callers must
// hold s.mu.
func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for token, attempt := range s.attempts {
		if now.Sub(attempt.CreatedAt) > s.ttl {
			delete(s.attempts, token)
		}
	}
}

var _ Store = (*MemoryStore)(nil)
