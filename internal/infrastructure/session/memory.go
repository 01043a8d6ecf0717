package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/episko/blog/internal/core/domain"
	"github.com/episko/blog/internal/core/ports"
)

type entry struct {
	claims    domain.Claims
	expiresAt time.Time
}

// MemoryStore is a process-local session store. Expired entries are dropped
// lazily on access.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

var _ ports.SessionStore = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, claims domain.Claims) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = entry{claims: claims, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Claims, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}

	claims := e.claims
	return &claims, nil
}

func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
