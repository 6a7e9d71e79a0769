package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"govagas/internal/domain"
)

// MemoryStore é uma implementação em memória do Store, usada em testes
// e em desenvolvimento sem Redis.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
}

// NewMemoryStore cria um Store em memória.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
	}
}

func (s *MemoryStore) Create(ctx context.Context, actorID string, kind domain.ActorKind) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		ActorID:   actorID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return Session{}, ErrNotFound
	}
	if s.ttl > 0 && time.Since(sess.CreatedAt) > s.ttl {
		// Expiração preguiçosa, espelhando o TTL do Redis.
		_ = s.Destroy(ctx, id)
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *MemoryStore) Destroy(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
