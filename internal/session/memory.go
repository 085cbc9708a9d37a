package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gosuda/frontdesk/internal/domain"
)

// MemoryStore is an in-process SessionStore with the same version semantics
// as the Redis store. Used in tests and single-node development.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, tenantID, sessionID uuid.UUID) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.sessions[Key(tenantID, sessionID)]
	if !ok {
		return nil, fmt.Errorf("session.MemoryStore.Get(%s): %w", sessionID, domain.ErrNotFound)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session.MemoryStore.Get: unmarshal: %w", err)
	}

	return &sess, nil
}

func (s *MemoryStore) Put(_ context.Context, sess *domain.Session, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(sess.TenantID, sess.ID)

	if data, ok := s.sessions[key]; ok {
		var stored domain.Session
		if err := json.Unmarshal(data, &stored); err != nil {
			return fmt.Errorf("session.MemoryStore.Put: unmarshal stored: %w", err)
		}
		if stored.Version != expectedVersion {
			return fmt.Errorf("session.MemoryStore.Put(%s): %w", sess.ID, domain.ErrVersionConflict)
		}
	} else if expectedVersion != 0 {
		return fmt.Errorf("session.MemoryStore.Put(%s): %w", sess.ID, domain.ErrVersionConflict)
	}

	sess.Version = expectedVersion + 1
	data, err := json.Marshal(sess)
	if err != nil {
		sess.Version = expectedVersion
		return fmt.Errorf("session.MemoryStore.Put: marshal: %w", err)
	}
	s.sessions[key] = data

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, tenantID, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, Key(tenantID, sessionID))
	return nil
}
