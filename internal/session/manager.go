// Package session owns the session state model: the durable store, the
// single mutation entry point, and the history bounding rules. No other
// component writes a session's history or collected data directly.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/frontdesk/internal/domain"
)

// Manager is the single mutation entry point for session state. It layers
// two guards over the store: an in-process per-session busy lock (at most
// one turn in flight per session) and the store's optimistic version check.
type Manager struct {
	store        domain.SessionStore
	ttl          time.Duration
	maxUnits     int
	maxCondensed int

	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

func NewManager(store domain.SessionStore, ttl time.Duration, maxUnits, maxCondensed int) *Manager {
	return &Manager{
		store:        store,
		ttl:          ttl,
		maxUnits:     maxUnits,
		maxCondensed: maxCondensed,
		inflight:     make(map[uuid.UUID]struct{}),
	}
}

// Acquire claims the session for one turn. A second message arriving while
// the first is mid-processing gets domain.ErrSessionBusy.
func (m *Manager) Acquire(sessionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, busy := m.inflight[sessionID]; busy {
		return fmt.Errorf("session.Manager.Acquire(%s): %w", sessionID, domain.ErrSessionBusy)
	}
	m.inflight[sessionID] = struct{}{}

	return nil
}

// Release ends the turn claimed by Acquire.
func (m *Manager) Release(sessionID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inflight, sessionID)
}

// GetOrCreate loads an existing session or starts a fresh one. An expired
// session is replaced, not resurrected.
func (m *Manager) GetOrCreate(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.Session, error) {
	if sessionID != uuid.Nil {
		sess, err := m.store.Get(ctx, tenantID, sessionID)
		switch {
		case err == nil:
			if !sess.Expired(time.Now()) {
				return sess, nil
			}
			if delErr := m.store.Delete(ctx, tenantID, sessionID); delErr != nil {
				log.Warn().Err(delErr).Str("session_id", sessionID.String()).Msg("failed to delete expired session")
			}
		case !isNotFound(err):
			return nil, fmt.Errorf("session.Manager.GetOrCreate: %w", err)
		}
	}

	now := time.Now()
	return &domain.Session{
		ID:        uuid.New(),
		TenantID:  tenantID,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}, nil
}

// Get loads a session without creating one.
func (m *Manager) Get(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.Session, error) {
	sess, err := m.store.Get(ctx, tenantID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session.Manager.Get: %w", err)
	}
	if sess.Expired(time.Now()) {
		return nil, fmt.Errorf("session.Manager.Get: %w", domain.ErrSessionExpired)
	}

	return sess, nil
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, tenantID, sessionID uuid.UUID) error {
	if err := m.store.Delete(ctx, tenantID, sessionID); err != nil {
		return fmt.Errorf("session.Manager.Delete: %w", err)
	}
	return nil
}

// MergeEntities folds extracted entities into the session's collected data.
// Idempotent and commutative per key: the last value for a key wins.
func (m *Manager) MergeEntities(sess *domain.Session, entities domain.EntitySet) {
	sess.CollectedData.Merge(entities)
}

// AppendTurn records one complete turn: the user message, every generation
// unit produced while handling it (including tool calls and results), and
// the final reply. The appended units must satisfy the pairing invariant.
func (m *Manager) AppendTurn(sess *domain.Session, userMessage string, generated []domain.Unit, reply string) error {
	units := make([]domain.Unit, 0, len(generated)+1)
	units = append(units, domain.Unit{Role: domain.RoleUser, Text: userMessage})
	units = append(units, generated...)

	if err := domain.ValidateHistory(units); err != nil {
		return fmt.Errorf("session.Manager.AppendTurn: %w", err)
	}

	sess.FullHistory = append(sess.FullHistory, units...)
	sess.CondensedHistory = append(sess.CondensedHistory,
		domain.CondensedTurn{Role: domain.RoleUser, Text: truncate(userMessage, 200)},
		domain.CondensedTurn{Role: domain.RoleAssistant, Text: truncate(reply, 200)},
	)

	sess.MessageCount++
	now := time.Now()
	sess.UpdatedAt = now
	sess.ExpiresAt = now.Add(m.ttl)
	m.trim(sess)

	return nil
}

// Save persists the session with an optimistic version check. On success
// the session's Version is advanced by the store.
func (m *Manager) Save(ctx context.Context, sess *domain.Session) error {
	if err := m.store.Put(ctx, sess, sess.Version); err != nil {
		return fmt.Errorf("session.Manager.Save: %w", err)
	}
	return nil
}

// trim keeps both histories within their bounds. The full history only ever
// drops whole turns from the oldest end, so a tool-call/tool-result pair is
// never split. The one in-progress turn is never dropped.
func (m *Manager) trim(sess *domain.Session) {
	for len(sess.FullHistory) > m.maxUnits {
		cut := nextTurnStart(sess.FullHistory)
		if cut == 0 {
			break
		}
		sess.FullHistory = sess.FullHistory[cut:]
	}

	if n := len(sess.CondensedHistory); n > m.maxCondensed {
		sess.CondensedHistory = sess.CondensedHistory[n-m.maxCondensed:]
	}
}

// nextTurnStart returns the index of the second user unit, i.e. the first
// index that survives dropping the oldest turn. Zero means there is only
// one turn and nothing can be dropped.
func nextTurnStart(units []domain.Unit) int {
	for i := 1; i < len(units); i++ {
		if units[i].Role == domain.RoleUser {
			return i
		}
	}
	return 0
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
