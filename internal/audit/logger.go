// Package audit writes the per-tenant hash-chained audit trail. Every
// side-effecting action in a turn (route decision, tool call, tool result,
// safety trigger, crisis, handoff) lands here before the turn's reply is
// returned.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/frontdesk/internal/domain"
)

// GenesisHash anchors each tenant's chain. The first record's PrevHash is
// always this value.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// Logger serializes appends per process and keeps a per-tenant cache of the
// chain head so steady-state appends avoid a sink round trip. The sink's
// LastHash is the source of truth on a cold cache.
type Logger struct {
	sink domain.AuditSink

	mu   sync.Mutex
	head map[uuid.UUID]string
}

func NewLogger(sink domain.AuditSink) *Logger {
	return &Logger{
		sink: sink,
		head: make(map[uuid.UUID]string),
	}
}

// Append creates a record chained onto the tenant's current head and writes
// it to the sink. A failed append leaves the chain head untouched.
func (l *Logger) Append(ctx context.Context, tenantID, sessionID uuid.UUID, kind domain.AuditKind, payload map[string]any) (*domain.AuditRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev, ok := l.head[tenantID]
	if !ok {
		var err error
		prev, err = l.sink.LastHash(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("audit.Logger.Append: %w", err)
		}
		if prev == "" {
			prev = GenesisHash
		}
	}

	canonical, err := canonicalPayload(payload)
	if err != nil {
		return nil, fmt.Errorf("audit.Logger.Append: %w", err)
	}

	record := &domain.AuditRecord{
		ID:        uuid.New(),
		TenantID:  tenantID,
		SessionID: sessionID,
		Kind:      kind,
		Payload:   canonical,
		PrevHash:  prev,
		// Microsecond precision survives a timestamptz round trip, so
		// Verify recomputes the same hash after a reload.
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	hash, err := chainHash(record)
	if err != nil {
		return nil, fmt.Errorf("audit.Logger.Append: %w", err)
	}
	record.ChainHash = hash

	if err := l.sink.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("audit.Logger.Append: %w", err)
	}
	l.head[tenantID] = record.ChainHash

	log.Debug().
		Str("tenant_id", tenantID.String()).
		Str("session_id", sessionID.String()).
		Str("kind", string(kind)).
		Str("chain_hash", record.ChainHash).
		Msg("audit record appended")

	return record, nil
}

// VerifyReport summarizes a chain verification pass.
type VerifyReport struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Records  int       `json:"records"`
	Valid    bool      `json:"valid"`
	// BrokenAt is the ID of the first record whose linkage or hash fails.
	// Zero when the chain is intact.
	BrokenAt uuid.UUID `json:"broken_at,omitempty"`
}

// Verify walks the tenant's full chain oldest-first, recomputing every hash
// and checking linkage. It reads through the sink, not the head cache.
func (l *Logger) Verify(ctx context.Context, tenantID uuid.UUID) (*VerifyReport, error) {
	const pageSize = 500

	report := &VerifyReport{TenantID: tenantID, Valid: true}
	prev := GenesisHash

	for offset := 0; ; offset += pageSize {
		records, err := l.sink.ListByTenant(ctx, tenantID, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("audit.Logger.Verify: %w", err)
		}
		if len(records) == 0 {
			break
		}

		for _, rec := range records {
			report.Records++
			if !report.Valid {
				continue
			}

			hash, err := chainHash(rec)
			if err != nil {
				return nil, fmt.Errorf("audit.Logger.Verify: %w", err)
			}
			if rec.PrevHash != prev || rec.ChainHash != hash {
				report.Valid = false
				report.BrokenAt = rec.ID
				continue
			}
			prev = rec.ChainHash
		}

		if len(records) < pageSize {
			break
		}
	}

	return report, nil
}

// chainBody is the canonical serialization input for the chain hash: every
// field except ChainHash itself, in fixed order. Payload is canonicalized
// at Append, so re-marshaling it after any storage round trip produces the
// same bytes.
type chainBody struct {
	ID        uuid.UUID        `json:"id"`
	TenantID  uuid.UUID        `json:"tenant_id"`
	SessionID uuid.UUID        `json:"session_id"`
	Kind      domain.AuditKind `json:"kind"`
	Payload   map[string]any   `json:"payload"`
	PrevHash  string           `json:"prev_hash"`
	CreatedAt time.Time        `json:"created_at"`
}

func chainHash(rec *domain.AuditRecord) (string, error) {
	body, err := json.Marshal(chainBody{
		ID:        rec.ID,
		TenantID:  rec.TenantID,
		SessionID: rec.SessionID,
		Kind:      rec.Kind,
		Payload:   rec.Payload,
		PrevHash:  rec.PrevHash,
		CreatedAt: rec.CreatedAt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chain body: %w", err)
	}

	sum := sha256.Sum256(append([]byte(rec.PrevHash), body...))
	return hex.EncodeToString(sum[:]), nil
}

// canonicalPayload forces the payload into the shape any sink hands back:
// plain maps, slices, strings, bools, and float64 numbers with sorted keys
// at every level. A raw JSON leaf would otherwise be hashed in its original
// key order and re-marshal differently after a storage round trip.
func canonicalPayload(payload map[string]any) (map[string]any, error) {
	if payload == nil {
		return nil, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("canonicalize payload: %w", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("canonicalize payload: %w", err)
	}
	return out, nil
}
