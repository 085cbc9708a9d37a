package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditKind categorizes audit records.
type AuditKind string

const (
	AuditRoute         AuditKind = "route"
	AuditToolCall      AuditKind = "tool_call"
	AuditToolResult    AuditKind = "tool_result"
	AuditSafetyTrigger AuditKind = "safety_trigger"
	AuditCrisis        AuditKind = "crisis"
	AuditHandoff       AuditKind = "handoff"
)

// AuditRecord is an immutable, totally ordered (per tenant) record of a
// side-effecting action. ChainHash = sha256(previous ChainHash ‖ canonical
// serialization), so any tampered or deleted record breaks the chain from
// that point forward.
type AuditRecord struct {
	ID        uuid.UUID      `json:"id"`
	TenantID  uuid.UUID      `json:"tenant_id"`
	SessionID uuid.UUID      `json:"session_id"`
	Kind      AuditKind      `json:"kind"`
	Payload   map[string]any `json:"payload"`
	PrevHash  string         `json:"prev_hash"`
	ChainHash string         `json:"chain_hash"`
	CreatedAt time.Time      `json:"created_at"`
}

// AuditSink is an append-only store for audit records. Implementations must
// never edit or delete records in place, and Append must not silently drop.
type AuditSink interface {
	Append(ctx context.Context, record *AuditRecord) error
	LastHash(ctx context.Context, tenantID uuid.UUID) (string, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*AuditRecord, error)
}
