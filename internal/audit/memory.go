package audit

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gosuda/frontdesk/internal/domain"
)

// MemorySink is an in-process AuditSink used in tests and single-node
// development. Records are kept per tenant in append order.
type MemorySink struct {
	mu      sync.Mutex
	records map[uuid.UUID][]*domain.AuditRecord
}

func NewMemorySink() *MemorySink {
	return &MemorySink{records: make(map[uuid.UUID][]*domain.AuditRecord)}
}

func (s *MemorySink) Append(_ context.Context, record *domain.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *record
	s.records[record.TenantID] = append(s.records[record.TenantID], &clone)

	return nil
}

func (s *MemorySink) LastHash(_ context.Context, tenantID uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.records[tenantID]
	if len(recs) == 0 {
		return "", nil
	}

	return recs[len(recs)-1].ChainHash, nil
}

func (s *MemorySink) ListByTenant(_ context.Context, tenantID uuid.UUID, limit, offset int) ([]*domain.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.records[tenantID]
	if offset >= len(recs) {
		return nil, nil
	}

	end := offset + limit
	if end > len(recs) {
		end = len(recs)
	}

	out := make([]*domain.AuditRecord, 0, end-offset)
	for _, rec := range recs[offset:end] {
		clone := *rec
		out = append(out, &clone)
	}

	return out, nil
}

// Tamper overwrites a stored record's payload in place. Test helper for
// exercising chain verification failures.
func (s *MemorySink) Tamper(tenantID uuid.UUID, index int, payload map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[tenantID][index].Payload = payload
}
