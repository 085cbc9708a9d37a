package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/frontdesk/internal/domain"
)

// AuditSinkRepo is an insert-only store for the hash-chained trail. There
// is deliberately no update or delete path; per-tenant order comes from a
// bigserial seq column so paging is stable under identical timestamps.
type AuditSinkRepo struct {
	pool *pgxpool.Pool
}

func NewAuditSinkRepo(pool *pgxpool.Pool) *AuditSinkRepo {
	return &AuditSinkRepo{pool: pool}
}

func (r *AuditSinkRepo) Append(ctx context.Context, rec *domain.AuditRecord) error {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return fmt.Errorf("auditSinkRepo.Append: marshal payload: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_records (id, tenant_id, session_id, kind, payload, prev_hash, chain_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.TenantID, rec.SessionID, rec.Kind,
		payload, rec.PrevHash, rec.ChainHash, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("auditSinkRepo.Append: %w", err)
	}

	return nil
}

func (r *AuditSinkRepo) LastHash(ctx context.Context, tenantID uuid.UUID) (string, error) {
	var hash string

	err := r.pool.QueryRow(ctx,
		`SELECT chain_hash FROM audit_records
		 WHERE tenant_id = $1
		 ORDER BY seq DESC LIMIT 1`,
		tenantID,
	).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("auditSinkRepo.LastHash: %w", err)
	}

	return hash, nil
}

func (r *AuditSinkRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*domain.AuditRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, session_id, kind, payload, prev_hash, chain_hash, created_at
		 FROM audit_records WHERE tenant_id = $1
		 ORDER BY seq
		 LIMIT $2 OFFSET $3`,
		tenantID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("auditSinkRepo.ListByTenant: %w", err)
	}
	defer rows.Close()

	var records []*domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		var payload []byte

		if err := rows.Scan(
			&rec.ID, &rec.TenantID, &rec.SessionID, &rec.Kind,
			&payload, &rec.PrevHash, &rec.ChainHash, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("auditSinkRepo.ListByTenant: scan: %w", err)
		}
		if err := json.Unmarshal(payload, &rec.Payload); err != nil {
			return nil, fmt.Errorf("auditSinkRepo.ListByTenant: unmarshal payload: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("auditSinkRepo.ListByTenant: rows: %w", err)
	}

	return records, nil
}
