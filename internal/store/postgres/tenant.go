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

type TenantRepo struct {
	pool *pgxpool.Pool
}

func NewTenantRepo(pool *pgxpool.Pool) *TenantRepo {
	return &TenantRepo{pool: pool}
}

func (r *TenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	policy, err := json.Marshal(t.Policy)
	if err != nil {
		return fmt.Errorf("tenantRepo.Create: marshal policy: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO tenants (id, name, slug, policy, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Name, t.Slug, policy, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("tenantRepo.Create: %w", err)
	}

	return nil
}

func (r *TenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return r.get(ctx, "tenantRepo.GetByID",
		`SELECT id, name, slug, policy, created_at, updated_at
		 FROM tenants WHERE id = $1`, id)
}

func (r *TenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return r.get(ctx, "tenantRepo.GetBySlug",
		`SELECT id, name, slug, policy, created_at, updated_at
		 FROM tenants WHERE slug = $1`, slug)
}

func (r *TenantRepo) get(ctx context.Context, caller, query string, arg any) (*domain.Tenant, error) {
	var t domain.Tenant
	var policy []byte

	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&t.ID, &t.Name, &t.Slug, &policy, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", caller, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caller, err)
	}
	if err := json.Unmarshal(policy, &t.Policy); err != nil {
		return nil, fmt.Errorf("%s: unmarshal policy: %w", caller, err)
	}

	return &t, nil
}

func (r *TenantRepo) Update(ctx context.Context, t *domain.Tenant) error {
	policy, err := json.Marshal(t.Policy)
	if err != nil {
		return fmt.Errorf("tenantRepo.Update: marshal policy: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE tenants SET name = $1, slug = $2, policy = $3, updated_at = now()
		 WHERE id = $4`,
		t.Name, t.Slug, policy, t.ID,
	)
	if err != nil {
		return fmt.Errorf("tenantRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tenantRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TenantRepo) List(ctx context.Context) ([]*domain.Tenant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, slug, policy, created_at, updated_at
		 FROM tenants ORDER BY created_at
		 LIMIT 500`,
	)
	if err != nil {
		return nil, fmt.Errorf("tenantRepo.List: %w", err)
	}
	defer rows.Close()

	var tenants []*domain.Tenant
	for rows.Next() {
		var t domain.Tenant
		var policy []byte

		err = rows.Scan(&t.ID, &t.Name, &t.Slug, &policy, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("tenantRepo.List: scan: %w", err)
		}
		if err := json.Unmarshal(policy, &t.Policy); err != nil {
			return nil, fmt.Errorf("tenantRepo.List: unmarshal policy: %w", err)
		}

		tenants = append(tenants, &t)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("tenantRepo.List: rows: %w", err)
	}

	return tenants, nil
}
