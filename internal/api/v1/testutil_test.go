package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/frontdesk/internal/domain"
	"github.com/gosuda/frontdesk/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject the authenticated tenant for DoCtx
// ---------------------------------------------------------------------------

func tenantCtx(tenantID uuid.UUID) context.Context {
	return context.WithValue(context.Background(), middleware.ContextKeyTenantID, tenantID)
}

func fixedTenantID() uuid.UUID {
	return uuid.MustParse("6e1a2b6c-7a7e-4f8e-9c3d-0b1a2c3d4e5f")
}

// ---------------------------------------------------------------------------
// Mock TenantRepository
// ---------------------------------------------------------------------------

type mockTenantRepo struct {
	createFunc    func(ctx context.Context, t *domain.Tenant) error
	getByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	getBySlugFunc func(ctx context.Context, slug string) (*domain.Tenant, error)
	updateFunc    func(ctx context.Context, t *domain.Tenant) error
	listFunc      func(ctx context.Context) ([]*domain.Tenant, error)
}

func (m *mockTenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	return m.createFunc(ctx, t)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockTenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return m.getBySlugFunc(ctx, slug)
}

func (m *mockTenantRepo) Update(ctx context.Context, t *domain.Tenant) error {
	return m.updateFunc(ctx, t)
}

func (m *mockTenantRepo) List(ctx context.Context) ([]*domain.Tenant, error) {
	return m.listFunc(ctx)
}

// knownTenantRepo resolves every lookup to the same tenant.
func knownTenantRepo(tenant *domain.Tenant) *mockTenantRepo {
	return &mockTenantRepo{
		getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Tenant, error) {
			return tenant, nil
		},
		getBySlugFunc: func(_ context.Context, _ string) (*domain.Tenant, error) {
			return tenant, nil
		},
	}
}

// ---------------------------------------------------------------------------
// Mock APIKeyRepository
// ---------------------------------------------------------------------------

type mockKeyRepo struct {
	createFunc func(ctx context.Context, key *domain.APIKey) error
}

func (m *mockKeyRepo) Create(ctx context.Context, key *domain.APIKey) error {
	return m.createFunc(ctx, key)
}

func (m *mockKeyRepo) GetByPrefix(_ context.Context, _ string) (*domain.APIKey, error) {
	return nil, domain.ErrNotFound
}

func (m *mockKeyRepo) UpdateLastUsed(_ context.Context, _ uuid.UUID) error {
	return nil
}
