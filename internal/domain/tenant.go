package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TenantPolicy holds the per-clinic knobs the orchestration core consults.
// Zero values fall back to the process-wide defaults from config.
type TenantPolicy struct {
	ConfidenceThreshold float64 `json:"confidence_threshold,omitempty"`
	MaxToolRounds       int     `json:"max_tool_rounds,omitempty"`
	RatePerSecond       float64 `json:"rate_per_second,omitempty"`
	RateBurst           int     `json:"rate_burst,omitempty"`
}

// Tenant is one clinic. Every session, audit record, and API key is scoped
// to exactly one tenant.
type Tenant struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Slug      string       `json:"slug"`
	Policy    TenantPolicy `json:"policy"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type TenantRepository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	List(ctx context.Context) ([]*Tenant, error)
}

// APIKey authenticates a tenant's integration. Only the SHA-256 hash is
// stored; the raw key is shown once at creation.
type APIKey struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   uuid.UUID  `json:"tenant_id"`
	Name       string     `json:"name"`
	KeyHash    string     `json:"-"`
	Prefix     string     `json:"prefix"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type APIKeyRepository interface {
	Create(ctx context.Context, key *APIKey) error
	GetByPrefix(ctx context.Context, prefix string) (*APIKey, error)
	UpdateLastUsed(ctx context.Context, id uuid.UUID) error
}
