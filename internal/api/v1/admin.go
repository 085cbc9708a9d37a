package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/frontdesk/internal/auth"
	"github.com/gosuda/frontdesk/internal/domain"
)

type CreateTenantInput struct {
	Body struct {
		Name   string              `json:"name" minLength:"1" maxLength:"255" doc:"Clinic name"`
		Slug   string              `json:"slug" minLength:"1" maxLength:"63" pattern:"^[a-z0-9]+(?:-[a-z0-9]+)*$" doc:"URL-safe slug (lowercase alphanumeric with hyphens)"`
		Policy domain.TenantPolicy `json:"policy,omitempty" doc:"Per-clinic overrides; zero values use process defaults"`
	}
}

type CreateTenantOutput struct {
	Body *domain.Tenant
}

type GetTenantInput struct {
	Slug string `path:"slug" doc:"Tenant slug"`
}

type GetTenantOutput struct {
	Body *domain.Tenant
}

type ListTenantsOutput struct {
	Body []*domain.Tenant
}

type UpdateTenantInput struct {
	ID   uuid.UUID `path:"id" doc:"Tenant ID"`
	Body struct {
		Name   *string              `json:"name,omitempty" maxLength:"255" doc:"New clinic name"`
		Policy *domain.TenantPolicy `json:"policy,omitempty" doc:"Replacement policy"`
	}
}

type UpdateTenantOutput struct {
	Body *domain.Tenant
}

type CreateAPIKeyInput struct {
	ID   uuid.UUID `path:"id" doc:"Tenant ID"`
	Body struct {
		Name      string     `json:"name" minLength:"1" maxLength:"255" doc:"Key label (e.g. 'website widget')"`
		ExpiresAt *time.Time `json:"expires_at,omitempty" doc:"Optional expiry; omit for a non-expiring key"`
	}
}

type CreateAPIKeyOutput struct {
	Body struct {
		Key    string         `json:"key" doc:"Raw API key, shown exactly once"`
		Record *domain.APIKey `json:"record"`
	}
}

type IssueTokenInput struct {
	ID uuid.UUID `path:"id" doc:"Tenant ID"`
}

type IssueTokenOutput struct {
	Body struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
}

// RegisterAdminRoutes mounts the operator provisioning surface: tenants and
// their credentials. The server only exposes these in self-hosted mode,
// where the operator owns the network boundary.
func RegisterAdminRoutes(api huma.API, tenants domain.TenantRepository, keys domain.APIKeyRepository, jwtSecret string, accessTTL time.Duration) {
	huma.Register(api, huma.Operation{
		OperationID: "create-tenant",
		Method:      http.MethodPost,
		Path:        "/tenants",
		Summary:     "Create a new tenant",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *CreateTenantInput) (*CreateTenantOutput, error) {
		now := time.Now()
		t := &domain.Tenant{
			ID:        uuid.New(),
			Name:      input.Body.Name,
			Slug:      input.Body.Slug,
			Policy:    input.Body.Policy,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := tenants.Create(ctx, t); err != nil {
			return nil, huma.Error500InternalServerError("failed to create tenant", err)
		}

		return &CreateTenantOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tenants",
		Method:      http.MethodGet,
		Path:        "/tenants",
		Summary:     "List all tenants",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, _ *struct{}) (*ListTenantsOutput, error) {
		all, err := tenants.List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list tenants", err)
		}

		return &ListTenantsOutput{Body: all}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tenant",
		Method:      http.MethodGet,
		Path:        "/tenants/{slug}",
		Summary:     "Get a tenant by slug",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *GetTenantInput) (*GetTenantOutput, error) {
		t, err := tenants.GetBySlug(ctx, input.Slug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("tenant not found")
			}
			return nil, huma.Error500InternalServerError("failed to load tenant", err)
		}

		return &GetTenantOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-tenant",
		Method:      http.MethodPatch,
		Path:        "/tenants/{id}",
		Summary:     "Update a tenant's name or policy",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *UpdateTenantInput) (*UpdateTenantOutput, error) {
		t, err := tenants.GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("tenant not found")
			}
			return nil, huma.Error500InternalServerError("failed to load tenant", err)
		}

		if input.Body.Name != nil {
			t.Name = *input.Body.Name
		}
		if input.Body.Policy != nil {
			t.Policy = *input.Body.Policy
		}
		t.UpdatedAt = time.Now()

		if err := tenants.Update(ctx, t); err != nil {
			return nil, huma.Error500InternalServerError("failed to update tenant", err)
		}

		return &UpdateTenantOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-api-key",
		Method:      http.MethodPost,
		Path:        "/tenants/{id}/keys",
		Summary:     "Issue a new API key for a tenant",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *CreateAPIKeyInput) (*CreateAPIKeyOutput, error) {
		if _, err := tenants.GetByID(ctx, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("tenant not found")
			}
			return nil, huma.Error500InternalServerError("failed to load tenant", err)
		}

		raw, record, err := auth.GenerateAPIKey(ctx, keys, input.ID, input.Body.Name, input.Body.ExpiresAt)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create API key", err)
		}

		out := &CreateAPIKeyOutput{}
		out.Body.Key = raw
		out.Body.Record = record
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "issue-tenant-token",
		Method:      http.MethodPost,
		Path:        "/tenants/{id}/token",
		Summary:     "Issue a short-lived bearer token for a tenant",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *IssueTokenInput) (*IssueTokenOutput, error) {
		if _, err := tenants.GetByID(ctx, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("tenant not found")
			}
			return nil, huma.Error500InternalServerError("failed to load tenant", err)
		}

		token, err := auth.IssueTenantToken(jwtSecret, input.ID, accessTTL)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to issue token", err)
		}

		out := &IssueTokenOutput{}
		out.Body.Token = token
		out.Body.ExpiresAt = time.Now().Add(accessTTL)
		return out, nil
	})
}
