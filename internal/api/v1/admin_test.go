package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/frontdesk/internal/api/v1"
	"github.com/gosuda/frontdesk/internal/domain"
)

const testJWTSecret = "admin-test-secret-at-least-32-ch!"

func registerAdmin(t *testing.T, tenants domain.TenantRepository, keys domain.APIKeyRepository) humatest.TestAPI {
	t.Helper()

	_, api := humatest.New(t)
	v1.RegisterAdminRoutes(api, tenants, keys, testJWTSecret, 15*time.Minute)
	return api
}

func TestCreateTenant(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		repo := &mockTenantRepo{
			createFunc: func(_ context.Context, tenant *domain.Tenant) error {
				assert.Equal(t, "Lakeside Clinic", tenant.Name)
				assert.Equal(t, "lakeside", tenant.Slug)
				assert.NotEqual(t, uuid.Nil, tenant.ID)
				assert.False(t, tenant.CreatedAt.IsZero())
				return nil
			},
		}

		api := registerAdmin(t, repo, &mockKeyRepo{})

		resp := api.Post("/tenants", map[string]any{
			"name": "Lakeside Clinic",
			"slug": "lakeside",
			"policy": map[string]any{
				"confidence_threshold": 0.8,
			},
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Tenant
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "lakeside", body.Slug)
		assert.InDelta(t, 0.8, body.Policy.ConfidenceThreshold, 1e-9)
	})

	t.Run("rejects_bad_slug", func(t *testing.T) {
		t.Parallel()

		api := registerAdmin(t, &mockTenantRepo{}, &mockKeyRepo{})

		resp := api.Post("/tenants", map[string]any{
			"name": "Bad Slug Clinic",
			"slug": "Not A Slug",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

func TestGetTenantBySlug(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		tenant := &domain.Tenant{ID: fixedTenantID(), Name: "Lakeside Clinic", Slug: "lakeside"}
		api := registerAdmin(t, knownTenantRepo(tenant), &mockKeyRepo{})

		resp := api.Get("/tenants/lakeside")
		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Tenant
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, tenant.ID, body.ID)
	})

	t.Run("unknown_slug_not_found", func(t *testing.T) {
		t.Parallel()

		repo := &mockTenantRepo{
			getBySlugFunc: func(_ context.Context, _ string) (*domain.Tenant, error) {
				return nil, domain.ErrNotFound
			},
		}
		api := registerAdmin(t, repo, &mockKeyRepo{})

		resp := api.Get("/tenants/nowhere")
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestUpdateTenant(t *testing.T) {
	t.Parallel()

	tenant := &domain.Tenant{ID: fixedTenantID(), Name: "Lakeside Clinic", Slug: "lakeside"}

	repo := knownTenantRepo(tenant)
	repo.updateFunc = func(_ context.Context, updated *domain.Tenant) error {
		assert.Equal(t, "Lakeside Family Clinic", updated.Name)
		assert.Equal(t, 4, updated.Policy.MaxToolRounds)
		return nil
	}

	api := registerAdmin(t, repo, &mockKeyRepo{})

	resp := api.Patch("/tenants/"+tenant.ID.String(), map[string]any{
		"name": "Lakeside Family Clinic",
		"policy": map[string]any{
			"max_tool_rounds": 4,
		},
	})

	require.Equal(t, http.StatusOK, resp.Code)

	var body domain.Tenant
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Lakeside Family Clinic", body.Name)
}

func TestCreateAPIKey(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		tenant := &domain.Tenant{ID: fixedTenantID(), Name: "Lakeside Clinic", Slug: "lakeside"}

		var stored *domain.APIKey
		keys := &mockKeyRepo{
			createFunc: func(_ context.Context, key *domain.APIKey) error {
				stored = key
				return nil
			},
		}

		api := registerAdmin(t, knownTenantRepo(tenant), keys)

		resp := api.Post("/tenants/"+tenant.ID.String()+"/keys", map[string]any{
			"name": "website widget",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Key    string         `json:"key"`
			Record *domain.APIKey `json:"record"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

		// The raw key is returned once and never stored.
		assert.True(t, strings.HasPrefix(body.Key, "fdsk_"))
		require.NotNil(t, stored)
		assert.NotContains(t, stored.KeyHash, body.Key)
		assert.Equal(t, body.Key[:8], stored.Prefix)
		assert.Equal(t, tenant.ID, stored.TenantID)
	})

	t.Run("unknown_tenant_not_found", func(t *testing.T) {
		t.Parallel()

		repo := &mockTenantRepo{
			getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Tenant, error) {
				return nil, domain.ErrNotFound
			},
		}

		api := registerAdmin(t, repo, &mockKeyRepo{})

		resp := api.Post("/tenants/"+uuid.NewString()+"/keys", map[string]any{
			"name": "orphan key",
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestIssueTenantTokenRoute(t *testing.T) {
	t.Parallel()

	tenant := &domain.Tenant{ID: fixedTenantID(), Name: "Lakeside Clinic", Slug: "lakeside"}
	api := registerAdmin(t, knownTenantRepo(tenant), &mockKeyRepo{})

	resp := api.Post("/tenants/" + tenant.ID.String() + "/token")
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)

	// The token is valid and carries the tenant claim.
	var claims struct {
		jwt.RegisteredClaims
		TenantID string `json:"tid"`
	}
	parsed, err := jwt.ParseWithClaims(body.Token, &claims, func(_ *jwt.Token) (any, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, tenant.ID.String(), claims.TenantID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), body.ExpiresAt, 5*time.Second)
}
