// Package auth issues the two credentials an integration can present:
// tenant-scoped JWTs and API keys. Verification lives in the server
// middleware; this package only mints.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gosuda/frontdesk/internal/domain"
)

const (
	apiKeyPrefix    = "fdsk_"
	apiKeyRandLen   = 16 // 16 bytes = 32 hex chars
	apiKeyPrefixLen = 8  // first 8 chars of the full key used for lookup
)

// Claims is the JWT payload. There is no user identity; a token acts for a
// whole clinic.
type Claims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tid"`
}

// IssueTenantToken creates a signed HS256 access token for a tenant.
func IssueTenantToken(secret string, tenantID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "frontdesk",
		},
		TenantID: tenantID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth.IssueTenantToken: %w", err)
	}

	return signed, nil
}

// GenerateAPIKey creates a new API key, stores the SHA-256 hash, and returns
// the raw key (shown once). Key format: "fdsk_" + 32 random hex chars.
func GenerateAPIKey(ctx context.Context, keys domain.APIKeyRepository, tenantID uuid.UUID, name string, expiresAt *time.Time) (string, *domain.APIKey, error) {
	raw := make([]byte, apiKeyRandLen)
	if _, err := rand.Read(raw); err != nil {
		return "", nil, fmt.Errorf("auth.GenerateAPIKey: %w", err)
	}

	rawKey := apiKeyPrefix + hex.EncodeToString(raw)

	hash := sha256.Sum256([]byte(rawKey))
	keyHash := hex.EncodeToString(hash[:])

	key := &domain.APIKey{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      name,
		KeyHash:   keyHash,
		Prefix:    rawKey[:apiKeyPrefixLen],
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}

	if err := keys.Create(ctx, key); err != nil {
		return "", nil, fmt.Errorf("auth.GenerateAPIKey: %w", err)
	}

	return rawKey, key, nil
}
