package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const ContextKeyTenantID contextKey = "tenant_id"

func TenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyTenantID).(uuid.UUID)
	return v, ok
}
