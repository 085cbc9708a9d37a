package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/gosuda/frontdesk/internal/api/v1"
	"github.com/gosuda/frontdesk/internal/audit"
	"github.com/gosuda/frontdesk/internal/config"
	"github.com/gosuda/frontdesk/internal/dispatch"
	"github.com/gosuda/frontdesk/internal/session"
	"github.com/gosuda/frontdesk/internal/store/postgres"
)

func registerAPIRoutes(api huma.API, store *postgres.Store, sessions *session.Manager, dispatcher *dispatch.Dispatcher, auditor *audit.Logger) {
	v1.RegisterChatRoutes(api, dispatcher, store.Tenants())
	v1.RegisterSessionRoutes(api, sessions)
	v1.RegisterAuditRoutes(api, store.Audit(), auditor)
}

func registerAdminRoutes(api huma.API, store *postgres.Store, cfg *config.Config) {
	v1.RegisterAdminRoutes(api, store.Tenants(), store.APIKeys(), cfg.JWT.Secret, cfg.JWT.AccessTTL)
}
