package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/frontdesk/internal/audit"
	"github.com/gosuda/frontdesk/internal/domain"
	"github.com/gosuda/frontdesk/internal/server/middleware"
)

type ListAuditRecordsInput struct {
	Limit  int `query:"limit" minimum:"1" maximum:"500" default:"100" doc:"Max results"`
	Offset int `query:"offset" minimum:"0" default:"0" doc:"Offset for pagination"`
}

type ListAuditRecordsOutput struct {
	Body []*domain.AuditRecord
}

type VerifyAuditOutput struct {
	Body *audit.VerifyReport
}

func RegisterAuditRoutes(api huma.API, sink domain.AuditSink, auditor *audit.Logger) {
	huma.Register(api, huma.Operation{
		OperationID: "list-audit-records",
		Method:      http.MethodGet,
		Path:        "/audit/records",
		Summary:     "List audit records oldest-first",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *ListAuditRecordsInput) (*ListAuditRecordsOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("valid tenant required")
		}

		records, err := sink.ListByTenant(ctx, tenantID, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list audit records", err)
		}

		return &ListAuditRecordsOutput{Body: records}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "verify-audit-chain",
		Method:      http.MethodGet,
		Path:        "/audit/verify",
		Summary:     "Recompute and verify the tenant's audit hash chain",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, _ *struct{}) (*VerifyAuditOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("valid tenant required")
		}

		report, err := auditor.Verify(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to verify audit chain", err)
		}

		return &VerifyAuditOutput{Body: report}, nil
	})
}
