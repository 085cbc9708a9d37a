// Package v1 holds the HTTP handlers for the public API. Handlers stay
// thin: resolve the tenant, validate input, call into the orchestration
// core, and map domain errors to HTTP status codes.
package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/frontdesk/internal/dispatch"
	"github.com/gosuda/frontdesk/internal/domain"
	"github.com/gosuda/frontdesk/internal/server/middleware"
)

// Processor is the slice of the dispatcher the chat endpoint needs.
type Processor interface {
	Process(ctx context.Context, tenant *domain.Tenant, sessionID uuid.UUID, message string) (*dispatch.Result, error)
}

type ChatInput struct {
	Body struct {
		SessionID string `json:"session_id,omitempty" doc:"Existing session to continue; omit to start a new one"`
		Message   string `json:"message" minLength:"1" maxLength:"4000" doc:"Patient message"`
	}
}

type ChatOutput struct {
	Body struct {
		Reply         string            `json:"reply"`
		SessionID     uuid.UUID         `json:"session_id"`
		Domain        string            `json:"domain,omitempty"`
		SubIntent     string            `json:"sub_intent,omitempty"`
		Confidence    float64           `json:"confidence"`
		BookingID     string            `json:"booking_id,omitempty"`
		CollectedData *domain.EntitySet `json:"collected_data,omitempty"`
		ElapsedMS     int64             `json:"elapsed_ms"`
	}
}

// RegisterChatRoutes mounts the conversational endpoint. Degraded turns
// (provider down, loop cap, safety block) are normal 200 responses with
// fallback text; only a busy session or an internal failure is an error.
func RegisterChatRoutes(api huma.API, dispatcher Processor, tenants domain.TenantRepository) {
	huma.Register(api, huma.Operation{
		OperationID: "chat",
		Method:      http.MethodPost,
		Path:        "/chat",
		Summary:     "Process one patient message",
		Tags:        []string{"Chat"},
	}, func(ctx context.Context, input *ChatInput) (*ChatOutput, error) {
		tenant, err := resolveTenant(ctx, tenants)
		if err != nil {
			return nil, err
		}

		sessionID := uuid.New()
		if input.Body.SessionID != "" {
			sessionID, err = uuid.Parse(input.Body.SessionID)
			if err != nil {
				return nil, huma.Error422UnprocessableEntity("session_id must be a valid UUID")
			}
		}

		result, err := dispatcher.Process(ctx, tenant, sessionID, input.Body.Message)
		if err != nil {
			if errors.Is(err, domain.ErrSessionBusy) {
				return nil, huma.Error409Conflict("session is processing another message")
			}
			return nil, huma.Error500InternalServerError("failed to process message", err)
		}

		out := &ChatOutput{}
		out.Body.Reply = result.Reply
		out.Body.SessionID = result.SessionID
		out.Body.Domain = result.Domain
		out.Body.SubIntent = result.SubIntent
		out.Body.Confidence = result.Confidence
		out.Body.BookingID = result.BookingID
		out.Body.CollectedData = result.CollectedData
		out.Body.ElapsedMS = result.Elapsed.Milliseconds()
		return out, nil
	})
}

// resolveTenant loads the authenticated tenant. Auth middleware guarantees
// a tenant ID is present; a dangling ID (tenant deleted after the key was
// issued) is treated as forbidden, not as a server error.
func resolveTenant(ctx context.Context, tenants domain.TenantRepository) (*domain.Tenant, error) {
	tenantID, ok := middleware.TenantIDFromContext(ctx)
	if !ok {
		return nil, huma.Error403Forbidden("valid tenant required")
	}

	tenant, err := tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error403Forbidden("valid tenant required")
		}
		return nil, huma.Error500InternalServerError("failed to load tenant", err)
	}
	return tenant, nil
}
