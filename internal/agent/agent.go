// Package agent implements the domain agents and the tool loop they share.
// Each agent owns one domain's conversation style and a fixed tool set;
// which tools an agent can reach is decided at construction, never at
// dispatch time.
package agent

import (
	"context"

	"github.com/gosuda/frontdesk/internal/domain"
)

// FallbackReply is delivered when a turn degrades: provider failure, tool
// loop cap, or an agent error the conversation can absorb.
const FallbackReply = "I'm having a bit of trouble right now. Let me connect you with the front desk."

// Output is one handled turn. Units holds every generation unit the turn
// produced, in order, ready for the session's history; the final unit is
// always the assistant text matching Reply.
type Output struct {
	Reply     string
	Units     []domain.Unit
	BookingID string

	// HandoffRequested tells the dispatcher to publish the handoff event
	// after the turn is persisted.
	HandoffRequested bool
}

// Handler is one domain agent. Handle receives the full tenant so per-clinic
// policy (tool round cap) reaches the loop.
type Handler interface {
	Domain() domain.Domain
	Handle(ctx context.Context, tenant *domain.Tenant, sess *domain.Session, decision *domain.RouteDecision, message string) (*Output, error)
}
