package agent

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/frontdesk/internal/domain"
)

// CrisisReply is the fixed crisis response. Reviewed and approved text;
// never generated, never varied.
const CrisisReply = "I hear you, and I want you to know that help is available right now. " +
	"Please reach out to the 988 Suicide & Crisis Lifeline — " +
	"you can call or text 988 anytime, 24/7. " +
	"You can also chat at 988lifeline.org. " +
	"Would you like me to connect you with someone at the clinic who can help?"

// CrisisHandler is fully deterministic. A patient in crisis never gets a
// generated response, no matter how the turn was classified or what state
// the session is in.
type CrisisHandler struct{}

func NewCrisisHandler() *CrisisHandler { return &CrisisHandler{} }

func (CrisisHandler) Domain() domain.Domain { return domain.DomainCrisis }

func (CrisisHandler) Handle(_ context.Context, _ *domain.Tenant, sess *domain.Session, _ *domain.RouteDecision, _ string) (*Output, error) {
	log.Warn().
		Str("session_id", sess.ID.String()).
		Msg("crisis response triggered, providing 988 Lifeline resources")

	return &Output{
		Reply: CrisisReply,
		Units: []domain.Unit{{Role: domain.RoleAssistant, Text: CrisisReply}},
	}, nil
}
