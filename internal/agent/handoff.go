package agent

import (
	"context"
	"fmt"

	"github.com/gosuda/frontdesk/internal/domain"
	"github.com/gosuda/frontdesk/internal/llm"
)

// HandoffAgent acknowledges a transfer request. The generation only writes
// the acknowledgment; the actual transfer event is the dispatcher's side
// effect, flagged via Output.HandoffRequested.
type HandoffAgent struct {
	client llm.Client
	model  string
}

func NewHandoffAgent(client llm.Client, model string) *HandoffAgent {
	return &HandoffAgent{client: client, model: model}
}

func (a *HandoffAgent) Domain() domain.Domain { return domain.DomainHandoff }

func (a *HandoffAgent) Handle(ctx context.Context, _ *domain.Tenant, sess *domain.Session, _ *domain.RouteDecision, message string) (*Output, error) {
	system := fmt.Sprintf(handoffPrompt, collectedSummary(sess), conversationContext(sess))

	messages := make([]domain.Unit, 0, len(sess.FullHistory)+1)
	messages = append(messages, sess.FullHistory...)
	messages = append(messages, domain.Unit{Role: domain.RoleUser, Text: message})

	resp, err := a.client.Generate(ctx, llm.Request{
		Model:     a.model,
		System:    system,
		Messages:  messages,
		MaxTokens: loopMaxTokens,
	})

	// A failed acknowledgment must not cancel the transfer. Fall back to a
	// fixed line and keep the handoff flag set.
	text := "Of course — let me connect you with someone at the front desk. One moment."
	if err == nil && resp.Text != "" {
		text = resp.Text
	}

	return &Output{
		Reply:            text,
		Units:            []domain.Unit{{Role: domain.RoleAssistant, Text: text}},
		HandoffRequested: true,
	}, nil
}
