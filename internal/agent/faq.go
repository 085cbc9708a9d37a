package agent

import (
	"context"
	"fmt"

	"github.com/gosuda/frontdesk/internal/domain"
	"github.com/gosuda/frontdesk/internal/llm"
)

// FAQAgent answers clinic questions. Common answers live in its prompt;
// anything beyond them goes through the knowledge search tool.
type FAQAgent struct {
	loop  *Loop
	model string
	defs  []llm.ToolDefinition
}

func NewFAQAgent(loop *Loop, model string, defs []llm.ToolDefinition) *FAQAgent {
	return &FAQAgent{loop: loop, model: model, defs: defs}
}

func (a *FAQAgent) Domain() domain.Domain { return domain.DomainFAQ }

func (a *FAQAgent) Handle(ctx context.Context, tenant *domain.Tenant, sess *domain.Session, _ *domain.RouteDecision, message string) (*Output, error) {
	system := fmt.Sprintf(faqPrompt, collectedSummary(sess))

	out, err := a.loop.Run(ctx, tenant, sess, a.model, system, message, a.defs)
	if err != nil {
		return nil, fmt.Errorf("agent.FAQAgent.Handle: %w", err)
	}
	return out, nil
}
