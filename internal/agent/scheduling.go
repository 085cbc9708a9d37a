package agent

import (
	"context"
	"fmt"

	"github.com/gosuda/frontdesk/internal/domain"
	"github.com/gosuda/frontdesk/internal/llm"
)

// SchedulingAgent books, cancels, reschedules, and checks appointments
// through the calendar tools. It runs on the strongest configured model;
// multi-turn booking needs the reasoning.
type SchedulingAgent struct {
	loop  *Loop
	model string
	defs  []llm.ToolDefinition
}

func NewSchedulingAgent(loop *Loop, model string, defs []llm.ToolDefinition) *SchedulingAgent {
	return &SchedulingAgent{loop: loop, model: model, defs: defs}
}

func (a *SchedulingAgent) Domain() domain.Domain { return domain.DomainScheduling }

func (a *SchedulingAgent) Handle(ctx context.Context, tenant *domain.Tenant, sess *domain.Session, _ *domain.RouteDecision, message string) (*Output, error) {
	system := fmt.Sprintf(schedulingPrompt, collectedSummary(sess))

	out, err := a.loop.Run(ctx, tenant, sess, a.model, system, message, a.defs)
	if err != nil {
		return nil, fmt.Errorf("agent.SchedulingAgent.Handle: %w", err)
	}
	return out, nil
}
