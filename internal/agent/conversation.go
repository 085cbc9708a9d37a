package agent

import (
	"context"
	"fmt"

	"github.com/gosuda/frontdesk/internal/domain"
	"github.com/gosuda/frontdesk/internal/llm"
)

// ConversationAgent covers the social domains (greeting, goodbye, out of
// scope) and any turn that could not be classified. No tools; one
// generation per turn.
type ConversationAgent struct {
	client llm.Client
	model  string
}

func NewConversationAgent(client llm.Client, model string) *ConversationAgent {
	return &ConversationAgent{client: client, model: model}
}

func (a *ConversationAgent) Domain() domain.Domain { return domain.DomainGreeting }

// Handles reports the domains this agent serves beyond its primary one.
func (a *ConversationAgent) Handles() []domain.Domain {
	return []domain.Domain{domain.DomainGreeting, domain.DomainGoodbye, domain.DomainOutOfScope}
}

func (a *ConversationAgent) Handle(ctx context.Context, _ *domain.Tenant, sess *domain.Session, decision *domain.RouteDecision, message string) (*Output, error) {
	messageType := "conversation"
	if decision != nil && decision.Domain.Valid() {
		messageType = string(decision.Domain)
	}
	system := fmt.Sprintf(conversationPrompt, messageType, collectedSummary(sess))

	messages := make([]domain.Unit, 0, len(sess.FullHistory)+1)
	messages = append(messages, sess.FullHistory...)
	messages = append(messages, domain.Unit{Role: domain.RoleUser, Text: message})

	resp, err := a.client.Generate(ctx, llm.Request{
		Model:     a.model,
		System:    system,
		Messages:  messages,
		MaxTokens: loopMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("agent.ConversationAgent.Handle: %w", err)
	}

	text := resp.Text
	if text == "" {
		text = FallbackReply
	}

	return &Output{
		Reply: text,
		Units: []domain.Unit{{Role: domain.RoleAssistant, Text: text}},
	}, nil
}
