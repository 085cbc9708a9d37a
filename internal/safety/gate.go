// Package safety screens conversation traffic at both edges of a turn:
// inbound messages before classification, outbound drafts before delivery.
package safety

import (
	"context"

	"github.com/google/uuid"
)

// PreResult is the inbound screening verdict. CrisisFlag forces crisis
// handling regardless of what the router would have decided.
type PreResult struct {
	Sanitized  string
	CrisisFlag bool
	Blocked    bool
	Reason     string
}

// PostResult is the outbound screening verdict. When Blocked is set,
// FinalReply is the replacement text to deliver instead of the draft.
type PostResult struct {
	FinalReply string
	Blocked    bool
}

// Gate screens each turn. Pre runs before classification on the raw user
// message; Post runs on every draft reply, including deterministic ones.
type Gate interface {
	Pre(ctx context.Context, tenantID uuid.UUID, sessionID uuid.UUID, message string) (*PreResult, error)
	Post(ctx context.Context, tenantID uuid.UUID, draft string) (*PostResult, error)
}

// BlockedMessageReply is delivered when the inbound gate blocks a message.
const BlockedMessageReply = "I'm sorry, but I can't help with that. Is there something about the clinic or your appointments I can help you with?"

// NoopGate passes everything through unchanged. Selected by config when no
// screening service is deployed.
type NoopGate struct{}

func (NoopGate) Pre(_ context.Context, _ uuid.UUID, _ uuid.UUID, message string) (*PreResult, error) {
	return &PreResult{Sanitized: message}, nil
}

func (NoopGate) Post(_ context.Context, _ uuid.UUID, draft string) (*PostResult, error) {
	return &PostResult{FinalReply: draft}, nil
}
