package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of an interaction unit.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is one tool invocation requested by a generation call. CallID
// correlates the call with its result and doubles as the idempotency token
// the bridge hands to the provider.
type ToolCall struct {
	CallID string          `json:"call_id"`
	Name   string          `json:"name"`
	Input  json.RawMessage `json:"input"`
}

// ToolResult carries the outcome of one tool call back into history.
// Exactly one result exists per call; a failed execution still produces a
// result with IsError set so the agent can recover conversationally.
type ToolResult struct {
	CallID  string          `json:"call_id"`
	Name    string          `json:"name"`
	IsError bool            `json:"is_error"`
	Content json.RawMessage `json:"content"`
}

// Unit is one interaction unit in a session's full history: a user message,
// a generation output (text and/or tool calls), or a batch of tool results.
type Unit struct {
	Role        Role         `json:"role"`
	Text        string       `json:"text,omitempty"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

// CondensedTurn is a (role, short text) pair derived from the full history.
// The condensed history is consumed only by the router.
type CondensedTurn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Session carries the full interaction context of one conversation across
// turns and across domain switches. FullHistory is the canonical state: its
// ordering is the true causal order of the conversation.
type Session struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`

	ActiveDomain   Domain `json:"active_domain,omitempty"`
	PreviousDomain Domain `json:"previous_domain,omitempty"`

	// CollectedData accumulates across the entire conversation and is never
	// reset on a domain switch. Keys are only overwritten, never removed.
	CollectedData EntitySet `json:"collected_data"`

	FullHistory      []Unit          `json:"full_history"`
	CondensedHistory []CondensedTurn `json:"condensed_history"`

	BookingID    string `json:"booking_id,omitempty"`
	MessageCount int    `json:"message_count"`

	// Version supports optimistic concurrency on store writes.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is logically deleted.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// ValidateHistory checks the tool-call pairing invariant: every unit that
// carries tool calls must be immediately followed by a tool unit resolving
// exactly those calls, in order, before any further generation output.
func ValidateHistory(units []Unit) error {
	for i, u := range units {
		if len(u.ToolCalls) == 0 {
			continue
		}
		if i+1 >= len(units) {
			return fmt.Errorf("domain.ValidateHistory: unit %d has unresolved tool calls", i)
		}

		next := units[i+1]
		if next.Role != RoleTool || len(next.ToolResults) != len(u.ToolCalls) {
			return fmt.Errorf("domain.ValidateHistory: unit %d not followed by matching tool results", i)
		}
		for j, call := range u.ToolCalls {
			if next.ToolResults[j].CallID != call.CallID {
				return fmt.Errorf("domain.ValidateHistory: unit %d call %q paired with result %q",
					i, call.CallID, next.ToolResults[j].CallID)
			}
		}
	}

	return nil
}

// SessionStore is the durable, keyed session state the whole pipeline leans
// on. Put enforces optimistic concurrency: the write succeeds only when the
// stored version equals expectedVersion (ErrVersionConflict otherwise).
type SessionStore interface {
	Get(ctx context.Context, tenantID, sessionID uuid.UUID) (*Session, error)
	Put(ctx context.Context, session *Session, expectedVersion int64) error
	Delete(ctx context.Context, tenantID, sessionID uuid.UUID) error
}
