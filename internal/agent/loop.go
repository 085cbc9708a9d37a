package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/frontdesk/internal/audit"
	"github.com/gosuda/frontdesk/internal/domain"
	"github.com/gosuda/frontdesk/internal/llm"
	"github.com/gosuda/frontdesk/internal/tools"
)

// loopState tracks where a tool loop is between generation and execution.
type loopState string

const (
	stateRunning       loopState = "running"
	stateAwaitingTools loopState = "awaiting_tool_result"
	stateDone          loopState = "done"
	stateError         loopState = "error"
)

const loopMaxTokens = 1024

// Loop drives generate-execute rounds for tool-using agents. Every tool
// call and result is audited synchronously before the loop proceeds; a
// failed audit append aborts the turn.
type Loop struct {
	client    llm.Client
	bridge    *tools.Bridge
	auditor   *audit.Logger
	maxRounds int
}

func NewLoop(client llm.Client, bridge *tools.Bridge, auditor *audit.Logger, maxRounds int) *Loop {
	return &Loop{
		client:    client,
		bridge:    bridge,
		auditor:   auditor,
		maxRounds: maxRounds,
	}
}

// Run handles one turn for a tool-using agent. The returned units always
// end with an assistant text unit, and every tool call in them has its
// result; a loop that hits the round cap is closed with the fallback
// reply rather than left dangling. A positive tenant policy cap overrides
// the process-wide one.
func (l *Loop) Run(ctx context.Context, tenant *domain.Tenant, sess *domain.Session, model, system, message string, defs []llm.ToolDefinition) (*Output, error) {
	maxRounds := l.maxRounds
	if tenant.Policy.MaxToolRounds > 0 {
		maxRounds = tenant.Policy.MaxToolRounds
	}

	messages := make([]domain.Unit, 0, len(sess.FullHistory)+1)
	messages = append(messages, sess.FullHistory...)
	messages = append(messages, domain.Unit{Role: domain.RoleUser, Text: message})

	out := &Output{}

	for round := 0; ; round++ {
		l.trace(sess.ID, round, stateRunning)
		resp, err := l.client.Generate(ctx, llm.Request{
			Model:     model,
			System:    system,
			Messages:  messages,
			Tools:     defs,
			MaxTokens: loopMaxTokens,
		})
		if err != nil {
			l.trace(sess.ID, round, stateError)
			return nil, fmt.Errorf("agent.Loop.Run: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			l.trace(sess.ID, round, stateDone)
			text := resp.Text
			if text == "" {
				text = FallbackReply
			}
			out.Reply = text
			out.Units = append(out.Units, domain.Unit{Role: domain.RoleAssistant, Text: text})
			return out, nil
		}

		if round >= maxRounds {
			log.Warn().
				Str("session_id", sess.ID.String()).
				Int("rounds", round).
				Msg("tool loop cap reached, closing turn with fallback")
			out.Reply = FallbackReply
			out.Units = append(out.Units, domain.Unit{Role: domain.RoleAssistant, Text: FallbackReply})
			return out, nil
		}

		l.trace(sess.ID, round, stateAwaitingTools)
		assistantUnit := domain.Unit{Role: domain.RoleAssistant, Text: resp.Text, ToolCalls: resp.ToolCalls}

		results := make([]domain.ToolResult, 0, len(resp.ToolCalls))
		for _, call := range resp.ToolCalls {
			if err := l.auditCall(ctx, tenant.ID, sess.ID, call); err != nil {
				return nil, err
			}

			result := l.bridge.Execute(ctx, tenant.ID, call)
			results = append(results, result)

			if err := l.auditResult(ctx, tenant.ID, sess.ID, result); err != nil {
				return nil, err
			}

			if id := bookingIDFrom(result); id != "" {
				out.BookingID = id
			}
		}

		toolUnit := domain.Unit{Role: domain.RoleTool, ToolResults: results}
		out.Units = append(out.Units, assistantUnit, toolUnit)
		messages = append(messages, assistantUnit, toolUnit)
	}
}

func (l *Loop) trace(sessionID uuid.UUID, round int, state loopState) {
	log.Trace().
		Str("session_id", sessionID.String()).
		Int("round", round).
		Str("state", string(state)).
		Msg("tool loop")
}

func (l *Loop) auditCall(ctx context.Context, tenantID, sessionID uuid.UUID, call domain.ToolCall) error {
	_, err := l.auditor.Append(ctx, tenantID, sessionID, domain.AuditToolCall, map[string]any{
		"call_id": call.CallID,
		"tool":    call.Name,
		"input":   json.RawMessage(call.Input),
	})
	if err != nil {
		return fmt.Errorf("agent.Loop.auditCall: %w: %w", domain.ErrAuditAppend, err)
	}
	return nil
}

func (l *Loop) auditResult(ctx context.Context, tenantID, sessionID uuid.UUID, result domain.ToolResult) error {
	_, err := l.auditor.Append(ctx, tenantID, sessionID, domain.AuditToolResult, map[string]any{
		"call_id":  result.CallID,
		"tool":     result.Name,
		"is_error": result.IsError,
		"content":  json.RawMessage(result.Content),
	})
	if err != nil {
		return fmt.Errorf("agent.Loop.auditResult: %w: %w", domain.ErrAuditAppend, err)
	}
	return nil
}

// bookingIDFrom lifts a booking id out of a successful tool result so the
// session can remember it across turns.
func bookingIDFrom(result domain.ToolResult) string {
	if result.IsError {
		return ""
	}
	var payload struct {
		BookingID string `json:"booking_id"`
	}
	if err := json.Unmarshal(result.Content, &payload); err != nil {
		return ""
	}
	return payload.BookingID
}
