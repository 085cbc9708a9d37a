// Package tools executes agent tool calls against backend services. The
// bridge is the only path from a generation's tool_use output to a side
// effect: every execution is bounded by a timeout and every outcome,
// including failure, comes back as a tool result the agent loop can feed
// to the model.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/frontdesk/internal/domain"
	"github.com/gosuda/frontdesk/internal/llm"
)

// Provider executes a family of related tools against one backend. A
// returned error means the execution itself failed (transport, timeout);
// backend-level rejections the model can recover from are encoded in the
// returned payload instead.
type Provider interface {
	Definitions() []llm.ToolDefinition
	Execute(ctx context.Context, tenantID uuid.UUID, call domain.ToolCall) (json.RawMessage, error)
}

// Bridge routes tool calls to registered providers. One bridge instance is
// shared by all agents; which tools an agent may call is fixed by the tool
// definitions the agent is constructed with, not by the bridge.
type Bridge struct {
	providers map[string]Provider
	timeout   time.Duration
}

func NewBridge(timeout time.Duration) *Bridge {
	return &Bridge{
		providers: make(map[string]Provider),
		timeout:   timeout,
	}
}

// Register adds a provider's tools. Duplicate tool names are a wiring bug.
func (b *Bridge) Register(p Provider) error {
	for _, def := range p.Definitions() {
		if _, exists := b.providers[def.Name]; exists {
			return fmt.Errorf("tools.Bridge.Register: duplicate tool %q: %w", def.Name, domain.ErrConflict)
		}
		b.providers[def.Name] = p
	}
	return nil
}

// Execute runs one tool call and always returns a result: failures become
// error results so the turn keeps the one-result-per-call invariant.
func (b *Bridge) Execute(ctx context.Context, tenantID uuid.UUID, call domain.ToolCall) domain.ToolResult {
	provider, ok := b.providers[call.Name]
	if !ok {
		log.Warn().Str("tool", call.Name).Msg("tool call for unregistered tool")
		return errorResult(call, "unknown_tool", fmt.Sprintf("Unknown tool: %s", call.Name))
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	started := time.Now()
	content, err := provider.Execute(ctx, tenantID, call)
	if err != nil {
		log.Error().Err(err).
			Str("tool", call.Name).
			Str("call_id", call.CallID).
			Dur("elapsed", time.Since(started)).
			Msg("tool execution failed")

		if errors.Is(err, context.DeadlineExceeded) {
			return errorResult(call, "timeout", "The request timed out. Try again or simplify the request.")
		}
		return errorResult(call, "execution_failed", "Unable to reach the backing service.")
	}

	return domain.ToolResult{CallID: call.CallID, Name: call.Name, Content: content}
}

func errorResult(call domain.ToolCall, code, message string) domain.ToolResult {
	content, _ := json.Marshal(map[string]string{"error": code, "message": message})
	return domain.ToolResult{
		CallID:  call.CallID,
		Name:    call.Name,
		IsError: true,
		Content: content,
	}
}
