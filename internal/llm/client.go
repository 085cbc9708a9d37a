// Package llm defines the generation provider boundary. The provider is
// opaque and stateless across calls: all context is passed explicitly on
// every request, and the response is either final text or a batch of tool
// invocations for the caller's loop to resolve.
package llm

import (
	"context"
	"encoding/json"

	"github.com/gosuda/frontdesk/internal/domain"
)

// ToolDefinition describes one capability offered to a generation call.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// Request is one generation call. Messages carry the full replayed history
// including prior tool calls and results.
type Request struct {
	Model     string
	System    string
	Messages  []domain.Unit
	Tools     []ToolDefinition
	MaxTokens int

	// ForceTool names a tool the model must invoke (structured output).
	// Used by the router's classification call only.
	ForceTool string
}

// Response is the provider's answer: final text, tool invocations, or both.
// An empty response with no tool calls is treated as provider failure by
// callers.
type Response struct {
	Text      string
	ToolCalls []domain.ToolCall
}

// Client is the generation provider contract.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}
