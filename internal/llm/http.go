package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/frontdesk/internal/domain"
)

// HTTPClient talks to a messages-style completion API over HTTP. Every call
// carries a bounded timeout; network failure, timeout, and non-2xx responses
// all surface as domain.ErrGenerationUnavailable.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type wireMessage struct {
	Role    string      `json:"role"`
	Content []wireBlock `json:"content"`
}

type wireBlock struct {
	Type string `json:"type"`

	// type == "text"
	Text string `json:"text,omitempty"`

	// type == "tool_use"
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// type == "tool_result"
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
}

type wireRequest struct {
	Model      string           `json:"model"`
	System     string           `json:"system,omitempty"`
	Messages   []wireMessage    `json:"messages"`
	Tools      []ToolDefinition `json:"tools,omitempty"`
	ToolChoice *wireToolChoice  `json:"tool_choice,omitempty"`
	MaxTokens  int              `json:"max_tokens"`
}

type wireToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type wireResponse struct {
	Content    []wireBlock `json:"content"`
	StopReason string      `json:"stop_reason"`
}

func (c *HTTPClient) Generate(ctx context.Context, req Request) (*Response, error) {
	payload := wireRequest{
		Model:     req.Model,
		System:    req.System,
		Messages:  encodeUnits(req.Messages),
		Tools:     req.Tools,
		MaxTokens: req.MaxTokens,
	}
	if payload.MaxTokens == 0 {
		payload.MaxTokens = 1024
	}
	if req.ForceTool != "" {
		payload.ToolChoice = &wireToolChoice{Type: "tool", Name: req.ForceTool}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("llm.HTTPClient.Generate: marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("llm.HTTPClient.Generate: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm.HTTPClient.Generate: %w: %w", domain.ErrGenerationUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().Int("status", resp.StatusCode).Str("model", req.Model).Msg("generation call failed")
		return nil, fmt.Errorf("llm.HTTPClient.Generate: status %d: %w", resp.StatusCode, domain.ErrGenerationUnavailable)
	}

	var wire wireResponse
	if err = json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("llm.HTTPClient.Generate: decode: %w: %w", domain.ErrGenerationUnavailable, err)
	}

	return decodeResponse(wire), nil
}

func encodeUnits(units []domain.Unit) []wireMessage {
	msgs := make([]wireMessage, 0, len(units))
	for _, u := range units {
		switch u.Role {
		case domain.RoleUser:
			msgs = append(msgs, wireMessage{
				Role:    "user",
				Content: []wireBlock{{Type: "text", Text: u.Text}},
			})

		case domain.RoleAssistant:
			var blocks []wireBlock
			if u.Text != "" {
				blocks = append(blocks, wireBlock{Type: "text", Text: u.Text})
			}
			for _, call := range u.ToolCalls {
				blocks = append(blocks, wireBlock{Type: "tool_use", ID: call.CallID, Name: call.Name, Input: call.Input})
			}
			msgs = append(msgs, wireMessage{Role: "assistant", Content: blocks})

		case domain.RoleTool:
			// Tool results travel as user-role tool_result blocks on the wire.
			blocks := make([]wireBlock, 0, len(u.ToolResults))
			for _, res := range u.ToolResults {
				blocks = append(blocks, wireBlock{
					Type:      "tool_result",
					ToolUseID: res.CallID,
					Content:   res.Content,
					IsError:   res.IsError,
				})
			}
			msgs = append(msgs, wireMessage{Role: "user", Content: blocks})
		}
	}

	return msgs
}

func decodeResponse(wire wireResponse) *Response {
	out := &Response{}
	for _, block := range wire.Content {
		switch block.Type {
		case "text":
			if out.Text == "" {
				out.Text = block.Text
			}
		case "tool_use":
			out.ToolCalls = append(out.ToolCalls, domain.ToolCall{
				CallID: block.ID,
				Name:   block.Name,
				Input:  block.Input,
			})
		}
	}

	return out
}
