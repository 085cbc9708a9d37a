package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gosuda/frontdesk/internal/domain"
	"github.com/gosuda/frontdesk/internal/llm"
)

const knowledgeSearchLimit = 3

// KnowledgeProvider exposes the clinic knowledge base as a search tool for
// the FAQ agent.
type KnowledgeProvider struct {
	baseURL string
	client  *http.Client
}

func NewKnowledgeProvider(baseURL string) *KnowledgeProvider {
	return &KnowledgeProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

func (p *KnowledgeProvider) Definitions() []llm.ToolDefinition {
	return []llm.ToolDefinition{
		{
			Name: "search_knowledge",
			Description: "Search the clinic's knowledge base for answers about hours, location, insurance, " +
				"services, parking, policies, and costs. Use this when the patient asks a question the " +
				"conversation so far does not answer. Returns the most relevant articles.",
			InputSchema: json.RawMessage(`{
  "type": "object",
  "properties": {
    "query": {"type": "string", "description": "The patient's question, rephrased as a search query."},
    "topic": {"type": "string", "description": "Optional topic hint (e.g., 'hours', 'insurance')."}
  },
  "required": ["query"]
}`),
		},
	}
}

type knowledgeSearchRequest struct {
	Query string `json:"query"`
	Topic string `json:"topic,omitempty"`
	Limit int    `json:"limit"`
}

type knowledgeSearchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

func (p *KnowledgeProvider) Execute(ctx context.Context, tenantID uuid.UUID, call domain.ToolCall) (json.RawMessage, error) {
	if call.Name != "search_knowledge" {
		return nil, fmt.Errorf("tools.KnowledgeProvider.Execute(%s): %w", call.Name, domain.ErrUnknownTool)
	}

	var args struct {
		Query string `json:"query"`
		Topic string `json:"topic"`
	}
	decodeArgs(call.Input, &args)
	if args.Query == "" {
		return rejection("missing_query", "query is required to search the knowledge base")
	}

	payload, err := json.Marshal(knowledgeSearchRequest{
		Query: args.Query,
		Topic: args.Topic,
		Limit: knowledgeSearchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("tools.KnowledgeProvider.Execute: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("tools.KnowledgeProvider.Execute: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", tenantID.String())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tools.KnowledgeProvider.Execute: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("tools.KnowledgeProvider.Execute: unexpected status %d", resp.StatusCode)
	}

	var searchResp knowledgeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("tools.KnowledgeProvider.Execute: decode response: %w", err)
	}

	if len(searchResp.Results) == 0 {
		return json.Marshal(map[string]any{
			"results": []any{},
			"count":   0,
			"message": "No matching articles found. Answer from the conversation context or offer to connect the patient with staff.",
		})
	}

	return json.Marshal(map[string]any{
		"results": searchResp.Results,
		"count":   len(searchResp.Results),
	})
}
