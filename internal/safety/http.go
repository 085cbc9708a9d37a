package safety

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HTTPGate screens through an external moderation service. Fail-closed on
// the inbound edge would strand benign users on a flaky screener, so a
// screener failure is returned to the caller, which decides the policy.
type HTTPGate struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGate(baseURL string, timeout time.Duration) *HTTPGate {
	return &HTTPGate{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type preRequest struct {
	TenantID  string `json:"tenant_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type preResponse struct {
	Sanitized  string `json:"sanitized"`
	CrisisFlag bool   `json:"crisis_flag"`
	Blocked    bool   `json:"blocked"`
	Reason     string `json:"reason"`
}

func (g *HTTPGate) Pre(ctx context.Context, tenantID, sessionID uuid.UUID, message string) (*PreResult, error) {
	var resp preResponse
	err := g.post(ctx, "/v1/screen/inbound", preRequest{
		TenantID:  tenantID.String(),
		SessionID: sessionID.String(),
		Message:   message,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("safety.HTTPGate.Pre: %w", err)
	}

	sanitized := resp.Sanitized
	if sanitized == "" && !resp.Blocked {
		sanitized = message
	}

	return &PreResult{
		Sanitized:  sanitized,
		CrisisFlag: resp.CrisisFlag,
		Blocked:    resp.Blocked,
		Reason:     resp.Reason,
	}, nil
}

type postRequest struct {
	TenantID string `json:"tenant_id"`
	Draft    string `json:"draft"`
}

type postResponse struct {
	FinalReply string `json:"final_reply"`
	Blocked    bool   `json:"blocked"`
}

func (g *HTTPGate) Post(ctx context.Context, tenantID uuid.UUID, draft string) (*PostResult, error) {
	var resp postResponse
	err := g.post(ctx, "/v1/screen/outbound", postRequest{
		TenantID: tenantID.String(),
		Draft:    draft,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("safety.HTTPGate.Post: %w", err)
	}

	final := resp.FinalReply
	if final == "" && !resp.Blocked {
		final = draft
	}

	return &PostResult{FinalReply: final, Blocked: resp.Blocked}, nil
}

func (g *HTTPGate) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("POST %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("POST %s: decode response: %w", path, err)
	}
	return nil
}
