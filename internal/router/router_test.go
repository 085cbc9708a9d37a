package router_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/frontdesk/internal/domain"
	"github.com/gosuda/frontdesk/internal/llm"
	"github.com/gosuda/frontdesk/internal/router"
)

type stubClient struct {
	requests  []llm.Request
	responses []*llm.Response
	errs      []error
}

func (c *stubClient) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	i := len(c.requests)
	c.requests = append(c.requests, req)

	var err error
	if i < len(c.errs) {
		err = c.errs[i]
	}
	if err != nil {
		return nil, err
	}
	return c.responses[i], nil
}

func routed(input string) *llm.Response {
	return &llm.Response{ToolCalls: []domain.ToolCall{
		{CallID: "call-1", Name: "route_message", Input: json.RawMessage(input)},
	}}
}

func TestRouter_Classify(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("confident primary decision", func(t *testing.T) {
		t.Parallel()

		client := &stubClient{responses: []*llm.Response{
			routed(`{"domain":"scheduling","confidence":0.94,"sub_intent":"book","entities":{"provider_name":"Smith","date":"2026-09-02"},"urgency":"low"}`),
		}}
		r := router.New(client, "fast-model", "strong-model", 0.7)

		decision, err := r.Classify(ctx, nil, "I need to see Dr. Smith on Wednesday", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.DomainScheduling, decision.Domain)
		assert.Equal(t, domain.SubIntentBook, decision.SubIntent)
		assert.InDelta(t, 0.94, decision.Confidence, 1e-9)
		require.NotNil(t, decision.Entities.ProviderName)
		assert.Equal(t, "Smith", *decision.Entities.ProviderName)

		require.Len(t, client.requests, 1, "confident primary must not trigger the fallback model")
		req := client.requests[0]
		assert.Equal(t, "fast-model", req.Model)
		assert.Equal(t, "route_message", req.ForceTool)
		require.Len(t, req.Tools, 1)
		assert.Equal(t, "route_message", req.Tools[0].Name)
	})

	t.Run("low confidence retries on fallback model", func(t *testing.T) {
		t.Parallel()

		client := &stubClient{responses: []*llm.Response{
			routed(`{"domain":"faq","confidence":0.4,"sub_intent":"question"}`),
			routed(`{"domain":"scheduling","confidence":0.85,"sub_intent":"cancel"}`),
		}}
		r := router.New(client, "fast-model", "strong-model", 0.7)

		decision, err := r.Classify(ctx, nil, "actually cancel that", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.DomainScheduling, decision.Domain)
		assert.Equal(t, domain.SubIntentCancel, decision.SubIntent)

		require.Len(t, client.requests, 2)
		assert.Equal(t, "strong-model", client.requests[1].Model)
	})

	t.Run("both attempts low confidence yields unknown", func(t *testing.T) {
		t.Parallel()

		client := &stubClient{responses: []*llm.Response{
			routed(`{"domain":"faq","confidence":0.3,"sub_intent":"question"}`),
			routed(`{"domain":"faq","confidence":0.5,"sub_intent":"question","entities":{"faq_topic":"insurance"}}`),
		}}
		r := router.New(client, "fast-model", "strong-model", 0.7)

		decision, err := r.Classify(ctx, nil, "hmm what about the thing", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.DomainUnknown, decision.Domain)
		require.NotNil(t, decision.Entities.Topic, "entities survive the unknown downgrade")
		assert.Equal(t, "insurance", *decision.Entities.Topic)
	})

	t.Run("per-tenant threshold overrides default", func(t *testing.T) {
		t.Parallel()

		client := &stubClient{responses: []*llm.Response{
			routed(`{"domain":"faq","confidence":0.75,"sub_intent":"question"}`),
			routed(`{"domain":"faq","confidence":0.75,"sub_intent":"question"}`),
		}}
		r := router.New(client, "fast-model", "strong-model", 0.7)

		decision, err := r.Classify(ctx, nil, "do you take Aetna?", 0.9)
		require.NoError(t, err)
		assert.Equal(t, domain.DomainUnknown, decision.Domain)
		require.Len(t, client.requests, 2)
	})

	t.Run("primary failure falls back", func(t *testing.T) {
		t.Parallel()

		client := &stubClient{
			errs: []error{domain.ErrGenerationUnavailable, nil},
			responses: []*llm.Response{
				nil,
				routed(`{"domain":"handoff","confidence":0.9,"sub_intent":"question"}`),
			},
		}
		r := router.New(client, "fast-model", "strong-model", 0.7)

		decision, err := r.Classify(ctx, nil, "let me talk to a person", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.DomainHandoff, decision.Domain)
	})

	t.Run("both attempts fail is an error", func(t *testing.T) {
		t.Parallel()

		client := &stubClient{errs: []error{domain.ErrGenerationUnavailable, domain.ErrGenerationUnavailable}}
		r := router.New(client, "fast-model", "strong-model", 0.7)

		_, err := r.Classify(ctx, nil, "hello", 0)
		require.ErrorIs(t, err, domain.ErrGenerationUnavailable)
	})

	t.Run("failed retry keeps low-confidence primary", func(t *testing.T) {
		t.Parallel()

		client := &stubClient{
			errs: []error{nil, domain.ErrGenerationUnavailable},
			responses: []*llm.Response{
				routed(`{"domain":"greeting","confidence":0.6,"sub_intent":"question"}`),
			},
		}
		r := router.New(client, "fast-model", "strong-model", 0.7)

		decision, err := r.Classify(ctx, nil, "hi there", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.DomainUnknown, decision.Domain, "still below threshold after failed retry")
	})

	t.Run("invalid domain degrades to unknown", func(t *testing.T) {
		t.Parallel()

		client := &stubClient{responses: []*llm.Response{
			routed(`{"domain":"billing","confidence":0.95,"sub_intent":"question"}`),
			routed(`{"domain":"billing","confidence":0.95,"sub_intent":"question"}`),
		}}
		r := router.New(client, "fast-model", "strong-model", 0.7)

		decision, err := r.Classify(ctx, nil, "??", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.DomainUnknown, decision.Domain)
	})

	t.Run("sub intent outside domain resets to question", func(t *testing.T) {
		t.Parallel()

		client := &stubClient{responses: []*llm.Response{
			routed(`{"domain":"faq","confidence":0.9,"sub_intent":"book"}`),
		}}
		r := router.New(client, "fast-model", "strong-model", 0.7)

		decision, err := r.Classify(ctx, nil, "what are your hours", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.DomainFAQ, decision.Domain)
		assert.Equal(t, domain.SubIntentQuestion, decision.SubIntent)
	})

	t.Run("malformed entities dropped, decision kept", func(t *testing.T) {
		t.Parallel()

		client := &stubClient{responses: []*llm.Response{
			routed(`{"domain":"scheduling","confidence":0.88,"sub_intent":"book","entities":{"not_a_known_key":"x"}}`),
		}}
		r := router.New(client, "fast-model", "strong-model", 0.7)

		decision, err := r.Classify(ctx, nil, "book me in", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.DomainScheduling, decision.Domain)
		assert.True(t, decision.Entities.Empty())
	})

	t.Run("session context reaches the prompt", func(t *testing.T) {
		t.Parallel()

		client := &stubClient{responses: []*llm.Response{
			routed(`{"domain":"scheduling","confidence":0.9,"sub_intent":"provide_info"}`),
		}}
		r := router.New(client, "fast-model", "strong-model", 0.7)

		name := "John Carter"
		sess := &domain.Session{
			ActiveDomain: domain.DomainScheduling,
			CollectedData: domain.EntitySet{
				ContactEntities: domain.ContactEntities{PatientName: &name},
			},
			CondensedHistory: []domain.CondensedTurn{
				{Role: domain.RoleUser, Text: "I want an appointment"},
				{Role: domain.RoleAssistant, Text: "What time works for you?"},
			},
		}

		_, err := r.Classify(ctx, sess, "3pm", 0)
		require.NoError(t, err)

		prompt := client.requests[0].System
		assert.Contains(t, prompt, "Active domain: scheduling")
		assert.Contains(t, prompt, "Receptionist: What time works for you?")
		assert.Contains(t, prompt, "John Carter")
	})
}
