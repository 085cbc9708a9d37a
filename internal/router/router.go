// Package router classifies each inbound message into a domain and
// sub-intent and extracts entities, using a single generation call with a
// forced tool choice. It never calls tools and never produces user-facing
// text.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/frontdesk/internal/domain"
	"github.com/gosuda/frontdesk/internal/llm"
)

const classifyMaxTokens = 500

// Router classifies with a fast primary model and retries once on a
// stronger fallback model when confidence lands below the threshold.
type Router struct {
	client        llm.Client
	model         string
	fallbackModel string
	threshold     float64

	now func() time.Time
}

func New(client llm.Client, model, fallbackModel string, threshold float64) *Router {
	return &Router{
		client:        client,
		model:         model,
		fallbackModel: fallbackModel,
		threshold:     threshold,
		now:           time.Now,
	}
}

// Classify routes one message. threshold overrides the default when
// positive (per-tenant policy). When both models stay below the threshold
// the decision's domain is DomainUnknown and the caller falls back to
// general conversation; entities from the better attempt are still
// returned so collected data is not lost. Errors are provider failures
// only.
func (r *Router) Classify(ctx context.Context, sess *domain.Session, message string, threshold float64) (*domain.RouteDecision, error) {
	if threshold <= 0 {
		threshold = r.threshold
	}
	started := r.now()
	prompt := systemPrompt(started, sessionContext(sess))

	decision, err := r.classifyWith(ctx, r.model, prompt, message)
	if err != nil || decision.Confidence < threshold {
		if err != nil {
			log.Warn().Err(err).Str("model", r.model).Msg("primary classification failed, retrying with fallback model")
		} else {
			log.Info().
				Float64("confidence", decision.Confidence).
				Float64("threshold", threshold).
				Msg("low classification confidence, retrying with fallback model")
		}

		retried, retryErr := r.classifyWith(ctx, r.fallbackModel, prompt, message)
		switch {
		case retryErr == nil:
			decision, err = retried, nil
		case err == nil:
			// Keep the low-confidence primary decision over a failed retry.
			log.Warn().Err(retryErr).Str("model", r.fallbackModel).Msg("fallback classification failed")
		default:
			return nil, fmt.Errorf("router.Router.Classify: %w", retryErr)
		}
	}

	if decision.Confidence < threshold {
		decision.Domain = domain.DomainUnknown
	}

	log.Info().
		Str("domain", string(decision.Domain)).
		Str("sub_intent", string(decision.SubIntent)).
		Float64("confidence", decision.Confidence).
		Dur("elapsed", r.now().Sub(started)).
		Msg("message routed")

	return decision, nil
}

func (r *Router) classifyWith(ctx context.Context, model, prompt, message string) (*domain.RouteDecision, error) {
	resp, err := r.client.Generate(ctx, llm.Request{
		Model:     model,
		System:    prompt,
		Messages:  []domain.Unit{{Role: domain.RoleUser, Text: message}},
		Tools:     []llm.ToolDefinition{routeTool()},
		MaxTokens: classifyMaxTokens,
		ForceTool: "route_message",
	})
	if err != nil {
		return nil, fmt.Errorf("router.Router.classifyWith(%s): %w", model, err)
	}
	if len(resp.ToolCalls) == 0 {
		return nil, fmt.Errorf("router.Router.classifyWith(%s): no classification in response: %w", model, domain.ErrGenerationUnavailable)
	}

	return parseDecision(resp.ToolCalls[0].Input), nil
}

type routeOutput struct {
	Domain     string          `json:"domain"`
	Confidence float64         `json:"confidence"`
	SubIntent  string          `json:"sub_intent"`
	Entities   json.RawMessage `json:"entities"`
	Urgency    string          `json:"urgency"`
}

// parseDecision is lenient: the forced tool schema constrains the output,
// but a malformed field degrades that field rather than failing the turn.
func parseDecision(input json.RawMessage) *domain.RouteDecision {
	var out routeOutput
	if err := json.Unmarshal(input, &out); err != nil {
		log.Warn().Err(err).Msg("unparseable classification output")
		return &domain.RouteDecision{
			Domain:    domain.DomainUnknown,
			SubIntent: domain.SubIntentQuestion,
			Urgency:   domain.UrgencyLow,
		}
	}

	decision := &domain.RouteDecision{
		Domain:     domain.Domain(out.Domain),
		SubIntent:  domain.SubIntent(out.SubIntent),
		Confidence: out.Confidence,
		Urgency:    domain.Urgency(out.Urgency),
	}

	if !decision.Domain.Valid() {
		decision.Domain = domain.DomainUnknown
		decision.Confidence = 0
	}
	if !decision.SubIntent.Valid() || !decision.SubIntent.InDomain(decision.Domain) {
		decision.SubIntent = domain.SubIntentQuestion
	}
	if !decision.Urgency.Valid() {
		decision.Urgency = domain.UrgencyLow
	}

	if len(out.Entities) > 0 {
		entities, err := domain.DecodeEntitySet(out.Entities)
		if err != nil {
			log.Warn().Err(err).Msg("dropping malformed classification entities")
		} else {
			decision.Entities = entities
		}
	}

	return decision
}
