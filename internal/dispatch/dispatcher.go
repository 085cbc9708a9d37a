// Package dispatch runs the turn pipeline: safety in, classify, dispatch
// to the domain agent, safety out, persist, audit. It owns domain-switch
// bookkeeping and the degraded-turn policy; agents only ever see the turn
// they are handling.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/frontdesk/internal/agent"
	"github.com/gosuda/frontdesk/internal/audit"
	"github.com/gosuda/frontdesk/internal/domain"
	"github.com/gosuda/frontdesk/internal/notify"
	"github.com/gosuda/frontdesk/internal/safety"
	"github.com/gosuda/frontdesk/internal/session"
)

// Classifier is the router contract.
type Classifier interface {
	Classify(ctx context.Context, sess *domain.Session, message string, threshold float64) (*domain.RouteDecision, error)
}

// HandoffPublisher is the notifier contract.
type HandoffPublisher interface {
	HandoffRequested(ctx context.Context, event notify.HandoffEvent) error
}

// Result is one processed turn, ready for the transport layer.
type Result struct {
	Reply         string
	SessionID     uuid.UUID
	Domain        string
	SubIntent     string
	Confidence    float64
	BookingID     string
	CollectedData *domain.EntitySet
	Elapsed       time.Duration
}

// Dispatcher orchestrates one turn end to end.
type Dispatcher struct {
	sessions *session.Manager
	router   Classifier
	registry *agent.Registry
	gate     safety.Gate
	auditor  *audit.Logger
	notifier HandoffPublisher
}

func New(sessions *session.Manager, router Classifier, registry *agent.Registry, gate safety.Gate, auditor *audit.Logger, notifier HandoffPublisher) *Dispatcher {
	return &Dispatcher{
		sessions: sessions,
		router:   router,
		registry: registry,
		gate:     gate,
		auditor:  auditor,
		notifier: notifier,
	}
}

// Process handles one inbound message. Degraded turns (provider down,
// loop cap, safety block) come back as normal results with fallback text;
// only busy sessions, audit failures, and store failures are errors.
func (d *Dispatcher) Process(ctx context.Context, tenant *domain.Tenant, sessionID uuid.UUID, message string) (*Result, error) {
	started := time.Now()

	sess, err := d.sessions.GetOrCreate(ctx, tenant.ID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("dispatch.Dispatcher.Process: %w", err)
	}

	if err := d.sessions.Acquire(sess.ID); err != nil {
		return nil, fmt.Errorf("dispatch.Dispatcher.Process: %w", err)
	}
	defer d.sessions.Release(sess.ID)

	// Inbound safety. A screener outage must not take the assistant down
	// with it; the turn proceeds on the raw message.
	clean := message
	crisisFlagged := false
	pre, err := d.gate.Pre(ctx, tenant.ID, sess.ID, message)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("session_id", sess.ID.String()).Msg("inbound safety gate failed, continuing unscreened")
	case pre.Blocked && !pre.CrisisFlag:
		return d.finishBlocked(ctx, tenant, sess, message, pre, started)
	default:
		clean = pre.Sanitized
		crisisFlagged = pre.CrisisFlag
	}

	// Classification. Crisis flagged at the gate skips the router: nothing
	// the router says can override it.
	var decision *domain.RouteDecision
	if crisisFlagged {
		decision = &domain.RouteDecision{
			Domain:     domain.DomainCrisis,
			SubIntent:  domain.SubIntentQuestion,
			Confidence: 1.0,
			Urgency:    domain.UrgencyHigh,
		}
		if _, err := d.auditor.Append(ctx, tenant.ID, sess.ID, domain.AuditSafetyTrigger, map[string]any{
			"crisis_flag": true,
			"reason":      pre.Reason,
		}); err != nil {
			return nil, fmt.Errorf("dispatch.Dispatcher.Process: %w: %w", domain.ErrAuditAppend, err)
		}
	} else {
		decision, err = d.router.Classify(ctx, sess, clean, tenant.Policy.ConfidenceThreshold)
		if err != nil {
			log.Warn().Err(err).Str("session_id", sess.ID.String()).Msg("classification unavailable, falling back to conversation")
			decision = &domain.RouteDecision{
				Domain:    domain.DomainUnknown,
				SubIntent: domain.SubIntentQuestion,
				Urgency:   domain.UrgencyLow,
			}
		}
	}

	if _, err := d.auditor.Append(ctx, tenant.ID, sess.ID, domain.AuditRoute, map[string]any{
		"domain":     string(decision.Domain),
		"sub_intent": string(decision.SubIntent),
		"confidence": decision.Confidence,
		"urgency":    string(decision.Urgency),
	}); err != nil {
		return nil, fmt.Errorf("dispatch.Dispatcher.Process: %w: %w", domain.ErrAuditAppend, err)
	}

	out, err := d.dispatch(ctx, tenant, sess, decision, clean)
	if err != nil {
		return nil, err
	}

	// Outbound safety runs on every draft, deterministic ones included.
	reply := out.Reply
	post, err := d.gate.Post(ctx, tenant.ID, reply)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("session_id", sess.ID.String()).Msg("outbound safety gate failed, delivering unscreened")
	case post.Blocked:
		if _, auditErr := d.auditor.Append(ctx, tenant.ID, sess.ID, domain.AuditSafetyTrigger, map[string]any{
			"edge": "outbound",
		}); auditErr != nil {
			return nil, fmt.Errorf("dispatch.Dispatcher.Process: %w: %w", domain.ErrAuditAppend, auditErr)
		}
		reply = post.FinalReply
		if reply == "" {
			reply = safety.BlockedMessageReply
		}
	default:
		reply = post.FinalReply
	}
	// History records what was actually delivered.
	if n := len(out.Units); n > 0 && out.Units[n-1].Role == domain.RoleAssistant && out.Units[n-1].Text != reply {
		out.Units[n-1].Text = reply
	}

	if err := d.persistTurn(ctx, tenant, sess, decision, out, clean, reply); err != nil {
		return nil, err
	}

	if out.HandoffRequested {
		if err := d.recordHandoff(ctx, tenant, sess); err != nil {
			return nil, err
		}
	}

	collected := sess.CollectedData
	return &Result{
		Reply:         reply,
		SessionID:     sess.ID,
		Domain:        string(decision.Domain),
		SubIntent:     string(decision.SubIntent),
		Confidence:    decision.Confidence,
		BookingID:     sess.BookingID,
		CollectedData: &collected,
		Elapsed:       time.Since(started),
	}, nil
}

// dispatch applies domain-switch bookkeeping and runs the handler. A
// handler hitting a provider outage degrades to the fallback reply; the
// turn still persists and audits normally.
func (d *Dispatcher) dispatch(ctx context.Context, tenant *domain.Tenant, sess *domain.Session, decision *domain.RouteDecision, message string) (*agent.Output, error) {
	// Every classified domain moves the switch; only unclassified turns
	// leave it where it was, so "let's continue" can find its way back.
	if decision.Domain.Valid() && decision.Domain != sess.ActiveDomain {
		sess.PreviousDomain = sess.ActiveDomain
		sess.ActiveDomain = decision.Domain
	}

	d.sessions.MergeEntities(sess, decision.Entities)

	if decision.Domain == domain.DomainCrisis {
		if _, err := d.auditor.Append(ctx, tenant.ID, sess.ID, domain.AuditCrisis, map[string]any{
			"urgency": string(decision.Urgency),
		}); err != nil {
			return nil, fmt.Errorf("dispatch.Dispatcher.dispatch: %w: %w", domain.ErrAuditAppend, err)
		}
	}

	handler, err := d.registry.Resolve(decision.Domain)
	if err != nil {
		log.Error().Str("domain", string(decision.Domain)).Msg("no handler registered for domain")
		return fallbackOutput(), nil
	}

	out, err := handler.Handle(ctx, tenant, sess, decision, message)
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, domain.ErrAuditAppend):
		return nil, fmt.Errorf("dispatch.Dispatcher.dispatch: %w", err)
	case errors.Is(err, domain.ErrGenerationUnavailable):
		log.Warn().Err(err).Str("session_id", sess.ID.String()).Msg("generation unavailable, replying with fallback")
		return fallbackOutput(), nil
	default:
		log.Error().Err(err).Str("session_id", sess.ID.String()).Msg("agent failed, replying with fallback")
		return fallbackOutput(), nil
	}
}

// persistTurn appends the turn and saves with one reload-and-retry on a
// version conflict. A second conflict means a concurrent writer owns the
// session.
func (d *Dispatcher) persistTurn(ctx context.Context, tenant *domain.Tenant, sess *domain.Session, decision *domain.RouteDecision, out *agent.Output, message, reply string) error {
	if out.BookingID != "" {
		sess.BookingID = out.BookingID
	}

	if err := d.sessions.AppendTurn(sess, message, out.Units, reply); err != nil {
		return fmt.Errorf("dispatch.Dispatcher.persistTurn: %w", err)
	}

	err := d.sessions.Save(ctx, sess)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrVersionConflict) {
		return fmt.Errorf("dispatch.Dispatcher.persistTurn: %w", err)
	}

	log.Warn().Str("session_id", sess.ID.String()).Msg("session version conflict, retrying once")

	fresh, getErr := d.sessions.Get(ctx, tenant.ID, sess.ID)
	if getErr != nil {
		return fmt.Errorf("dispatch.Dispatcher.persistTurn: reload: %w", getErr)
	}

	// Replay this turn's mutations onto the fresh state.
	if decision.Domain.Valid() && decision.Domain != fresh.ActiveDomain {
		fresh.PreviousDomain = fresh.ActiveDomain
		fresh.ActiveDomain = decision.Domain
	}
	d.sessions.MergeEntities(fresh, decision.Entities)
	if out.BookingID != "" {
		fresh.BookingID = out.BookingID
	}
	if err := d.sessions.AppendTurn(fresh, message, out.Units, reply); err != nil {
		return fmt.Errorf("dispatch.Dispatcher.persistTurn: %w", err)
	}
	if err := d.sessions.Save(ctx, fresh); err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			return fmt.Errorf("dispatch.Dispatcher.persistTurn: %w", domain.ErrSessionBusy)
		}
		return fmt.Errorf("dispatch.Dispatcher.persistTurn: %w", err)
	}
	*sess = *fresh

	return nil
}

// finishBlocked answers a gate-blocked message without classification or
// generation, and still persists and audits the turn.
func (d *Dispatcher) finishBlocked(ctx context.Context, tenant *domain.Tenant, sess *domain.Session, message string, pre *safety.PreResult, started time.Time) (*Result, error) {
	if _, err := d.auditor.Append(ctx, tenant.ID, sess.ID, domain.AuditSafetyTrigger, map[string]any{
		"edge":   "inbound",
		"reason": pre.Reason,
	}); err != nil {
		return nil, fmt.Errorf("dispatch.Dispatcher.finishBlocked: %w: %w", domain.ErrAuditAppend, err)
	}

	reply := safety.BlockedMessageReply
	out := &agent.Output{
		Reply: reply,
		Units: []domain.Unit{{Role: domain.RoleAssistant, Text: reply}},
	}
	decision := &domain.RouteDecision{Domain: domain.DomainUnknown}
	if err := d.persistTurn(ctx, tenant, sess, decision, out, message, reply); err != nil {
		return nil, err
	}

	collected := sess.CollectedData
	return &Result{
		Reply:         reply,
		SessionID:     sess.ID,
		Domain:        "blocked",
		CollectedData: &collected,
		Elapsed:       time.Since(started),
	}, nil
}

func (d *Dispatcher) recordHandoff(ctx context.Context, tenant *domain.Tenant, sess *domain.Session) error {
	if _, err := d.auditor.Append(ctx, tenant.ID, sess.ID, domain.AuditHandoff, map[string]any{
		"active_domain": string(sess.ActiveDomain),
	}); err != nil {
		return fmt.Errorf("dispatch.Dispatcher.recordHandoff: %w: %w", domain.ErrAuditAppend, err)
	}

	event := notify.HandoffEvent{
		TenantID:  tenant.ID,
		SessionID: sess.ID,
		Summary:   handoffSummary(sess),
	}
	if err := d.notifier.HandoffRequested(ctx, event); err != nil {
		// The patient was already told they are being transferred; a lost
		// event is for staff tooling to reconcile from the audit trail.
		log.Error().Err(err).Str("session_id", sess.ID.String()).Msg("handoff event publish failed")
	}

	return nil
}

func handoffSummary(sess *domain.Session) string {
	if len(sess.CondensedHistory) == 0 {
		return ""
	}
	// The last patient line before the handoff request is usually the
	// reason they asked for a human.
	for i := len(sess.CondensedHistory) - 1; i >= 0; i-- {
		if sess.CondensedHistory[i].Role == domain.RoleUser {
			return sess.CondensedHistory[i].Text
		}
	}
	return ""
}

func fallbackOutput() *agent.Output {
	return &agent.Output{
		Reply: agent.FallbackReply,
		Units: []domain.Unit{{Role: domain.RoleAssistant, Text: agent.FallbackReply}},
	}
}
