package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Publisher is the event transport. Satisfied by PubSub.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// HandoffEvent tells staff tooling that a patient asked for a human. The
// summary comes from the session's condensed context so the staff member
// picks up mid-conversation.
type HandoffEvent struct {
	TenantID    uuid.UUID `json:"tenant_id"`
	SessionID   uuid.UUID `json:"session_id"`
	Summary     string    `json:"summary,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// Notifier publishes conversation events.
type Notifier struct {
	publisher Publisher
}

func New(publisher Publisher) *Notifier {
	return &Notifier{publisher: publisher}
}

// HandoffRequested publishes the event on the tenant's handoff channel.
func (n *Notifier) HandoffRequested(ctx context.Context, event HandoffEvent) error {
	if event.RequestedAt.IsZero() {
		event.RequestedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("notify.Notifier.HandoffRequested: marshal: %w", err)
	}

	channel := HandoffChannel(event.TenantID)
	if err := n.publisher.Publish(ctx, channel, payload); err != nil {
		return fmt.Errorf("notify.Notifier.HandoffRequested: %w", err)
	}

	log.Info().
		Str("tenant_id", event.TenantID.String()).
		Str("session_id", event.SessionID.String()).
		Str("channel", channel).
		Msg("handoff event published")

	return nil
}
