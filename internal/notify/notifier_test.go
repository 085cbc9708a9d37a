package notify_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/frontdesk/internal/notify"
)

type capturingPublisher struct {
	channel string
	payload []byte
	err     error
}

func (p *capturingPublisher) Publish(_ context.Context, channel string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.channel = channel
	p.payload = payload
	return nil
}

func TestNotifier_HandoffRequested(t *testing.T) {
	t.Parallel()

	t.Run("publishes on the tenant channel", func(t *testing.T) {
		t.Parallel()

		pub := &capturingPublisher{}
		notifier := notify.New(pub)

		tenantID := uuid.New()
		sessionID := uuid.New()
		err := notifier.HandoffRequested(context.Background(), notify.HandoffEvent{
			TenantID:  tenantID,
			SessionID: sessionID,
			Summary:   "patient has an insurance question",
		})
		require.NoError(t, err)

		assert.Equal(t, notify.HandoffChannel(tenantID), pub.channel)

		var event notify.HandoffEvent
		require.NoError(t, json.Unmarshal(pub.payload, &event))
		assert.Equal(t, sessionID, event.SessionID)
		assert.Equal(t, "patient has an insurance question", event.Summary)
		assert.False(t, event.RequestedAt.IsZero(), "timestamp is filled in when omitted")
	})

	t.Run("publish failure surfaces", func(t *testing.T) {
		t.Parallel()

		notifier := notify.New(&capturingPublisher{err: assert.AnError})
		err := notifier.HandoffRequested(context.Background(), notify.HandoffEvent{TenantID: uuid.New()})
		require.Error(t, err)
	})
}

func TestHandoffChannel(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	assert.Equal(t, "frontdesk:handoff:"+tenantID.String(), notify.HandoffChannel(tenantID))
}
