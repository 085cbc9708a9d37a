// Package notify publishes conversation events for staff tooling. Handoff
// requests go out on a per-tenant redis channel; consumers are outside
// this service.
package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PubSub wraps a shared redis client for event fan-out.
type PubSub struct {
	client *redis.Client
}

// NewPubSub wraps an existing client. The caller owns the client's
// lifecycle; the session store and the notifier share one connection pool.
func NewPubSub(client *redis.Client) *PubSub {
	return &PubSub{client: client}
}

func (ps *PubSub) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := ps.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("notify.PubSub.Publish: %w", err)
	}
	return nil
}

// Subscribe streams payloads from a channel until ctx is cancelled. The
// returned cleanup must be called to release the subscription.
func (ps *PubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := ps.client.Subscribe(ctx, channel)

	// Wait for subscription confirmation.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("notify.PubSub.Subscribe: receive confirmation: %w", err)
	}

	out := make(chan []byte, 64)
	redisCh := sub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cleanup := func() {
		_ = sub.Close()
	}

	return out, cleanup, nil
}

// HandoffChannel returns the redis channel carrying a tenant's handoff
// requests.
func HandoffChannel(tenantID uuid.UUID) string {
	return "frontdesk:handoff:" + tenantID.String()
}
