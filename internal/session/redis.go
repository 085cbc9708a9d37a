package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gosuda/frontdesk/internal/domain"
)

const keyPrefix = "frontdesk:session:"

// RedisStore keeps session state in Redis with a TTL matching the session
// expiry. Optimistic concurrency uses WATCH: a Put observes the stored
// version under WATCH and writes transactionally, so a concurrent write to
// the same key fails the transaction instead of being lost.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session.NewRedisStore: ping: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("session.RedisStore.Close: %w", err)
	}
	return nil
}

// Key returns the Redis key for a tenant's session.
func Key(tenantID, sessionID uuid.UUID) string {
	return keyPrefix + tenantID.String() + ":" + sessionID.String()
}

func (s *RedisStore) Get(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.Session, error) {
	data, err := s.client.Get(ctx, Key(tenantID, sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("session.RedisStore.Get(%s): %w", sessionID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("session.RedisStore.Get: %w", err)
	}

	var sess domain.Session
	if err = json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session.RedisStore.Get: unmarshal: %w", err)
	}

	return &sess, nil
}

func (s *RedisStore) Put(ctx context.Context, sess *domain.Session, expectedVersion int64) error {
	key := Key(sess.TenantID, sess.ID)

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if expectedVersion != 0 {
				return domain.ErrVersionConflict
			}
		case err != nil:
			return err
		default:
			var stored domain.Session
			if err = json.Unmarshal(data, &stored); err != nil {
				return fmt.Errorf("unmarshal stored session: %w", err)
			}
			if stored.Version != expectedVersion {
				return domain.ErrVersionConflict
			}
		}

		sess.Version = expectedVersion + 1
		payload, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}

		ttl := time.Until(sess.ExpiresAt)
		if ttl <= 0 {
			return domain.ErrSessionExpired
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, ttl)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txn, key)
	if errors.Is(err, redis.TxFailedErr) {
		// Key changed between WATCH and EXEC.
		err = domain.ErrVersionConflict
	}
	if err != nil {
		// Roll back the in-memory bump so a retry re-reads cleanly.
		sess.Version = expectedVersion
		return fmt.Errorf("session.RedisStore.Put(%s): %w", sess.ID, err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, tenantID, sessionID uuid.UUID) error {
	if err := s.client.Del(ctx, Key(tenantID, sessionID)).Err(); err != nil {
		return fmt.Errorf("session.RedisStore.Delete: %w", err)
	}
	return nil
}

// Client exposes the underlying Redis client for components that share the
// connection, such as the handoff notifier.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}
