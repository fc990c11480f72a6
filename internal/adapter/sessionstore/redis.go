package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/terminology-bot/internal/domain"
	"github.com/heartmarshall/terminology-bot/internal/service/conversation"
)

const (
	keyPrefix  = "terminology-bot:session:"
	defaultTTL = 7 * 24 * time.Hour
)

// Redis stores sessions as JSON values with a sliding TTL.
// Update uses WATCH/MULTI/EXEC for optimistic locking.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store. A non-positive ttl uses the default.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

// Get implements Store. Every read refreshes the TTL.
func (r *Redis) Get(ctx context.Context, senderID string) (*conversation.Session, error) {
	key := r.key(senderID)

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("get session", err)
	}

	var s conversation.Session
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", senderID, err)
	}

	// A failed refresh only shortens the session lifetime.
	_ = r.client.Expire(ctx, key, r.ttl).Err()

	return &s, nil
}

// Create implements Store.
func (r *Redis) Create(ctx context.Context, s *conversation.Session) error {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	s.Version = 1

	val, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.SenderID, err)
	}

	ok, err := r.client.SetNX(ctx, r.key(s.SenderID), val, r.ttl).Result()
	if err != nil {
		return unavailable("create session", err)
	}
	if !ok {
		return fmt.Errorf("session %s: %w", s.SenderID, domain.ErrAlreadyExists)
	}
	return nil
}

// Update implements Store.
func (r *Redis) Update(ctx context.Context, s *conversation.Session) error {
	key := r.key(s.SenderID)

	next := s.Clone()
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("session %s: %w", s.SenderID, domain.ErrNotFound)
		}
		if err != nil {
			return unavailable("get session", err)
		}

		var stored conversation.Session
		if err := json.Unmarshal(val, &stored); err != nil {
			return fmt.Errorf("decode session %s: %w", s.SenderID, err)
		}
		if stored.Version != s.Version {
			return fmt.Errorf("session %s version %d: %w", s.SenderID, s.Version, domain.ErrConflict)
		}

		next.Version = s.Version + 1
		next.UpdatedAt = time.Now()

		newVal, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode session %s: %w", s.SenderID, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newVal, r.ttl)
			return nil
		})
		return err
	}, key)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("session %s: %w", s.SenderID, domain.ErrConflict)
	case err != nil:
		if isRedisFailure(err) {
			return unavailable("update session", err)
		}
		return err
	}

	s.Version = next.Version
	s.UpdatedAt = next.UpdatedAt
	return nil
}

// Delete implements Store.
func (r *Redis) Delete(ctx context.Context, senderID string) error {
	if err := r.client.Del(ctx, r.key(senderID)).Err(); err != nil {
		return unavailable("delete session", err)
	}
	return nil
}

// Ping implements Store.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Close implements Store.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) key(senderID string) string {
	return keyPrefix + senderID
}

// unavailable marks a Redis failure as a retryable storage outage.
// Context cancellation passes through unchanged.
func unavailable(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}

// isRedisFailure reports errors that did not originate in this package.
func isRedisFailure(err error) bool {
	return !errors.Is(err, domain.ErrNotFound) &&
		!errors.Is(err, domain.ErrConflict) &&
		!errors.Is(err, domain.ErrStorageUnavailable) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}
