// Package sessionstore persists conversation sessions with optimistic
// locking. Two drivers exist: an in-process map and Redis.
package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/terminology-bot/internal/service/conversation"
)

// Store persists sessions keyed by sender id.
type Store interface {
	// Get returns nil (not an error) when the session does not exist.
	Get(ctx context.Context, senderID string) (*conversation.Session, error)

	// Create stores a new session with Version 1.
	// Returns domain.ErrAlreadyExists if one is stored for the sender.
	Create(ctx context.Context, s *conversation.Session) error

	// Update stores s if its Version matches the stored one, then
	// increments s.Version. Returns domain.ErrConflict on a version
	// mismatch and domain.ErrNotFound if the session is gone.
	Update(ctx context.Context, s *conversation.Session) error

	Delete(ctx context.Context, senderID string) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Driver names accepted by New.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

var (
	ErrInvalidDriver = errors.New("sessionstore: unknown driver")
	ErrInvalidConfig = errors.New("sessionstore: invalid configuration")
)

// Option configures New.
type Option func(*options)

type options struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// WithRedisClient sets the client used by the Redis driver.
func WithRedisClient(client *redis.Client) Option {
	return func(o *options) { o.redisClient = client }
}

// WithTTL sets how long an idle session is kept. Only the Redis driver
// expires sessions.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// New creates a Store for the given driver.
func New(driver string, opts ...Option) (Store, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		if o.redisClient == nil {
			return nil, fmt.Errorf("%w: redis client required", ErrInvalidConfig)
		}
		return NewRedis(o.redisClient, o.ttl), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDriver, driver)
	}
}
