package sessionstore_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/terminology-bot/internal/adapter/sessionstore"
	"github.com/heartmarshall/terminology-bot/internal/domain"
	"github.com/heartmarshall/terminology-bot/internal/service/conversation"
)

var (
	redisOnce sync.Once
	redisAddr string
	redisErr  error
)

// setupRedis starts one Redis container for the whole test run.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	redisOnce.Do(func() {
		redisAddr, redisErr = startRedis()
	})
	if redisErr != nil {
		t.Fatalf("sessionstore: failed to start redis: %v", redisErr)
	}

	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func startRedis() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	return host + ":" + port.Port(), nil
}

// drivers returns a fresh store per driver.
func drivers(t *testing.T) map[string]sessionstore.Store {
	t.Helper()
	return map[string]sessionstore.Store{
		sessionstore.DriverMemory: sessionstore.NewMemory(),
		sessionstore.DriverRedis:  sessionstore.NewRedis(setupRedis(t), time.Minute),
	}
}

func newSession() *conversation.Session {
	return conversation.NewSession("test:"+uuid.NewString(), "en")
}

func TestStore_CreateGetRoundTrip(t *testing.T) {
	t.Parallel()

	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			s := newSession()
			id := uuid.New()
			s.State = conversation.StateClarifyChoice
			s.CurrentTermID = &id
			s.Listing = []conversation.ListedTerm{{ID: uuid.New(), Name: "juba"}}
			s.Pending = &conversation.Clarification{
				Kind:       domain.RelationSynonym,
				Candidates: []conversation.ListedTerm{{ID: uuid.New(), Name: "light"}, {ID: uuid.New(), Name: "light"}},
			}

			require.NoError(t, store.Create(ctx, s))
			assert.Equal(t, int64(1), s.Version)
			assert.False(t, s.CreatedAt.IsZero())

			got, err := store.Get(ctx, s.SenderID)
			require.NoError(t, err)
			require.NotNil(t, got)

			assert.Equal(t, s.State, got.State)
			assert.Equal(t, s.Locale, got.Locale)
			assert.Equal(t, *s.CurrentTermID, *got.CurrentTermID)
			assert.Equal(t, s.Listing, got.Listing)
			assert.Equal(t, s.Pending, got.Pending)
			assert.Equal(t, int64(1), got.Version)
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()

	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.Get(context.Background(), "test:missing-"+uuid.NewString())
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestStore_CreateTwice(t *testing.T) {
	t.Parallel()

	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newSession()

			require.NoError(t, store.Create(ctx, s))
			err := store.Create(ctx, conversation.NewSession(s.SenderID, "ru"))
			assert.ErrorIs(t, err, domain.ErrAlreadyExists)
		})
	}
}

func TestStore_UpdateIncrementsVersion(t *testing.T) {
	t.Parallel()

	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newSession()
			require.NoError(t, store.Create(ctx, s))

			s.State = conversation.StateNewTerm
			require.NoError(t, store.Update(ctx, s))
			assert.Equal(t, int64(2), s.Version)

			got, err := store.Get(ctx, s.SenderID)
			require.NoError(t, err)
			assert.Equal(t, conversation.StateNewTerm, got.State)
			assert.Equal(t, int64(2), got.Version)
		})
	}
}

func TestStore_UpdateStaleVersionConflicts(t *testing.T) {
	t.Parallel()

	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newSession()
			require.NoError(t, store.Create(ctx, s))

			first, err := store.Get(ctx, s.SenderID)
			require.NoError(t, err)
			second, err := store.Get(ctx, s.SenderID)
			require.NoError(t, err)

			require.NoError(t, store.Update(ctx, first))

			second.State = conversation.StateChooseTerm
			err = store.Update(ctx, second)
			assert.ErrorIs(t, err, domain.ErrConflict)
			assert.Equal(t, int64(1), second.Version, "failed update must not bump the caller's version")
		})
	}
}

func TestStore_UpdateMissing(t *testing.T) {
	t.Parallel()

	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			s := newSession()
			s.Version = 1
			err := store.Update(context.Background(), s)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newSession()
			require.NoError(t, store.Create(ctx, s))

			require.NoError(t, store.Delete(ctx, s.SenderID))
			got, err := store.Get(ctx, s.SenderID)
			require.NoError(t, err)
			assert.Nil(t, got)

			// Deleting again is not an error.
			require.NoError(t, store.Delete(ctx, s.SenderID))
		})
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	t.Parallel()

	store := sessionstore.NewMemory()
	ctx := context.Background()
	s := newSession()
	require.NoError(t, store.Create(ctx, s))

	s.State = conversation.StatePOS

	got, err := store.Get(ctx, s.SenderID)
	require.NoError(t, err)
	assert.Equal(t, conversation.StateStartMenu, got.State)
}

func TestRedis_AppliesTTL(t *testing.T) {
	t.Parallel()

	client := setupRedis(t)
	store := sessionstore.NewRedis(client, 30*time.Second)
	ctx := context.Background()

	s := newSession()
	require.NoError(t, store.Create(ctx, s))

	ttl, err := client.TTL(ctx, "terminology-bot:session:"+s.SenderID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 30*time.Second)
}

func TestRedis_UnreachableIsStorageUnavailable(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	store := sessionstore.NewRedis(client, time.Minute)
	defer store.Close()

	_, err := store.Get(context.Background(), "test:any")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.ErrorIs(t, store.Ping(context.Background()), domain.ErrStorageUnavailable)
}

func TestNew(t *testing.T) {
	t.Parallel()

	store, err := sessionstore.New(sessionstore.DriverMemory)
	require.NoError(t, err)
	assert.IsType(t, &sessionstore.Memory{}, store)

	_, err = sessionstore.New(sessionstore.DriverRedis)
	assert.ErrorIs(t, err, sessionstore.ErrInvalidConfig)

	_, err = sessionstore.New("etcd")
	assert.ErrorIs(t, err, sessionstore.ErrInvalidDriver)
}
