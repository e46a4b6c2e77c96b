package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/shared"
)

// RedisSlotStore implements SlotStore over Redis. Suitable for distributed
// deployments where several instances serve the same sessions; Watch is
// backed by pub/sub so a write on one instance notifies watchers on all of
// them
type RedisSlotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOptions holds the connection settings for the slot store
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// TTL bounds how long an untouched slot survives. Zero means no expiry
	TTL time.Duration
}

// NewRedisSlotStore connects to Redis and verifies the connection
func NewRedisSlotStore(opts RedisOptions) (*RedisSlotStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSlotStore{client: client, ttl: opts.TTL}, nil
}

// NewRedisSlotStoreWithClient creates a store with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisSlotStoreWithClient(client *redis.Client, ttl time.Duration) *RedisSlotStore {
	return &RedisSlotStore{client: client, ttl: ttl}
}

// Set writes the payload and notifies watchers of the slot
func (s *RedisSlotStore) Set(ctx context.Context, key string, payload []byte) error {
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	// Best effort: a missed notification only delays watchers until the
	// next write
	s.client.Publish(ctx, notifyChannel(key), "1")
	return nil
}

// Get reads the slot payload
func (s *RedisSlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return payload, nil
}

// TakeOnce reads and deletes the slot atomically via GETDEL
func (s *RedisSlotStore) TakeOnce(ctx context.Context, key string) ([]byte, error) {
	payload, err := s.client.GetDel(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to take slot %s: %w", key, err)
	}
	return payload, nil
}

// Delete removes the slot
func (s *RedisSlotStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}

// Watch subscribes to write notifications for the slot
func (s *RedisSlotStore) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	sub := s.client.Subscribe(ctx, notifyChannel(key))

	// Confirm the subscription before handing out the channel
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to watch slot %s: %w", key, err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
					// A pending signal already covers this write
				}
			}
		}
	}()
	return out, nil
}

// Close closes the Redis client
func (s *RedisSlotStore) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (s *RedisSlotStore) GetClient() *redis.Client {
	return s.client
}

func notifyChannel(key string) string {
	return "notify:" + key
}

var _ SlotStore = (*RedisSlotStore)(nil)
