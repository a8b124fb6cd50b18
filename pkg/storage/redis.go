package storage

import (
	"context"
	"errors"
	"time"

	backend "github.com/redis/go-redis/v9"

	serrors "github.com/vango-dev/signup/internal/errors"
)

// RedisStore keeps values as Redis strings under a key prefix.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	owned  bool
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL sets the expiration for stored values. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore connects to Redis at address. The store owns the client
// and closes it on Close.
func NewRedisStore(address, password string, db int, opts ...RedisOption) *RedisStore {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	store := NewRedisStoreFromClient(rdb, opts...)
	store.owned = true
	return store
}

// NewRedisStoreFromClient creates a store from an existing client.
// Close leaves the client open.
func NewRedisStoreFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	store := &RedisStore{
		client: client,
		prefix: "signup:",
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return serrors.New("E201").Wrap(err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", false, nil
		}
		return "", false, serrors.New("E202").Wrap(err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return serrors.New("E203").Wrap(err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return serrors.New("E204").Wrap(err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}
