package rab2html

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces container keys.
const DefaultRedisPrefix = "rab2html:container:"

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // key prefix; empty means DefaultRedisPrefix
	TTL      time.Duration // entry lifetime; zero keeps entries forever
}

// RedisStore keeps containers in Redis as JSON entries, so that several
// builds can share renders.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	return newRedisStore(client, opts), nil
}

func newRedisStore(client redis.UniversalClient, opts RedisOptions) *RedisStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: opts.TTL}
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, digest string) (StoredEntry, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+digest).Bytes()
	if errors.Is(err, redis.Nil) {
		return StoredEntry{}, false, nil
	}
	if err != nil {
		return StoredEntry{}, false, fmt.Errorf("reading %s: %w", digest, err)
	}

	var entry StoredEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return StoredEntry{}, false, fmt.Errorf("decoding %s: %w", digest, err)
	}
	return entry, true, nil
}

// Put implements Store.
func (r *RedisStore) Put(ctx context.Context, digest string, entry StoredEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", digest, err)
	}
	if err := r.client.Set(ctx, r.prefix+digest, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", digest, err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ Store = (*RedisStore)(nil)
