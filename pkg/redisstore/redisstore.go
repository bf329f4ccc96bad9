// Package redisstore provides a Redis-backed cache store, suitable when
// cached reads should be shared across processes. Values are JSON-marshaled
// on write; Get returns the raw bytes and leaves decoding to the caller.
package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-gridbase/cache"
)

// DefaultKeyPrefix namespaces store keys inside a shared Redis instance.
const DefaultKeyPrefix = "gridbase:cache:"

// Store implements cache.Store, cache.Deleter, and cache.PrefixDeleter on top
// of a Redis client.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// New creates a Redis-backed store using an existing client. An empty prefix
// falls back to DefaultKeyPrefix.
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

// Get returns the stored bytes for key, or ok=false when absent or expired.
func (s *Store) Get(ctx context.Context, key string) (any, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores value under key with the given TTL. Zero TTL means no expiry.
// Byte slices are stored verbatim; anything else is JSON-marshaled.
func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, ok := value.([]byte)
	if !ok {
		var err error
		data, err = json.Marshal(value)
		if err != nil {
			return err
		}
	}
	return s.client.Set(ctx, s.key(key), data, ttl).Err()
}

// Delete removes a key. It is not an error to delete an absent key.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// DeleteByPrefix removes every key starting with prefix, walking the keyspace
// with SCAN so large instances are not blocked.
func (s *Store) DeleteByPrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	pattern := s.key(prefix) + "*"
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Ping verifies connectivity to the Redis backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

var (
	_ cache.Store         = (*Store)(nil)
	_ cache.Deleter       = (*Store)(nil)
	_ cache.PrefixDeleter = (*Store)(nil)
)
