package tagstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares tag versions across processes and survives restarts.
// Reads are a single MGET; writes are pipelined SETs in one round trip.
// The caller owns the client; Close does not close it.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration // 0 => versions never expire
}

var _ Store = (*RedisStore)(nil)

// RedisConfig configures NewRedisStoreWithConfig.
type RedisConfig struct {
	Client redis.UniversalClient
	// KeyPrefix is prepended to every tag key in Redis, e.g. "app:prod:".
	// Use the same prefix as the data provider so both modes see the same
	// versions. Returned records carry the unprefixed key.
	KeyPrefix string
	// TTL refreshed on every touched version; 0 => no expiry.
	TTL time.Duration
}

// NewRedisStore creates a Redis-backed tag store without expiry.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{rdb: client}
}

// NewRedisStoreWithTTL refreshes a TTL on every touched version to bound
// key growth. ttl must exceed the longest data TTL; when a version expires,
// entries depending on it read as stale.
func NewRedisStoreWithTTL(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: client, ttl: ttl}
}

func NewRedisStoreWithConfig(cfg RedisConfig) *RedisStore {
	return &RedisStore{rdb: cfg.Client, prefix: cfg.KeyPrefix, ttl: cfg.TTL}
}

func (s *RedisStore) key(k string) string { return s.prefix + k }

func (s *RedisStore) Versions(ctx context.Context, keys []string) ([]Dependency, error) {
	if len(keys) == 0 {
		return []Dependency{}, nil
	}
	rkeys := keys
	if s.prefix != "" {
		rkeys = make([]string, len(keys))
		for i, k := range keys {
			rkeys[i] = s.key(k)
		}
	}
	vals, err := s.rdb.MGet(ctx, rkeys...).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) != len(keys) {
		return nil, fmt.Errorf("tagstore: redis MGET returned %d values for %d keys", len(vals), len(keys))
	}

	out := make([]Dependency, len(keys))
	for i, v := range vals {
		switch vv := v.(type) {
		case nil:
			out[i] = Absent(keys[i])
		case string:
			out[i] = At(keys[i], vv)
		case []byte:
			out[i] = At(keys[i], string(vv))
		default:
			out[i] = At(keys[i], fmt.Sprint(vv))
		}
	}
	return out, nil
}

func (s *RedisStore) Touch(ctx context.Context, keys []string, version string) error {
	if len(keys) == 0 {
		return nil
	}
	if len(keys) == 1 {
		return s.rdb.Set(ctx, s.key(keys[0]), version, s.ttl).Err()
	}
	_, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			p.Set(ctx, s.key(k), version, s.ttl)
		}
		return nil
	})
	return err
}

func (s *RedisStore) Close(context.Context) error { return nil }
