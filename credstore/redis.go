package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	accessSuffix  = ":access"
	refreshSuffix = ":refresh"
)

// Redis is a [Store] that keeps the credential pair under two named keys,
// "<prefix>:access" and "<prefix>:refresh". Hosts that already hold a Redis
// client can share a session across processes this way.
type Redis struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedis creates a Redis-backed store. An empty prefix defaults to "cbcred".
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "cbcred"
	}
	return &Redis{redis: client, prefix: prefix}
}

// Get describes the get operation and its observable behavior.
//
// Get may return ErrStoreUnavailable when Redis cannot be reached; absent
// keys read as empty fields, not as an error.
func (s *Redis) Get(ctx context.Context) (Pair, error) {
	values, err := s.redis.MGet(ctx, s.prefix+accessSuffix, s.prefix+refreshSuffix).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Pair{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var pair Pair
	if len(values) > 0 {
		if v, ok := values[0].(string); ok {
			pair.Access = v
		}
	}
	if len(values) > 1 {
		if v, ok := values[1].(string); ok {
			pair.Refresh = v
		}
	}
	return pair, nil
}

// Set describes the set operation and its observable behavior.
//
// Set writes both keys in one pipeline so readers never observe a pair that
// mixes an old refresh credential with a new access credential.
func (s *Redis) Set(ctx context.Context, pair Pair) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if pair.Access == "" {
			pipe.Del(ctx, s.prefix+accessSuffix)
		} else {
			pipe.Set(ctx, s.prefix+accessSuffix, pair.Access, 0)
		}
		if pair.Refresh == "" {
			pipe.Del(ctx, s.prefix+refreshSuffix)
		} else {
			pipe.Set(ctx, s.prefix+refreshSuffix, pair.Refresh, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear is idempotent: deleting absent keys succeeds.
func (s *Redis) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.prefix+accessSuffix, s.prefix+refreshSuffix).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
