/*
redis.go - Redis-backed cache for multi-instance deployments

PURPOSE:
  Same contract as the in-memory cache, but shared across instances.
  Each entry is a plain value key; tags are Redis sets holding the keys
  they cover. Invalidating a tag deletes the set's members and the set.

  Expiry is handled by Redis TTLs, so Cleanup is a no-op. Tag sets carry
  no TTL of their own; they may accumulate references to expired keys,
  which makes invalidation delete a few already-gone keys - harmless.
*/
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const tagPrefix = "tag:"

// Redis implements Service on a Redis client.
type Redis struct {
	client *redis.Client
}

var _ Service = (*Redis)(nil)

func NewRedis(addr string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (r *Redis) SetWithTags(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, value, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagPrefix+tag, key)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Redis) InvalidateTag(ctx context.Context, tag string) error {
	keys, err := r.client.SMembers(ctx, tagPrefix+tag).Result()
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, tagPrefix+tag)
	_, err = pipe.Exec(ctx)
	return err
}

// Cleanup is a no-op: Redis expires keys server-side.
func (r *Redis) Cleanup(context.Context) error { return nil }

// Close releases the underlying client.
func (r *Redis) Close() error { return r.client.Close() }
