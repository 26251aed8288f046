/*
Package cache provides the result cache used to memoize simulation runs.

PURPOSE:
  Simulation results are deterministic for a given scenario and config
  (outside the projection jitter), so the service layer memoizes them by
  key. Entries carry tags naming the upstream records they were computed
  from (scenario, policies); mutating a record invalidates every entry
  tagged with it in one call.

  The cache is an explicit service object constructed once per process and
  injected wherever needed - never ambient global state. The engine itself
  is unaware of it.

IMPLEMENTATIONS:
  - Memory: mutex-guarded in-process map with a tag index and TTL sweep
  - Redis: value keys plus per-tag sets, TTL handled server-side

USAGE:
  c := cache.NewMemory()
  c.SetWithTags(ctx, key, payload, 10*time.Minute, "scenario:scn-1", "policy:pol-2")
  ...
  c.InvalidateTag(ctx, "policy:pol-2") // drops every run built from pol-2
*/
package cache

import (
	"context"
	"time"
)

// Service is the cache contract the API layer depends on.
type Service interface {
	// Get returns the cached value for key, or false if absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool)

	// SetWithTags stores value under key with the given TTL and associates
	// it with each tag. A zero TTL means no expiry.
	SetWithTags(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error

	// InvalidateTag removes every entry associated with tag.
	InvalidateTag(ctx context.Context, tag string) error

	// Cleanup purges expired entries. Implementations with server-side
	// expiry may make this a no-op.
	Cleanup(ctx context.Context) error
}
