// Package cache stores serialized design records between runs.
//
// The CLI uses [FileCache] under the user cache directory; the API server
// can share a [RedisCache] between replicas. [NullCache] disables caching.
//
// Keys come from a [Keyer] so that callers never build key strings by hand:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.DesignKey(cache.DesignKeyOpts{Flow: 0.012, Headloss: 0.2, SDR: 26})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// TTLDesign is the default lifetime of a cached design record.
const TTLDesign = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
// A miss is reported as ok == false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NullCache is a Cache that never stores anything. It backs --no-cache and
// the "none" backend.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
