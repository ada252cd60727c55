// Package cache stores rendered artifacts between runs.
//
// # Backends
//
// Three [Cache] implementations are provided:
//
//   - [FileCache] keeps one file per entry under a directory, by default
//     $XDG_CACHE_HOME/sketchgraph.
//   - [RedisCache] keeps entries in Redis so several machines can share them.
//   - [NullCache] stores nothing and is used when caching is disabled.
//
// # Keys
//
// Keys are produced by a [Keyer]. Artifacts are addressed by the hash of the
// graph they were rendered from together with the output format and the
// render options, so a change to any of them is a miss:
//
//	key := keyer.ArtifactKey(graphHash, ArtifactKeyOpts{Format: "svg"})
//
// [ScopedKeyer] prefixes every key with a namespace, which keeps entries from
// different configurations apart when they share a backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// Get reports a miss as (nil, false, nil). Errors are reserved for backend
// failures, and callers usually treat them as a miss too.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DefaultTTL is used when the configuration does not name one.
const DefaultTTL = 7 * 24 * time.Hour

// NullCache never stores anything. Every Get misses.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }
