package depcache

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/depcache/codec"
	pr "github.com/unkn0wn-root/depcache/provider"
	ts "github.com/unkn0wn-root/depcache/tagstore"
	"github.com/unkn0wn-root/depcache/token"
)

// Dependency is a (tag key, version) pair recorded with an entry.
type Dependency = ts.Dependency

// SetCostFunc computes the provider cost of an encoded entry.
// deps is the number of tags recorded with it.
type SetCostFunc func(key string, raw []byte, deps int) int64

// Cache is the tag-aware cache API. V is the caller's value type.
// Serialization is handled by a pluggable Codec[V].
type Cache[V any] interface {
	Enabled() bool
	Close(context.Context) error

	// Get returns ok=false when the entry is missing, malformed, or any of
	// its tags has been invalidated since it was written. err is only set for
	// backing store failures.
	Get(ctx context.Context, key string) (v V, ok bool, err error)
	// Set stores value under key, depending on tags. ttl <= 0 => Options.DefaultTTL.
	Set(ctx context.Context, key string, value V, ttl time.Duration, tags ...string) error
	// Invalidate bumps the version of every tag. Returns false (and touches
	// nothing) when no tags are given.
	Invalidate(ctx context.Context, tags ...string) (bool, error)
	// Delete removes the entry; tag versions are left alone.
	Delete(ctx context.Context, key string) error

	// Snapshots (read-through safety)
	SnapshotTags(ctx context.Context, tags ...string) ([]Dependency, error)
	SetWithSnapshot(ctx context.Context, key string, value V, ttl time.Duration, snapshot []Dependency) error

	// Remember returns the cached value or loads, stores and returns it.
	// Concurrent misses for the same key share one load.
	Remember(ctx context.Context, key string, ttl time.Duration, tags []string, load func(context.Context) (V, error)) (V, error)

	// Dependencies returns the snapshot stored with key without validating it.
	Dependencies(ctx context.Context, key string) (deps []Dependency, ok bool, err error)
}

// Options tune the behavior of the cache.
// Only Namespace and Provider are required; others have sensible defaults.
type Options[V any] struct {
	// Required
	Namespace string // logical namespace for data keys. e.g. "user", "order"
	Provider  pr.Provider

	Codec          c.Codec[V]      // nil => codec.JSON[V]
	TagNamespace   string          // "" => Namespace; share it to invalidate across caches
	TagStore       ts.Store        // nil => versions stored in Provider
	Versions       token.Generator // nil => token.UUIDv7
	Logger         Logger          // nil => NopLogger
	Hooks          Hooks           // nil => NopHooks
	DefaultTTL     time.Duration   // used when Set gets ttl <= 0; 0 => no expiry
	Disabled       bool            // default false (enabled)
	ComputeSetCost SetCostFunc     // default len(raw)

	// SelfHeal deletes rejected entries on read. The delete is not
	// conditional: a Set landing between validation and delete is removed
	// too and the next Get misses once.
	SelfHeal bool
}

func New[V any](opts Options[V]) (Cache[V], error) {
	return newCache[V](opts)
}
