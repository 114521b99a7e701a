package depcache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/unkn0wn-root/depcache/codec"
	"github.com/unkn0wn-root/depcache/internal/util"
	"github.com/unkn0wn-root/depcache/internal/wire"
	pr "github.com/unkn0wn-root/depcache/provider"
	ts "github.com/unkn0wn-root/depcache/tagstore"
	"github.com/unkn0wn-root/depcache/token"
)

const (
	dataKeyPrefix = "data:"
	tagKeyPrefix  = "tag:"
)

type cache[V any] struct {
	dataPrefix     string
	tagPrefix      string
	provider       pr.Provider
	codec          codec.Codec[V]
	native         bool
	tags           ts.Store
	versions       token.Generator
	log            Logger
	hooks          Hooks
	enabled        bool
	selfHeal       bool
	defaultTTL     time.Duration
	computeSetCost SetCostFunc

	loads singleflight.Group
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.Provider == nil {
		return nil, ErrProviderRequired
	}
	if opts.Namespace == "" {
		return nil, ErrNamespaceRequired
	}

	c := &cache[V]{
		dataPrefix: dataKeyPrefix + opts.Namespace + ":",
		tagPrefix:  tagKeyPrefix + coalesce(opts.TagNamespace, opts.Namespace) + ":",
		provider:   opts.Provider,
		enabled:    !opts.Disabled,
		selfHeal:   opts.SelfHeal,
		defaultTTL: opts.DefaultTTL,
	}

	// defaults
	c.codec = coalesce[codec.Codec[V]](opts.Codec, codec.JSON[V]{})
	c.native = codec.IsNative(c.codec)
	c.versions = coalesce[token.Generator](opts.Versions, token.UUIDv7{})
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	if opts.ComputeSetCost != nil {
		c.computeSetCost = opts.ComputeSetCost
	} else {
		c.computeSetCost = func(_ string, raw []byte, _ int) int64 { return int64(len(raw)) }
	}

	if opts.TagStore != nil {
		c.tags = opts.TagStore
	} else {
		// versions next to the data, same provider
		s, err := ts.NewProviderStore(opts.Provider)
		if err != nil {
			return nil, err
		}
		c.tags = s
	}

	return c, nil
}

func (c *cache[V]) Enabled() bool { return c.enabled }

func (c *cache[V]) Close(ctx context.Context) error {
	// Close tag store first (best effort)
	if c.tags != nil {
		if err := c.tags.Close(ctx); err != nil {
			c.log.Warn("tag store close failed", Fields{"err": err})
		}
	}
	if c.provider != nil {
		return c.provider.Close(ctx)
	}
	return nil
}

func (c *cache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	if !c.enabled {
		return zero, false, nil
	}
	k := c.dataKey(key)
	raw, ok, err := c.provider.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	payload, deps, err := wire.DecodeEntry(raw, c.native)
	if err != nil {
		c.reject(ctx, k, ReasonCorrupt)
		return zero, false, nil
	}
	valid, err := c.validateVersions(ctx, deps)
	if err != nil {
		return zero, false, err
	}
	if !valid {
		c.reject(ctx, k, ReasonStale)
		return zero, false, nil
	}
	v, err := c.codec.Decode(payload)
	if err != nil {
		c.reject(ctx, k, ReasonValueDecode)
		return zero, false, nil
	}
	return v, true, nil
}

func (c *cache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration, tags ...string) error {
	if !c.enabled {
		return nil
	}
	snapshot, err := c.generateVersions(ctx, c.tagKeys(tags))
	if err != nil {
		return err
	}
	return c.write(ctx, key, value, ttl, snapshot)
}

func (c *cache[V]) Invalidate(ctx context.Context, tags ...string) (bool, error) {
	if !c.enabled || len(tags) == 0 {
		return false, nil
	}
	deps, err := c.touchVersions(ctx, c.tagKeys(tags))
	if err != nil {
		return false, err
	}
	c.hooks.TagsInvalidated(len(deps))
	c.log.Debug("invalidated tags", Fields{"tags": tags, "version": deps[0].Version})
	return true, nil
}

func (c *cache[V]) Delete(ctx context.Context, key string) error {
	if !c.enabled {
		return nil
	}
	return c.provider.Del(ctx, c.dataKey(key))
}

// SnapshotTags resolves the current version of every tag, minting versions
// for tags seen for the first time. Take it before reading the source of
// truth and pass it to SetWithSnapshot.
func (c *cache[V]) SnapshotTags(ctx context.Context, tags ...string) ([]Dependency, error) {
	if !c.enabled {
		return nil, nil
	}
	return c.generateVersions(ctx, c.tagKeys(tags))
}

// SetWithSnapshot stores value with a snapshot taken earlier by SnapshotTags.
// If a tag was invalidated since, the write is skipped: the value may
// predate the invalidation and must not replace a fresher entry.
func (c *cache[V]) SetWithSnapshot(ctx context.Context, key string, value V, ttl time.Duration, snapshot []Dependency) error {
	if !c.enabled {
		return nil
	}
	valid, err := c.validateVersions(ctx, snapshot)
	if err != nil {
		return err
	}
	if !valid {
		c.log.Debug("SetWithSnapshot skipped (tag invalidated)", Fields{"key": key})
		return nil
	}
	return c.write(ctx, key, value, ttl, snapshot)
}

// Remember shares one load between concurrent misses for the same key; the
// shared load runs with the context of the caller that started it.
// Load errors are returned and nothing is stored.
func (c *cache[V]) Remember(ctx context.Context, key string, ttl time.Duration, tags []string, load func(context.Context) (V, error)) (V, error) {
	var zero V
	if !c.enabled {
		return load(ctx)
	}
	if v, ok, err := c.Get(ctx, key); err != nil {
		return zero, err
	} else if ok {
		return v, nil
	}

	res, err, shared := c.loads.Do(c.dataKey(key), func() (any, error) {
		snapshot, err := c.SnapshotTags(ctx, tags...)
		if err != nil {
			return nil, err
		}
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.SetWithSnapshot(ctx, key, v, ttl, snapshot); err != nil {
			// the loaded value is still good
			c.log.Warn("Remember store failed", Fields{"key": key, "err": err})
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	if shared {
		c.log.Debug("Remember shared load", Fields{"key": key})
	}
	v, _ := res.(V)
	return v, nil
}

func (c *cache[V]) Dependencies(ctx context.Context, key string) ([]Dependency, bool, error) {
	if !c.enabled {
		return nil, false, nil
	}
	raw, ok, err := c.provider.Get(ctx, c.dataKey(key))
	if err != nil || !ok {
		return nil, false, err
	}
	_, deps, err := wire.DecodeEntry(raw, c.native)
	if err != nil {
		return nil, false, nil
	}
	return deps, true, nil
}

func (c *cache[V]) write(ctx context.Context, key string, value V, ttl time.Duration, snapshot []Dependency) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	payload, err := c.codec.Encode(value)
	if err != nil {
		return err
	}
	raw, err := wire.EncodeEntry(payload, c.native, snapshot)
	if err != nil {
		return err
	}
	k := c.dataKey(key)
	ok, err := c.provider.Set(ctx, k, raw, c.computeSetCost(k, raw, len(snapshot)), ttl)
	if err != nil {
		return err
	}
	if !ok {
		c.hooks.ProviderSetRejected(k)
		c.log.Debug("Set rejected by provider (pressure)", Fields{"key": key})
	}
	return nil
}

// reject reports an entry that will not be returned. Entries stay in place
// unless self-heal is on.
func (c *cache[V]) reject(ctx context.Context, storageKey, reason string) {
	c.hooks.EntryRejected(storageKey, reason)
	c.log.Debug("entry rejected", Fields{"key": storageKey, "reason": reason})
	if !c.selfHeal {
		return
	}
	if err := c.provider.Del(ctx, storageKey); err != nil {
		c.log.Warn("self-heal delete failed", Fields{"key": storageKey, "err": err})
	}
}

func (c *cache[V]) dataKey(userKey string) string {
	return util.BuildKey(c.dataPrefix, userKey)
}

func (c *cache[V]) tagKeys(tags []string) []string {
	return util.BuildKeys(c.tagPrefix, tags)
}
