// Package depcache is a tag-based invalidation layer over any byte store.
//
// Every cached entry records the versions of the tags it depends on. Invalidating
// a tag writes a new version for it, so every entry that captured the old version
// reads as a miss from then on. No cache keys are scanned or enumerated.
//
// Components:
//   - Provider: byte store with TTL (Redis, Ristretto, BigCache, ...).
//   - Codec[V]: (de)serializes V <-> []byte. JSON by default.
//   - tagstore.Store: current version per tag. Defaults to the Provider itself.
//   - token.Generator: fresh version tokens (UUIDv7 by default).
//
// Keys:
//
//	data:<ns>:<key>     - entries, JSON [value, [{key, version}, ...]]
//	tag:<tagns>:<tag>   - tag versions
//
// Usage:
//
//	_ = cache.Set(ctx, "user:1", u, 0, "org:7", "users")
//	u, ok, _ := cache.Get(ctx, "user:1")
//	_, _ = cache.Invalidate(ctx, "org:7") // user:1 now misses
//
// Read-through without losing concurrent invalidations:
//
//	snap, _ := cache.SnapshotTags(ctx, "org:7") // before DB read
//	u := readFromDB(1)
//	_ = cache.SetWithSnapshot(ctx, "user:1", u, 0, snap)
//
// Entries are invalidated lazily: a stale entry stays in the store until it
// expires or is overwritten, unless Options.SelfHeal is set.
package depcache
