package depcache

import (
	"context"
	"slices"

	ts "github.com/unkn0wn-root/depcache/tagstore"
)

// fetchVersions reads the current version of every tag key, in input order.
func (c *cache[V]) fetchVersions(ctx context.Context, tagKeys []string) ([]Dependency, error) {
	deps, err := c.tags.Versions(ctx, tagKeys)
	if err != nil {
		c.hooks.TagStoreError("versions", len(tagKeys), err)
		return nil, err
	}
	return deps, nil
}

// touchVersions writes one fresh token to all tag keys. Sharing the token
// makes every tag of one call newer at the same instant.
func (c *cache[V]) touchVersions(ctx context.Context, tagKeys []string) ([]Dependency, error) {
	v, err := c.versions.Next()
	if err != nil {
		return nil, err
	}
	if err := c.tags.Touch(ctx, tagKeys, v); err != nil {
		c.hooks.TagStoreError("touch", len(tagKeys), err)
		return nil, err
	}
	out := make([]Dependency, len(tagKeys))
	for i, k := range tagKeys {
		out[i] = ts.At(k, v)
	}
	return out, nil
}

// generateVersions returns a concrete version for every tag key, minting
// versions for keys that have none yet. Order follows tagKeys.
func (c *cache[V]) generateVersions(ctx context.Context, tagKeys []string) ([]Dependency, error) {
	if len(tagKeys) == 0 {
		return nil, nil
	}
	deps, err := c.fetchVersions(ctx, tagKeys)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, d := range deps {
		if !d.Found && !slices.Contains(missing, d.Key) {
			missing = append(missing, d.Key)
		}
	}
	if len(missing) == 0 {
		return deps, nil
	}

	minted, err := c.touchVersions(ctx, missing)
	if err != nil {
		return nil, err
	}
	c.hooks.VersionsMinted(len(minted))
	return mergeVersions(deps, minted), nil
}

// mergeVersions replaces records of fetched by key with their minted
// counterpart and appends minted keys fetched does not hold.
func mergeVersions(fetched, minted []Dependency) []Dependency {
	out := slices.Clone(fetched)
	pos := make(map[string][]int, len(out))
	for i, d := range out {
		pos[d.Key] = append(pos[d.Key], i)
	}
	for _, m := range minted {
		idx, ok := pos[m.Key]
		if !ok {
			pos[m.Key] = []int{len(out)}
			out = append(out, m)
			continue
		}
		for _, i := range idx {
			out[i] = m
		}
	}
	return out
}

// validateVersions reports whether snapshot still matches the tag store.
// An empty snapshot never goes stale. The comparison is over the full
// ordered {key, version} sequence; an absent record in a stored snapshot
// can only come from corruption and is rejected without a fetch.
func (c *cache[V]) validateVersions(ctx context.Context, snapshot []Dependency) (bool, error) {
	if len(snapshot) == 0 {
		return true, nil
	}
	keys := make([]string, len(snapshot))
	for i, d := range snapshot {
		if !d.Found {
			return false, nil
		}
		keys[i] = d.Key
	}
	fresh, err := c.fetchVersions(ctx, keys)
	if err != nil {
		return false, err
	}
	return slices.Equal(fresh, snapshot), nil
}
