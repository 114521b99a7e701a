// Package tagstore keeps the current version of every dependency tag.
//
// A Store maps a normalized tag key (e.g. "tag:<ns>:<tag>") to an opaque
// version token. Versions are written without expiry and are only ever
// replaced, never deleted by depcache. Three implementations are provided:
//
//   - ProviderStore (default): versions live in the same provider as the
//     cached entries; one provider Get per tag.
//   - RedisStore: MGET for reads and a pipelined SET batch for writes.
//   - LocalStore: in-process map, optional retention sweep.
package tagstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
)

// ErrRejected is returned by Touch when the underlying store refused a
// version write. A dropped version write would lose an invalidation, so it
// is never reported as success.
var ErrRejected = errors.New("tagstore: version write rejected")

var errNullDependency = errors.New("tagstore: null dependency record")

// Dependency is a (tag key, version) pair.
// Found=false is the "absent" state: the tag has no recorded version yet.
// It is distinct from every real version, including "".
// Dependencies are comparable; two records are equal iff all fields match.
type Dependency struct {
	Key     string
	Version string
	Found   bool
}

// Absent returns the record for a tag without a version.
func Absent(key string) Dependency { return Dependency{Key: key} }

// At returns the record for a tag holding version v.
func At(key, v string) Dependency { return Dependency{Key: key, Version: v, Found: true} }

type dependencyJSON struct {
	Key     string  `json:"key"`
	Version *string `json:"version"`
}

// MarshalJSON encodes {"key": k, "version": v}; absent versions encode as null.
func (d Dependency) MarshalJSON() ([]byte, error) {
	out := dependencyJSON{Key: d.Key}
	if d.Found {
		v := d.Version
		out.Version = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the shape produced by MarshalJSON.
// A missing or null version decodes as absent; a null record is an error.
func (d *Dependency) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return errNullDependency
	}
	var in dependencyJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*d = Dependency{Key: in.Key}
	if in.Version != nil {
		d.Version = *in.Version
		d.Found = true
	}
	return nil
}

// Store abstracts where tag versions live.
type Store interface {
	// Versions returns one record per key in input order.
	// Keys without a version are returned as Absent.
	Versions(ctx context.Context, tagKeys []string) ([]Dependency, error)
	// Touch writes version to every key, without expiry.
	Touch(ctx context.Context, tagKeys []string, version string) error
	// Close releases resources (no-op ok).
	Close(context.Context) error
}
