// Package provider defines the storage abstraction used by depcache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key. If a store performs
// internal transforms (e.g. compression), they MUST be fully reversed on Get.
//
// The keyspaces "data:<ns>:" and "tag:<ns>:" are owned by depcache. Cached
// entries live under the first, tag versions under the second when the
// default tag store is used. External writes under these prefixes are read
// as corrupt entries or as foreign tag versions.
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store with TTLs. Must be safe for concurrent use.
//
// Invalidation relies on read-after-write: a Get issued after a successful
// Set for the same key must observe that write.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL; ttl <= 0 means no expiry.
	// May ignore cost if unsupported.
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key. Deleting a missing key is not an error.
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
