package depcache

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; they run on hot paths.
// Wrap slow sinks with hooks/async.
type Hooks interface {
	// An entry was found but not returned.
	// reason ∈ {"corrupt", "stale", "value_decode"}
	EntryRejected(storageKey, reason string)

	// Set referenced count tags that had no version yet.
	VersionsMinted(count int)

	// Invalidate wrote a new version for count tags.
	TagsInvalidated(count int)

	// Provider returned ok=false on an entry Set (backpressure/eviction).
	ProviderSetRejected(storageKey string)

	// Tag store call failed. op ∈ {"versions", "touch"}; count is the
	// number of tag keys involved.
	TagStoreError(op string, count int, err error)
}

// Reasons passed to Hooks.EntryRejected.
const (
	ReasonCorrupt     = "corrupt"
	ReasonStale       = "stale"
	ReasonValueDecode = "value_decode"
)

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) EntryRejected(string, string)     {}
func (NopHooks) VersionsMinted(int)               {}
func (NopHooks) TagsInvalidated(int)              {}
func (NopHooks) ProviderSetRejected(string)       {}
func (NopHooks) TagStoreError(string, int, error) {}
