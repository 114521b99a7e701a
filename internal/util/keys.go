package util

// BuildKey joins a namespace prefix and a caller key. Prefixes end in ':'
// and differ between data and tag keys, so the two never collide.
func BuildKey(prefix, key string) string {
	return prefix + key
}

// BuildKeys maps BuildKey over keys, preserving order.
func BuildKeys(prefix string, keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = BuildKey(prefix, k)
	}
	return out
}
