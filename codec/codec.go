// Package codec serializes cached values.
//
// Entries are stored as JSON text, so codecs that already produce JSON are
// embedded verbatim and stay readable by any other client of the store.
// Binary codecs (Msgpack, CBOR, Protobuf, Bytes, String) are carried as a
// base64 JSON string.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Native is implemented by codecs whose Encode output is always valid JSON.
type Native interface {
	NativeJSON() bool
}

// IsNative reports whether c produces JSON text.
func IsNative(c any) bool {
	n, ok := c.(Native)
	return ok && n.NativeJSON()
}
