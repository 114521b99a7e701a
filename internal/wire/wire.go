// Package wire encodes cached entries as the JSON 2-tuple
//
//	[value, [{"key": "...", "version": "..."}, ...]]
//
// This text is shared with every other reader of the same store, so its
// shape must not change. When the value codec already emits JSON the value
// is embedded verbatim; other codecs are carried as a base64 JSON string.
package wire

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/unkn0wn-root/depcache/tagstore"
)

var ErrCorrupt = errors.New("depcache: corrupt entry")

var nullJSON = []byte("null")

// EncodeEntry frames payload and deps. native reports whether payload is
// JSON text. A nil deps slice encodes as [].
func EncodeEntry(payload []byte, native bool, deps []tagstore.Dependency) ([]byte, error) {
	var value any
	if native {
		if len(payload) == 0 {
			value = json.RawMessage(nullJSON)
		} else {
			value = json.RawMessage(payload)
		}
	} else {
		value = payload
	}
	if deps == nil {
		deps = []tagstore.Dependency{}
	}
	return json.Marshal([2]any{value, deps})
}

// DecodeEntry is strict about the outer shape: exactly two elements, a
// dependency array (or null) whose members are objects with a string key.
// Anything else is ErrCorrupt.
func DecodeEntry(b []byte, native bool) (payload []byte, deps []tagstore.Dependency, err error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil || len(parts) != 2 {
		return nil, nil, ErrCorrupt
	}

	rawDeps := bytes.TrimSpace(parts[1])
	if !bytes.Equal(rawDeps, nullJSON) {
		if len(rawDeps) == 0 || rawDeps[0] != '[' {
			return nil, nil, ErrCorrupt
		}
		if err := json.Unmarshal(rawDeps, &deps); err != nil {
			return nil, nil, ErrCorrupt
		}
	}

	if native {
		return parts[0], deps, nil
	}
	if err := json.Unmarshal(parts[0], &payload); err != nil {
		return nil, nil, ErrCorrupt
	}
	return payload, deps, nil
}
