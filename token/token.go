// Package token generates tag version tokens.
//
// A token only has to differ from the tag's previous token. Consumers compare
// tokens for equality and never order them.
package token

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator returns a fresh version token on every call.
type Generator interface {
	Next() (string, error)
}

// Func adapts a plain function to Generator.
type Func func() (string, error)

func (f Func) Next() (string, error) { return f() }

// UUIDv7 issues RFC 9562 version 7 UUIDs: a millisecond timestamp followed
// by a per-process monotonic sequence and random bits. Two invalidations in
// the same millisecond, in one process or in many, get different tokens.
type UUIDv7 struct{}

var _ Generator = UUIDv7{}

func (UUIDv7) Next() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Millis issues decimal millisecond timestamps ("1729345678123").
// Within one Millis value tokens are strictly increasing: if the clock has
// not advanced (or went backwards) the previous token plus one is issued.
// Processes sharing a store may still collide within one millisecond;
// prefer UUIDv7 when several writers invalidate the same tags.
// The zero value is ready to use and reads time.Now.
type Millis struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

var _ Generator = (*Millis)(nil)

// NewMillis returns a Millis reading time from now; nil means time.Now.
func NewMillis(now func() time.Time) *Millis {
	if now == nil {
		now = time.Now
	}
	return &Millis{now: now}
}

func (m *Millis) Next() (string, error) {
	now := m.now
	if now == nil {
		now = time.Now
	}
	ms := now().UnixMilli()
	m.mu.Lock()
	if ms <= m.last {
		ms = m.last + 1
	}
	m.last = ms
	m.mu.Unlock()
	return strconv.FormatInt(ms, 10), nil
}
