package asynchook

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingHooks struct {
	calls atomic.Int64
	block chan struct{}
	mu    sync.Mutex
	ops   []string
}

func (c *countingHooks) record(op string) {
	if c.block != nil {
		<-c.block
	}
	c.calls.Add(1)
	c.mu.Lock()
	c.ops = append(c.ops, op)
	c.mu.Unlock()
}

func (c *countingHooks) EntryRejected(string, string)     { c.record("rejected") }
func (c *countingHooks) VersionsMinted(int)               { c.record("minted") }
func (c *countingHooks) TagsInvalidated(int)              { c.record("invalidated") }
func (c *countingHooks) ProviderSetRejected(string)       { c.record("set_rejected") }
func (c *countingHooks) TagStoreError(string, int, error) { c.record("store_error") }

func TestDeliversAllEvents(t *testing.T) {
	inner := &countingHooks{}
	h := New(inner, 2, 16)

	h.EntryRejected("k", "stale")
	h.VersionsMinted(1)
	h.TagsInvalidated(2)
	h.ProviderSetRejected("k")
	h.TagStoreError("touch", 1, errors.New("x"))
	h.Close()

	if got := inner.calls.Load(); got != 5 {
		t.Fatalf("delivered %d events, want 5", got)
	}
	if h.Dropped() != 0 {
		t.Fatalf("dropped=%d", h.Dropped())
	}
}

func TestDropsWhenFullAndAfterClose(t *testing.T) {
	inner := &countingHooks{block: make(chan struct{})}
	h := New(inner, 1, 1)

	// one event held by the worker, one queued, the rest dropped
	for i := 0; i < 10; i++ {
		h.VersionsMinted(1)
		time.Sleep(time.Millisecond)
	}
	if h.Dropped() == 0 {
		t.Fatalf("expected drops with a full queue")
	}
	close(inner.block)
	h.Close()

	before := h.Dropped()
	h.TagsInvalidated(1)
	if h.Dropped() != before+1 {
		t.Fatalf("event after Close should be dropped")
	}
	h.Close() // idempotent
	if inner.calls.Load()+int64(before) != 10 {
		t.Fatalf("delivered=%d dropped=%d, want total 10", inner.calls.Load(), before)
	}
}

func TestDefaults(t *testing.T) {
	h := New(&countingHooks{}, 0, 0)
	defer h.Close()
	if cap(h.q) != 1024 {
		t.Fatalf("queue cap=%d", cap(h.q))
	}
}
