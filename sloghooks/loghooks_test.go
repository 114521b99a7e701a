package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBufLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestEventsAreLogged(t *testing.T) {
	l, buf := newBufLogger()
	h := New(l, Options{})

	h.EntryRejected("data:user:1", "stale")
	h.VersionsMinted(2)
	h.TagsInvalidated(3)
	h.ProviderSetRejected("data:user:1")
	h.TagStoreError("versions", 4, errors.New("down"))

	out := buf.String()
	for _, want := range []string{
		"depcache.entry_rejected", "reason=stale",
		"depcache.versions_minted", "count=2",
		"depcache.tags_invalidated", "count=3",
		"depcache.provider_set_rejected",
		"depcache.tag_store_error", "op=versions", "err=down",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "data:user:1") {
		t.Fatalf("storage key should be redacted:\n%s", out)
	}
}

func TestSampling(t *testing.T) {
	l, buf := newBufLogger()
	h := New(l, Options{RejectEvery: 5, Redact: func(string) string { return "x" }})

	for i := 0; i < 10; i++ {
		h.EntryRejected("k", "corrupt")
	}
	if n := strings.Count(buf.String(), "depcache.entry_rejected"); n != 2 {
		t.Fatalf("logged %d rejections, want 2", n)
	}
	if !strings.Contains(buf.String(), "key=x") {
		t.Fatalf("custom redactor not applied")
	}
}

func TestNilLogger(t *testing.T) {
	h := New(nil, Options{})
	h.EntryRejected("k", "stale")
	h.VersionsMinted(1)
	h.TagsInvalidated(1)
	h.ProviderSetRejected("k")
	h.TagStoreError("touch", 1, nil)
}
