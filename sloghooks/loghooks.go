// Package sloghooks reports depcache hook events through log/slog.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/depcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	RejectEvery uint64
	MintEvery   uint64
	// Optional key redactor. Defaults to a SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	rejectCtr atomic.Uint64
	mintCtr   atomic.Uint64
}

var _ depcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n <= 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) EntryRejected(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.RejectEvery, &h.rejectCtr) {
		return
	}
	h.l.Debug("depcache.entry_rejected",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) VersionsMinted(count int) {
	if h.l == nil || !sample(h.opts.MintEvery, &h.mintCtr) {
		return
	}
	h.l.Debug("depcache.versions_minted", "count", count)
}

func (h *Hooks) TagsInvalidated(count int) {
	if h.l == nil {
		return
	}
	h.l.Info("depcache.tags_invalidated", "count", count)
}

func (h *Hooks) ProviderSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("depcache.provider_set_rejected", "key", h.redact(storageKey))
}

func (h *Hooks) TagStoreError(op string, count int, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("depcache.tag_store_error",
		"op", op,
		"count", count,
		"err", err)
}
