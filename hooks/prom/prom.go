// Package prom counts depcache hook events with Prometheus.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/depcache"
)

type Hooks struct {
	rejected    *prometheus.CounterVec
	minted      prometheus.Counter
	invalidated prometheus.Counter
	setRejected prometheus.Counter
	storeErrors *prometheus.CounterVec
}

var _ depcache.Hooks = (*Hooks)(nil)

// New creates the counters under namespace (e.g. "myapp") and registers them
// with reg. Metric names start with <namespace>_depcache_.
func New(reg prometheus.Registerer, namespace string) (*Hooks, error) {
	h := &Hooks{
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "depcache",
			Name:      "entries_rejected_total",
			Help:      "Entries found in the store but not returned, by reason.",
		}, []string{"reason"}),
		minted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "depcache",
			Name:      "versions_minted_total",
			Help:      "Tag versions created on first use.",
		}),
		invalidated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "depcache",
			Name:      "tags_invalidated_total",
			Help:      "Tags whose version was bumped by Invalidate.",
		}),
		setRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "depcache",
			Name:      "provider_set_rejected_total",
			Help:      "Entry writes refused by the provider.",
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "depcache",
			Name:      "tag_store_errors_total",
			Help:      "Failed tag store calls, by operation.",
		}, []string{"op"}),
	}

	for _, c := range []prometheus.Collector{h.rejected, h.minted, h.invalidated, h.setRejected, h.storeErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *Hooks) EntryRejected(_ string, reason string) { h.rejected.WithLabelValues(reason).Inc() }
func (h *Hooks) VersionsMinted(count int)              { h.minted.Add(float64(count)) }
func (h *Hooks) TagsInvalidated(count int)             { h.invalidated.Add(float64(count)) }
func (h *Hooks) ProviderSetRejected(string)            { h.setRejected.Inc() }
func (h *Hooks) TagStoreError(op string, _ int, _ error) {
	h.storeErrors.WithLabelValues(op).Inc()
}
