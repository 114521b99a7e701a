package prom

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := New(reg, "app")
	require.NoError(t, err)

	h.EntryRejected("k", "stale")
	h.EntryRejected("k", "stale")
	h.EntryRejected("k", "corrupt")
	h.VersionsMinted(3)
	h.TagsInvalidated(2)
	h.ProviderSetRejected("k")
	h.TagStoreError("touch", 1, errors.New("x"))

	assert.Equal(t, 2.0, testutil.ToFloat64(h.rejected.WithLabelValues("stale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.rejected.WithLabelValues("corrupt")))
	assert.Equal(t, 3.0, testutil.ToFloat64(h.minted))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.invalidated))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.setRejected))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.storeErrors.WithLabelValues("touch")))

	n, err := testutil.GatherAndCount(reg, "app_depcache_versions_minted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg, "app")
	require.NoError(t, err)
	_, err = New(reg, "app")
	assert.Error(t, err)
}
