package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryHandlerExposesSnapshotMetrics(t *testing.T) {
	reg := NewRegistry()
	reg.SnapshotLoads.Inc()
	reg.LoadFailures.WithLabelValues("empty_source").Inc()
	reg.SnapshotSize.Set(42)
	reg.LoadDurationSec.Observe(0.01)

	srv := httptest.NewServer(reg.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, "markets_snapshot_loads_total 1")
	assert.Contains(t, text, `markets_snapshot_load_failures_total{kind="empty_source"} 1`)
	assert.Contains(t, text, "markets_snapshot_size 42")
	assert.Contains(t, text, "markets_snapshot_load_seconds_count 1")
}
