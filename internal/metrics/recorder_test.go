package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorderIsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncModeChange("dark", "cli")
	r.IncTrigger("content-changed")
	r.IncResolverOutcome(ResolverDefault)
	r.ObserveStoreOp("load", time.Millisecond, true)
	r.ObserveApplyDuration(time.Millisecond)
}

func TestPrometheusRecorderRegistersAndCounts(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncModeChange("dark", "schedule")
	r.IncModeChange("dark", "schedule")
	r.IncTrigger("system-scheme")
	r.IncResolverOutcome(ResolverSystem)
	r.ObserveStoreOp("persist", 2*time.Millisecond, true)
	r.ObserveStoreOp("load", time.Millisecond, false)
	r.ObserveApplyDuration(time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["themesync_mode_changes_total"])
	assert.True(t, names["themesync_triggers_total"])
	assert.True(t, names["themesync_resolver_outcomes_total"])
	assert.True(t, names["themesync_store_op_duration_seconds"])
	assert.True(t, names["themesync_apply_duration_seconds"])
}

func TestPrometheusRecorderNilSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.IncModeChange("dark", "cli")
	r.ObserveApplyDuration(time.Millisecond)
}
