package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEvictionIncrementsLabeledCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.RecordEviction("shard-1", "idle")
	r.RecordEviction("shard-1", "idle")
	r.RecordEviction("shard-1", "policy")

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)
	assert.Equal(t, float64(3), sumCounter(t, metricFamilies, "passivation_evictions_total"))
}

func TestSetActiveEntitiesReportsGaugeValue(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.SetActiveEntities("shard-1", 7)

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)
	assert.Equal(t, float64(7), sumGauge(t, metricFamilies, "passivation_active_entities"))
}

func TestRecordSweepDurationObserves(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.RecordSweepDuration(50 * time.Millisecond)

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range metricFamilies {
		if mf.GetName() != "passivation_sweep_duration_seconds" {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		assert.Equal(t, uint64(1), mf.GetMetric()[0].GetHistogram().GetSampleCount())
	}
}

func TestNoopSatisfiesInterfacesWithoutPanicking(t *testing.T) {
	var n Noop
	assert.NotPanics(t, func() {
		n.RecordEviction("s", "reason")
		n.RecordBufferDrop("s")
		n.RecordSweepDuration(time.Second)
		n.SetActiveEntities("s", 1)
	})
}

func sumCounter(t *testing.T, families []*dto.MetricFamily, name string) float64 {
	t.Helper()
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func sumGauge(t *testing.T, families []*dto.MetricFamily, name string) float64 {
	t.Helper()
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetGauge().GetValue()
		}
	}
	return total
}
