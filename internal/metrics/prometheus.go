package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dreamware/passivation/internal/strategy"
)

// Recorder implements the shard.Metrics and passivation.Metrics
// interfaces against a Prometheus registry.
type Recorder struct {
	activeEntities *prometheus.GaugeVec
	evictions      *prometheus.CounterVec
	bufferDrops    *prometheus.CounterVec
	sweepDuration  prometheus.Histogram
}

// NewRecorder builds a Recorder and registers its collectors on reg.
// Passing prometheus.NewRegistry() keeps the engine's metrics isolated
// from the default global registry, which matters for tests that
// construct more than one Recorder in the same process.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		activeEntities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "passivation",
			Name:      "active_entities",
			Help:      "Number of entities currently Active on a shard.",
		}, []string{"shard"}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "passivation",
			Name:      "evictions_total",
			Help:      "Total entities passivated, by shard and reason.",
		}, []string{"shard", "reason"}),
		bufferDrops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "passivation",
			Name:      "buffer_drops_total",
			Help:      "Total buffered messages dropped for overflowing an entity's per-entity buffer.",
		}, []string{"shard"}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "passivation",
			Name:      "sweep_duration_seconds",
			Help:      "Wall time spent scanning idle trackers during one sweep.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(r.activeEntities, r.evictions, r.bufferDrops, r.sweepDuration)
	return r
}

// RecordEviction implements shard.Metrics.
func (r *Recorder) RecordEviction(shard strategy.ShardID, reason string) {
	r.evictions.WithLabelValues(string(shard), reason).Inc()
}

// RecordBufferDrop implements shard.Metrics.
func (r *Recorder) RecordBufferDrop(shard strategy.ShardID) {
	r.bufferDrops.WithLabelValues(string(shard)).Inc()
}

// RecordSweepDuration implements passivation.Metrics.
func (r *Recorder) RecordSweepDuration(d time.Duration) {
	r.sweepDuration.Observe(d.Seconds())
}

// SetActiveEntities implements passivation.Metrics.
func (r *Recorder) SetActiveEntities(shard strategy.ShardID, n int) {
	r.activeEntities.WithLabelValues(string(shard)).Set(float64(n))
}

// Noop discards every metric. Useful for tests and for configurations
// that don't want Prometheus wired in.
type Noop struct{}

func (Noop) RecordEviction(strategy.ShardID, string) {}
func (Noop) RecordBufferDrop(strategy.ShardID)       {}
func (Noop) RecordSweepDuration(time.Duration)       {}
func (Noop) SetActiveEntities(strategy.ShardID, int) {}
