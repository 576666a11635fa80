// Package metrics wires the passivation engine's observable events
// (evictions, buffer drops, sweep duration, active-entity counts) into
// Prometheus. Every consumer depends on the small interfaces defined
// in internal/shard and internal/passivation, not on this package
// directly, so a caller that does not want a live registry can use
// Noop instead.
package metrics
