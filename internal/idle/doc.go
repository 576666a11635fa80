// Package idle implements the Idle Tracker: a per-shard map from
// EntityId to its last-touch timestamp, supporting a bulk scan for
// entries older than a threshold. It backs the Idle strategy's sweep.
package idle
