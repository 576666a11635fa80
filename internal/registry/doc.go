// Package registry implements the Active-Shard Registry: the set of
// shards currently hosted on this node. It is the only mutable
// structure shared across shard controllers, guarded by its own
// RWMutex so administrative queries (GetShardState-style listings) can
// run concurrently with registration changes.
package registry
