package registry

import (
	"sort"
	"sync"

	"github.com/dreamware/passivation/internal/strategy"
)

// ActiveShardRegistry tracks which shards are currently hosted on this
// node. Membership changes retune the LeastRecentlyUsed strategy's
// per-shard limits; under None/Idle it is used only to reject events
// for shards that were never registered.
//
// Thread Safety: safe for concurrent use. Reads use RLock; writes use
// Lock. The Manager additionally wraps Add/Remove in its own node-wide
// mutex so registry mutation and strategy rebalancing happen as one
// atomic step (see internal/passivation).
type ActiveShardRegistry struct {
	mu     sync.RWMutex
	shards map[strategy.ShardID]struct{}
}

// New returns an empty ActiveShardRegistry.
func New() *ActiveShardRegistry {
	return &ActiveShardRegistry{shards: make(map[strategy.ShardID]struct{})}
}

// Add registers shard as hosted. Returns false if it was already
// registered (idempotent, not an error).
func (r *ActiveShardRegistry) Add(shard strategy.ShardID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shards[shard]; ok {
		return false
	}
	r.shards[shard] = struct{}{}
	return true
}

// Remove unregisters shard. Returns false if it was not registered.
func (r *ActiveShardRegistry) Remove(shard strategy.ShardID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shards[shard]; !ok {
		return false
	}
	delete(r.shards, shard)
	return true
}

// Contains reports whether shard is currently hosted.
func (r *ActiveShardRegistry) Contains(shard strategy.ShardID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.shards[shard]
	return ok
}

// Count returns the number of currently hosted shards.
func (r *ActiveShardRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shards)
}

// Snapshot returns all currently hosted shard ids, sorted for
// deterministic output (administrative queries, tests).
func (r *ActiveShardRegistry) Snapshot() []strategy.ShardID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]strategy.ShardID, 0, len(r.shards))
	for s := range r.shards {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
