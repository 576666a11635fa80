package strategy

import (
	"sort"
	"sync"
	"time"

	"github.com/dreamware/passivation/internal/recency"
)

// LRU passivates least-recently-used entities to keep the total active
// count across all currently hosted shards within TotalLimit. The
// per-shard share is recomputed on every membership change:
//
//	perShardLimit = max(1, floor(totalLimit / |activeShards|))
type LRU struct {
	totalLimit int

	mu     sync.Mutex
	active map[ShardID]struct{}
	shards map[ShardID]*recency.Index
}

// NewLRU returns an LRU strategy with the given total active-entity
// budget. totalLimit must be positive; internal/config validates this
// before construction.
func NewLRU(totalLimit int) *LRU {
	return &LRU{
		totalLimit: totalLimit,
		active:     make(map[ShardID]struct{}),
		shards:     make(map[ShardID]*recency.Index),
	}
}

func (*LRU) Name() string { return "least-recently-used" }

// PerShardLimit returns the current per-shard cap given the number of
// currently hosted shards.
func (s *LRU) PerShardLimit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limitLocked()
}

func (s *LRU) limitLocked() int {
	n := len(s.active)
	if n == 0 {
		return s.totalLimit
	}
	limit := s.totalLimit / n
	if limit < 1 {
		limit = 1
	}
	return limit
}

func (s *LRU) OnAccess(shard ShardID, id EntityID, now time.Time) []Intent {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(shard)
	idx.Touch(string(id))
	return s.evictLocked(shard, idx)
}

func (s *LRU) OnCreate(shard ShardID, id EntityID, now time.Time) []Intent {
	return s.OnAccess(shard, id, now)
}

func (s *LRU) OnStop(shard ShardID, id EntityID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx, ok := s.shards[shard]; ok {
		idx.Remove(string(id))
	}
}

func (s *LRU) OnShardActivated(shard ShardID, now time.Time) []Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[shard] = struct{}{}
	s.indexLocked(shard)
	return s.rebalanceLocked()
}

func (s *LRU) OnShardDeactivated(shard ShardID, now time.Time) []Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, shard)
	delete(s.shards, shard)
	return s.rebalanceLocked()
}

// evictLocked drains idx down to the current per-shard limit, oldest
// first.
func (s *LRU) evictLocked(shard ShardID, idx *recency.Index) []Intent {
	limit := s.limitLocked()
	var intents []Intent
	for idx.Size() > limit {
		victim, ok := idx.LeastRecent()
		if !ok {
			break
		}
		idx.Remove(victim)
		intents = append(intents, Intent{Shard: shard, ID: EntityID(victim), Reason: "lru"})
	}
	return intents
}

// rebalanceLocked recomputes the limit and evicts across every hosted
// shard until each is within it, oldest first per shard. Shards are
// visited in a fixed (sorted) order so the resulting intent sequence is
// deterministic for a given membership snapshot. Only within-shard
// eviction order is contractual; cross-shard order is not.
func (s *LRU) rebalanceLocked() []Intent {
	shards := make([]ShardID, 0, len(s.shards))
	for shard := range s.shards {
		shards = append(shards, shard)
	}
	sort.Slice(shards, func(i, j int) bool { return shards[i] < shards[j] })

	var intents []Intent
	for _, shard := range shards {
		intents = append(intents, s.evictLocked(shard, s.shards[shard])...)
	}
	return intents
}

func (s *LRU) indexLocked(shard ShardID) *recency.Index {
	idx, ok := s.shards[shard]
	if !ok {
		idx = recency.New()
		s.shards[shard] = idx
	}
	return idx
}
