package strategy

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLRUBound verifies that after any sequence of accesses, a shard
// never holds more entities than its current per-shard limit.
func TestLRUBound(t *testing.T) {
	s := NewLRU(10)
	now := time.Unix(0, 0)
	s.OnShardActivated("shard-1", now)

	var evicted []Intent
	for i := 1; i <= 20; i++ {
		id := EntityID(fmt.Sprintf("%d", i))
		evicted = append(evicted, s.OnCreate("shard-1", id, now.Add(time.Duration(i)*time.Millisecond))...)
	}

	require.Len(t, evicted, 10, "ids 11..20 each evict exactly one entity")
	for i, intent := range evicted {
		wantID := EntityID(fmt.Sprintf("%d", i+1))
		assert.Equal(t, wantID, intent.ID, "eviction %d should be the oldest remaining", i)
	}

	assert.Equal(t, 10, s.PerShardLimit())
}

// TestLRUVictimIsOldest verifies the victim is always the
// least-recently-touched entity at the moment of eviction.
func TestLRUVictimIsOldest(t *testing.T) {
	s := NewLRU(2)
	now := time.Unix(0, 0)
	s.OnShardActivated("s", now)

	s.OnCreate("s", "a", now)
	s.OnCreate("s", "b", now.Add(time.Second))
	// touch "a" again so "b" becomes the oldest
	intents := s.OnAccess("s", "a", now.Add(2*time.Second))
	assert.Empty(t, intents, "still within limit")

	intents = s.OnCreate("s", "c", now.Add(3*time.Second))
	require.Len(t, intents, 1)
	assert.Equal(t, EntityID("b"), intents[0].ID, "b was least-recently touched")
}

// TestLRURebalanceOnShardActivation verifies that activating a shard
// when the hosted-shard count grows from n to n+1 evicts exactly the
// overflow from every already-hosted shard, oldest first.
func TestLRURebalanceOnShardActivation(t *testing.T) {
	s := NewLRU(10)
	now := time.Unix(0, 0)
	s.OnShardActivated("shard-1", now)

	for i := 1; i <= 10; i++ {
		id := EntityID(fmt.Sprintf("%d", i))
		intents := s.OnCreate("shard-1", id, now.Add(time.Duration(i)*time.Millisecond))
		require.Empty(t, intents)
	}

	// Activating shard-2 halves the per-shard limit to 5.
	intents := s.OnShardActivated("shard-2", now.Add(time.Second))
	require.Len(t, intents, 5)

	want := []EntityID{"1", "2", "3", "4", "5"}
	for i, intent := range intents {
		assert.Equal(t, ShardID("shard-1"), intent.Shard)
		assert.Equal(t, want[i], intent.ID)
	}
	assert.Equal(t, 5, s.PerShardLimit())
}

// TestLRURebalanceOnShardDeactivation verifies the inverse case: when
// a shard leaves the hosted set, remaining shards' limits grow and no
// spurious evictions occur.
func TestLRURebalanceOnShardDeactivation(t *testing.T) {
	s := NewLRU(10)
	now := time.Unix(0, 0)
	s.OnShardActivated("shard-1", now)
	s.OnShardActivated("shard-2", now)

	for i := 1; i <= 5; i++ {
		id := EntityID(fmt.Sprintf("%d", i))
		s.OnCreate("shard-1", id, now)
	}

	intents := s.OnShardDeactivated("shard-2", now)
	assert.Empty(t, intents, "growing the limit never evicts")
	assert.Equal(t, 10, s.PerShardLimit())
}

func TestLRUOnStopRemovesFromIndex(t *testing.T) {
	s := NewLRU(10)
	now := time.Unix(0, 0)
	s.OnShardActivated("s", now)
	s.OnCreate("s", "a", now)

	s.OnStop("s", "a")

	// Recreating "a" should not count against any residual entry.
	intents := s.OnCreate("s", "a", now)
	assert.Empty(t, intents)
}
