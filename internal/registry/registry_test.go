package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dreamware/passivation/internal/strategy"
)

func TestAddAndContains(t *testing.T) {
	r := New()
	assert.False(t, r.Contains("s1"))

	added := r.Add("s1")
	assert.True(t, added)
	assert.True(t, r.Contains("s1"))

	addedAgain := r.Add("s1")
	assert.False(t, addedAgain, "re-adding an already-hosted shard is idempotent")
	assert.Equal(t, 1, r.Count())
}

func TestRemove(t *testing.T) {
	r := New()
	r.Add("s1")

	assert.True(t, r.Remove("s1"))
	assert.False(t, r.Contains("s1"))
	assert.False(t, r.Remove("s1"), "removing an absent shard reports false")
}

func TestSnapshotIsSortedAndCopy(t *testing.T) {
	r := New()
	r.Add("s3")
	r.Add("s1")
	r.Add("s2")

	snap := r.Snapshot()
	assert.Equal(t, []strategy.ShardID{"s1", "s2", "s3"}, snap)

	r.Add("s4")
	assert.Len(t, snap, 3, "earlier snapshot must not observe later mutation")
}

func TestConcurrentAccess(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			shard := strategy.ShardID(string(rune('a' + n%26)))
			r.Add(shard)
			r.Contains(shard)
			r.Snapshot()
			r.Count()
		}(i)
	}
	wg.Wait()
}
