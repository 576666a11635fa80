package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIdleBound verifies that no entity remains Active for more than
// timeout plus one sweep tick after its last access. Here "tick" is
// modeled as the caller's own choice of when to call Sweep.
func TestIdleBound(t *testing.T) {
	s := NewIdle(time.Second)
	base := time.Unix(0, 0)
	s.OnShardActivated("s", base)
	s.OnCreate("s", "a", base)

	// Well before the timeout: no intent.
	assert.Empty(t, s.Sweep(base.Add(500*time.Millisecond)))

	// At/after the timeout: intent emitted.
	intents := s.Sweep(base.Add(time.Second))
	require.Len(t, intents, 1)
	assert.Equal(t, EntityID("a"), intents[0].ID)
}

func TestIdleSweepDoesNotRepeatAfterEviction(t *testing.T) {
	s := NewIdle(time.Second)
	base := time.Unix(0, 0)
	s.OnShardActivated("s", base)
	s.OnCreate("s", "a", base)

	first := s.Sweep(base.Add(time.Second))
	require.Len(t, first, 1)

	// Without any further touch, a's entry was dropped from tracking on
	// eviction, so a second sweep must not re-emit it.
	second := s.Sweep(base.Add(2 * time.Second))
	assert.Empty(t, second)
}

func TestIdleTouchResetsDeadline(t *testing.T) {
	s := NewIdle(time.Second)
	base := time.Unix(0, 0)
	s.OnShardActivated("s", base)
	s.OnCreate("s", "a", base)

	s.OnAccess("s", "a", base.Add(700*time.Millisecond))

	// 1s after creation but only 300ms after the refreshing access.
	assert.Empty(t, s.Sweep(base.Add(time.Second)))
	assert.Len(t, s.Sweep(base.Add(1700*time.Millisecond)), 1)
}

func TestIdleOnShardDeactivatedForgetsShard(t *testing.T) {
	s := NewIdle(time.Second)
	base := time.Unix(0, 0)
	s.OnShardActivated("s", base)
	s.OnCreate("s", "a", base)

	s.OnShardDeactivated("s", base)

	assert.Empty(t, s.Sweep(base.Add(time.Hour)))
}

func TestNoneStrategyNeverEmits(t *testing.T) {
	s := NewNone()
	now := time.Unix(0, 0)
	assert.Empty(t, s.OnAccess("s", "a", now))
	assert.Empty(t, s.OnCreate("s", "a", now))
	assert.Empty(t, s.OnShardActivated("s", now))
	assert.Empty(t, s.OnShardDeactivated("s", now))
	assert.Equal(t, "none", s.Name())
}
