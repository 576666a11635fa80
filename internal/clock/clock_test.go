package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemClockNow(t *testing.T) {
	c := New()
	before := time.Now()
	got := c.Now()
	after := time.Now()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}

func TestFakeClockAdvanceFiresTicker(t *testing.T) {
	start := time.Unix(0, 0)
	f := NewFake(start)

	ticker := f.NewTicker(time.Second)
	defer ticker.Stop()

	select {
	case <-ticker.C():
		t.Fatal("ticker fired before any advance")
	default:
	}

	f.Advance(1500 * time.Millisecond)

	select {
	case tick := <-ticker.C():
		assert.Equal(t, start.Add(1500*time.Millisecond), tick)
	default:
		t.Fatal("expected ticker to have fired")
	}
}

func TestFakeClockAdvanceFiresTimerOnce(t *testing.T) {
	start := time.Unix(0, 0)
	f := NewFake(start)

	timer := f.NewTimer(time.Second)

	f.Advance(2 * time.Second)
	require.Len(t, timer.C(), 1)
	<-timer.C()

	f.Advance(2 * time.Second)
	assert.Len(t, timer.C(), 0, "one-shot timer must not fire twice")
}

func TestFakeClockTimerResetReactivates(t *testing.T) {
	start := time.Unix(0, 0)
	f := NewFake(start)

	timer := f.NewTimer(time.Second)
	f.Advance(2 * time.Second)
	<-timer.C()

	active := timer.Reset(time.Second)
	assert.False(t, active, "Reset on an already-fired timer reports inactive")

	f.Advance(2 * time.Second)
	require.Len(t, timer.C(), 1)
}

func TestStopAndDrainHandlesNilAndFired(t *testing.T) {
	StopAndDrain(nil)

	start := time.Unix(0, 0)
	f := NewFake(start)
	timer := f.NewTimer(time.Second)
	f.Advance(time.Second)

	StopAndDrain(timer)
	assert.Len(t, timer.C(), 0)
}
