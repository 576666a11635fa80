package clock

import "time"

// Clock is the monotonic time source used by the passivation engine.
// All timestamps recorded by the Idle Tracker are obtained through a
// Clock so tests can substitute a fake one.
type Clock interface {
	// Now returns the current monotonic time.
	Now() time.Time

	// NewTicker returns a ticker that fires every d. Callers must call
	// Stop on the returned Ticker when done with it.
	NewTicker(d time.Duration) Ticker

	// NewTimer returns a one-shot timer firing after d.
	NewTimer(d time.Duration) Timer
}

// Ticker mirrors the subset of time.Ticker the engine needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Timer mirrors the subset of time.Timer the engine needs.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
	Reset(d time.Duration) bool
}

// System is the real Clock backed by the time package.
type System struct{}

// New returns the real, wall-clock-backed Clock implementation.
func New() Clock { return System{} }

func (System) Now() time.Time { return time.Now() }

func (System) NewTicker(d time.Duration) Ticker {
	return &systemTicker{t: time.NewTicker(d)}
}

func (System) NewTimer(d time.Duration) Timer {
	return &systemTimer{t: time.NewTimer(d)}
}

type systemTicker struct{ t *time.Ticker }

func (s *systemTicker) C() <-chan time.Time { return s.t.C }
func (s *systemTicker) Stop()               { s.t.Stop() }

type systemTimer struct{ t *time.Timer }

func (s *systemTimer) C() <-chan time.Time         { return s.t.C }
func (s *systemTimer) Stop() bool                  { return s.t.Stop() }
func (s *systemTimer) Reset(d time.Duration) bool  { return s.t.Reset(d) }

// StopAndDrain stops a timer and drains its channel if it already
// fired, so the timer can be safely reused without a stray tick landing
// on a later select. Mirrors the standard library's own recommended
// pattern for reusing timers.
func StopAndDrain(t Timer) {
	if t == nil {
		return
	}
	if !t.Stop() {
		select {
		case <-t.C():
		default:
		}
	}
}
