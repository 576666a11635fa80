package clock

import (
	"sync"
	"time"
)

// Fake is a manually-advanced Clock for deterministic tests. Zero value
// is not usable; construct with NewFake.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
	timers  []*fakeTimer
}

// NewFake returns a Fake clock starting at t.
func NewFake(t time.Time) *Fake {
	return &Fake{now: t}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the fake clock forward by d, firing any tickers/timers
// whose deadline has passed. Fires are delivered on buffered channels so
// Advance never blocks on a slow consumer.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)

	for _, t := range f.tickers {
		for !t.next.After(f.now) {
			select {
			case t.ch <- f.now:
			default:
			}
			t.next = t.next.Add(t.period)
		}
	}
	for _, t := range f.timers {
		if t.fired || t.next.After(f.now) {
			continue
		}
		select {
		case t.ch <- f.now:
		default:
		}
		t.fired = true
	}
}

func (f *Fake) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time, 1), next: f.now.Add(d), period: d, owner: f}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *Fake) NewTimer(d time.Duration) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{ch: make(chan time.Time, 1), next: f.now.Add(d), owner: f}
	f.timers = append(f.timers, t)
	return t
}

type fakeTicker struct {
	ch     chan time.Time
	next   time.Time
	period time.Duration
	owner  *Fake
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	for i, other := range t.owner.tickers {
		if other == t {
			t.owner.tickers = append(t.owner.tickers[:i], t.owner.tickers[i+1:]...)
			return
		}
	}
}

type fakeTimer struct {
	ch    chan time.Time
	next  time.Time
	fired bool
	owner *Fake
}

func (t *fakeTimer) C() <-chan time.Time { return t.ch }

func (t *fakeTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	fired := t.fired
	for i, other := range t.owner.timers {
		if other == t {
			t.owner.timers = append(t.owner.timers[:i], t.owner.timers[i+1:]...)
			break
		}
	}
	return !fired
}

func (t *fakeTimer) Reset(d time.Duration) bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	active := !t.fired
	t.fired = false
	t.next = t.owner.now.Add(d)
	found := false
	for _, other := range t.owner.timers {
		if other == t {
			found = true
			break
		}
	}
	if !found {
		t.owner.timers = append(t.owner.timers, t)
	}
	return active
}
