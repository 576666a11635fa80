package idle

import "time"

// Tracker maps entity ids to their last-touch timestamp for one shard.
// Not safe for concurrent use; callers serialize access (the Idle
// strategy holds its own mutex around every Tracker call, including
// during a sweep).
type Tracker struct {
	lastTouched map[string]time.Time
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{lastTouched: make(map[string]time.Time)}
}

// Touch records now as the last-touch time for id.
func (t *Tracker) Touch(id string, now time.Time) {
	t.lastTouched[id] = now
}

// Remove drops id from tracking, e.g. once it has been passivated.
func (t *Tracker) Remove(id string) {
	delete(t.lastTouched, id)
}

// LastTouched returns the recorded timestamp for id and whether it is
// tracked at all.
func (t *Tracker) LastTouched(id string) (time.Time, bool) {
	ts, ok := t.lastTouched[id]
	return ts, ok
}

// OlderThan returns every tracked id whose last-touch time is at least
// timeout before now (now.Sub(lastTouched) >= timeout), i.e. entities
// observed idle for a full timeout period as of this instant. Order is
// unspecified since idle passivation only bounds staleness, not
// relative ordering; callers needing a deterministic order may sort
// the result themselves.
func (t *Tracker) OlderThan(now time.Time, timeout time.Duration) []string {
	var stale []string
	for id, ts := range t.lastTouched {
		if now.Sub(ts) >= timeout {
			stale = append(stale, id)
		}
	}
	return stale
}

// Size returns the number of tracked entities.
func (t *Tracker) Size() int {
	return len(t.lastTouched)
}
