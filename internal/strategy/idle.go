package strategy

import (
	"sync"
	"time"

	"github.com/dreamware/passivation/internal/idle"
)

// Sweeper is implemented by strategies that need a periodic sweep
// (currently only Idle) to convert elapsed time into intents, since
// nothing else drives them absent new traffic.
type Sweeper interface {
	// Sweep scans every hosted shard's Idle Tracker and returns an
	// intent for every entity idle for at least the configured
	// timeout as of now.
	Sweep(now time.Time) []Intent
}

// Idle passivates an entity once it has gone Timeout without a touch.
// The "last touched" instant is when the shard controller begins
// dispatching a message, not when the worker finishes handling it, so
// timeliness does not depend on worker latency.
type Idle struct {
	timeout time.Duration

	mu       sync.Mutex
	trackers map[ShardID]*idle.Tracker
}

// NewIdle returns an Idle strategy with the given timeout. timeout must
// be positive; internal/config validates this before construction.
func NewIdle(timeout time.Duration) *Idle {
	return &Idle{timeout: timeout, trackers: make(map[ShardID]*idle.Tracker)}
}

// Timeout returns the configured idle timeout.
func (s *Idle) Timeout() time.Duration { return s.timeout }

func (*Idle) Name() string { return "idle" }

func (s *Idle) OnAccess(shard ShardID, id EntityID, now time.Time) []Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackerLocked(shard).Touch(string(id), now)
	return nil
}

func (s *Idle) OnCreate(shard ShardID, id EntityID, now time.Time) []Intent {
	return s.OnAccess(shard, id, now)
}

func (s *Idle) OnStop(shard ShardID, id EntityID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tr, ok := s.trackers[shard]; ok {
		tr.Remove(string(id))
	}
}

func (s *Idle) OnShardActivated(shard ShardID, now time.Time) []Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackerLocked(shard)
	return nil
}

func (s *Idle) OnShardDeactivated(shard ShardID, now time.Time) []Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trackers, shard)
	return nil
}

// Sweep implements Sweeper. Entities found idle are dropped from the
// tracker as their intent is emitted: once passivation has been
// decided the entity is no longer Active from the strategy's point of
// view, so it must not be re-emitted on the next tick while the
// handshake is in flight.
func (s *Idle) Sweep(now time.Time) []Intent {
	s.mu.Lock()
	defer s.mu.Unlock()

	var intents []Intent
	for shard, tr := range s.trackers {
		for _, id := range tr.OlderThan(now, s.timeout) {
			tr.Remove(id)
			intents = append(intents, Intent{Shard: shard, ID: EntityID(id), Reason: "idle"})
		}
	}
	return intents
}

func (s *Idle) trackerLocked(shard ShardID) *idle.Tracker {
	tr, ok := s.trackers[shard]
	if !ok {
		tr = idle.New()
		s.trackers[shard] = tr
	}
	return tr
}
