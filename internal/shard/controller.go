package shard

import (
	"sort"
	"sync"
	"time"

	"github.com/dreamware/passivation/internal/clock"
	"github.com/dreamware/passivation/internal/incarnation"
	"github.com/dreamware/passivation/internal/logging"
	"github.com/dreamware/passivation/internal/strategy"
)

// ShardID and EntityID are shared with the strategy package: the
// controller and the strategies it drives must agree on identity.
type (
	ShardID  = strategy.ShardID
	EntityID = strategy.EntityID
)

// State is where one entity sits in the passivation handshake.
type State int

const (
	// StateActive means the entity is routable: messages reach its
	// worker directly.
	StateActive State = iota
	// StatePassivating means a stop signal has been sent and the
	// controller is waiting for either a termination ack or the
	// handoff timer to expire. Messages are buffered, not delivered.
	StatePassivating
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePassivating:
		return "passivating"
	default:
		return "unknown"
	}
}

// StopSignal is the default terminal payload delivered to a worker
// being passivated by policy (eviction or idle timeout). A worker
// passivating itself supplies its own payload instead.
type StopSignal struct{}

// Worker is the minimal contract a shard controller needs from an
// entity's runtime representation. Applications own the concrete
// worker type (an actor, a goroutine, a struct wrapping business
// state); the controller only needs to hand it messages and tell it
// to stop.
type Worker interface {
	// Deliver hands one application message to the worker. It must
	// not block waiting on the worker's own processing, and it must
	// not call back into the owning Controller synchronously: Deliver
	// runs with the Controller's internal lock held, and Passivate or
	// Terminated would deadlock trying to re-acquire it. A worker that
	// decides to passivate itself in response to a message must hand
	// that call off to its own goroutine.
	Deliver(msg any)
	// Stop delivers the terminal stop signal. The worker is expected
	// to finish in-flight work and then report back via the
	// Controller's Terminated method, off its own goroutine for the
	// same reentrancy reason as Deliver.
	Stop(msg any)
}

// Recorder is the passivation manager's view as seen from one shard:
// every inbound event is recorded against the configured strategy,
// which may respond with intents to apply.
type Recorder interface {
	RecordAccess(shard ShardID, id EntityID, now time.Time) ([]strategy.Intent, error)
	RecordCreate(shard ShardID, id EntityID, now time.Time) ([]strategy.Intent, error)
	RecordStop(shard ShardID, id EntityID)
}

// Metrics is the narrow slice of observability the controller emits.
// A nil Metrics is not valid; use metrics.Noop{} in tests and
// configurations that don't want Prometheus wired in.
type Metrics interface {
	RecordEviction(shard ShardID, reason string)
	RecordBufferDrop(shard ShardID)
	SetActiveEntities(shard ShardID, n int)
}

type bufferedMessage struct {
	payload     any
	correlation incarnation.CorrelationID
}

type entityRecord struct {
	incarnation incarnation.ID
	worker      Worker
	state       State
	buffer      []bufferedMessage
	handoffDone chan struct{}
	stopOnce    sync.Once
}

// Config bundles a Controller's fixed dependencies.
type Config struct {
	Shard          ShardID
	Clock          clock.Clock
	Spawn          func(id EntityID) Worker
	Recorder       Recorder
	Metrics        Metrics
	Logger         logging.Logger
	BufferSize     int
	HandOffTimeout time.Duration
}

// Controller is the single owner of one shard's entity lifecycle
// state: which entities are active, which are mid handshake, and what
// has been buffered for each while it waits.
type Controller struct {
	shard          ShardID
	clock          clock.Clock
	spawn          func(id EntityID) Worker
	recorder       Recorder
	metrics        Metrics
	logger         logging.Logger
	bufferSize     int
	handOffTimeout time.Duration

	mu       sync.Mutex
	entities map[EntityID]*entityRecord
}

// New constructs a Controller for one shard. cfg.BufferSize and
// cfg.HandOffTimeout must be positive; internal/config validates this
// before a Controller is built.
func New(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Noop{}
	}
	return &Controller{
		shard:          cfg.Shard,
		clock:          cfg.Clock,
		spawn:          cfg.Spawn,
		recorder:       cfg.Recorder,
		metrics:        cfg.Metrics,
		logger:         logger,
		bufferSize:     cfg.BufferSize,
		handOffTimeout: cfg.HandOffTimeout,
		entities:       make(map[EntityID]*entityRecord),
	}
}

// Shard returns the shard id this controller owns.
func (c *Controller) Shard() ShardID { return c.shard }

// Deliver routes one message to id, activating it first if it has no
// current worker. If id is mid handshake the message is buffered
// instead of delivered.
func (c *Controller) Deliver(id EntityID, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deliverLocked(id, payload)
}

func (c *Controller) deliverLocked(id EntityID, payload any) {
	now := c.clock.Now()
	rec, exists := c.entities[id]

	var intents []strategy.Intent
	var err error
	if !exists {
		rec = c.activateLocked(id)
		intents, err = c.recorder.RecordCreate(c.shard, id, now)
	} else {
		intents, err = c.recorder.RecordAccess(c.shard, id, now)
	}
	if err != nil {
		c.logger.Warnf("passivation: record event for %s/%s dropped: %v", c.shard, id, err)
	} else {
		c.applyIntentsLocked(intents)
	}

	// Applying intents may have passivated id itself (passivateLocked
	// turns an Active target Passivating and is a no-op on one that is
	// already Passivating), so re-fetch to see the state as it stands
	// now rather than as it stood on entry.
	rec = c.entities[id]
	if rec == nil {
		return
	}
	switch rec.state {
	case StateActive:
		rec.worker.Deliver(payload)
	case StatePassivating:
		c.bufferLocked(rec, id, payload)
	}
	c.reportActiveLocked()
}

// reportActiveLocked publishes the current count of Active entities on
// this shard, mirroring what SnapshotActive would return.
func (c *Controller) reportActiveLocked() {
	n := 0
	for _, rec := range c.entities {
		if rec.state == StateActive {
			n++
		}
	}
	c.metrics.SetActiveEntities(c.shard, n)
}

func (c *Controller) activateLocked(id EntityID) *entityRecord {
	rec := &entityRecord{
		incarnation: incarnation.New(),
		worker:      c.spawn(id),
		state:       StateActive,
	}
	c.entities[id] = rec
	return rec
}

// ApplyIntent passivates the entity named by intent, using intent.Reason
// as the eviction reason recorded in metrics. It is the entry point for
// intents the Manager dispatches from OnShardActivated/OnShardDeactivated
// rebalances and from a Sweeper's periodic scan, which may target any
// shard, not just the one whose controller applies them locally.
func (c *Controller) ApplyIntent(intent strategy.Intent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyIntentsLocked([]strategy.Intent{intent})
}

// applyIntentsLocked passivates every intent target hosted on this
// shard. Intents naming an entity that is absent or already
// Passivating are silently skipped, since the underlying strategy call
// already fired and nothing further needs to happen.
func (c *Controller) applyIntentsLocked(intents []strategy.Intent) {
	for _, intent := range intents {
		if intent.Shard != c.shard {
			c.logger.Warnf("passivation: strategy returned cross-shard intent for %s from shard %s, ignoring", intent.Shard, c.shard)
			continue
		}
		c.passivateLocked(intent.ID, StopSignal{}, intent.Reason)
	}
}

func (c *Controller) bufferLocked(rec *entityRecord, id EntityID, payload any) {
	msg := bufferedMessage{payload: payload, correlation: incarnation.NewCorrelation()}
	if len(rec.buffer) >= c.bufferSize {
		dropped := rec.buffer[0]
		rec.buffer = rec.buffer[1:]
		c.logger.Warnf("passivation: buffer full for %s/%s, dropping oldest message (correlation=%s)", c.shard, id, dropped.correlation)
		c.metrics.RecordBufferDrop(c.shard)
	}
	rec.buffer = append(rec.buffer, msg)
}

// Passivate begins the stop handshake for id on its own request. stopMsg
// is delivered to the worker as its terminal payload, replacing the
// default StopSignal a policy-driven eviction would use.
func (c *Controller) Passivate(id EntityID, stopMsg any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.passivateLocked(id, stopMsg, "self")
}

func (c *Controller) passivateLocked(id EntityID, stopMsg any, reason string) {
	rec, ok := c.entities[id]
	if !ok || rec.state != StateActive {
		return
	}
	rec.state = StatePassivating
	rec.worker.Stop(stopMsg)
	c.startHandoffLocked(id, rec)
	c.metrics.RecordEviction(c.shard, reason)
	c.reportActiveLocked()
}

func (c *Controller) startHandoffLocked(id EntityID, rec *entityRecord) {
	timer := c.clock.NewTimer(c.handOffTimeout)
	done := make(chan struct{})
	rec.handoffDone = done

	go func() {
		select {
		case <-timer.C():
			c.mu.Lock()
			defer c.mu.Unlock()
			cur, ok := c.entities[id]
			if !ok || cur != rec || cur.state != StatePassivating {
				return
			}
			c.logger.Warnf("passivation: handoff timeout for %s/%s, force-terminating", c.shard, id)
			c.finishStopLocked(id)
		case <-done:
			clock.StopAndDrain(timer)
		}
	}()
}

// Terminated is the worker's acknowledgement that it has finished
// draining after a Stop. Calling it for an entity that is not
// currently Passivating is an invalid transition (logged and
// ignored); the finish is idempotent so a late-arriving ack racing the
// handoff timer never double-processes.
func (c *Controller) Terminated(id EntityID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.entities[id]
	if !ok || rec.state != StatePassivating {
		c.logger.Warnf("passivation: Terminated received for %s/%s outside Passivating, ignoring", c.shard, id)
		return
	}
	c.finishStopLocked(id)
}

// finishStopLocked completes a handshake that resolved while the shard
// stays hosted: it removes id, records the stop, and replays anything
// buffered for it as fresh Deliver calls (each will re-activate a new
// worker and incarnation for id).
func (c *Controller) finishStopLocked(id EntityID) {
	rec, ok := c.entities[id]
	if !ok {
		return
	}
	rec.stopOnce.Do(func() {
		if rec.handoffDone != nil {
			close(rec.handoffDone)
		}
	})
	delete(c.entities, id)
	c.recorder.RecordStop(c.shard, id)

	buffered := rec.buffer
	rec.buffer = nil
	for _, msg := range buffered {
		c.deliverLocked(id, msg.payload)
	}
	c.reportActiveLocked()
}

// forceStopLocked tears an entity down without replaying its buffer,
// used only when the shard itself is being deactivated and there is
// nowhere left to redeliver buffered messages.
func (c *Controller) forceStopLocked(id EntityID) {
	rec, ok := c.entities[id]
	if !ok {
		return
	}
	rec.stopOnce.Do(func() {
		if rec.handoffDone != nil {
			close(rec.handoffDone)
		}
	})
	delete(c.entities, id)
	c.recorder.RecordStop(c.shard, id)
	if n := len(rec.buffer); n > 0 {
		c.logger.Warnf("passivation: dropping %d buffered message(s) for %s/%s on shard deactivation", n, c.shard, id)
	}
}

// Deactivate stops every entity this controller hosts, cancels any
// pending handoff timers, and discards buffered messages. Call this
// once, when the shard is removed from the hosting node, before
// discarding the Controller itself.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, rec := range c.entities {
		if rec.state == StateActive {
			rec.worker.Stop(StopSignal{})
		}
		c.forceStopLocked(id)
	}
	c.reportActiveLocked()
}

// SnapshotActive returns the ids of every entity currently Active, in
// sorted order.
func (c *Controller) SnapshotActive() []EntityID {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]EntityID, 0, len(c.entities))
	for id, rec := range c.entities {
		if rec.state == StateActive {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// State reports the current state of id, and whether it is hosted at
// all.
func (c *Controller) State(id EntityID) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.entities[id]
	if !ok {
		return 0, false
	}
	return rec.state, true
}

// Incarnation reports the current worker incarnation id for id, and
// whether it is hosted at all. The id changes every time id is
// reactivated behind a fresh worker, so comparing two readings across
// a passivation cycle is how a caller confirms the later worker is a
// distinct instance rather than the retired one.
func (c *Controller) Incarnation(id EntityID) (incarnation.ID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.entities[id]
	if !ok {
		return "", false
	}
	return rec.incarnation, true
}

// BufferLen reports how many messages are currently buffered for id.
// Returns 0 for an unknown or Active entity.
func (c *Controller) BufferLen(id EntityID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.entities[id]
	if !ok {
		return 0
	}
	return len(rec.buffer)
}
