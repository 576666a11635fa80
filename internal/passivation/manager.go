package passivation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dreamware/passivation/internal/clock"
	"github.com/dreamware/passivation/internal/logging"
	"github.com/dreamware/passivation/internal/registry"
	"github.com/dreamware/passivation/internal/shard"
	"github.com/dreamware/passivation/internal/strategy"
)

// ErrUnknownShard is returned when an event is recorded against a
// shard that was never registered, or was already unregistered.
var ErrUnknownShard = errors.New("passivation: unknown shard")

// Metrics is the observability surface the Manager and the shard
// controllers it creates report through. SetActiveEntities is inherited
// from shard.Metrics: each Controller reports its own shard's Active
// count directly, since it is the only owner of that state.
type Metrics interface {
	shard.Metrics
	RecordSweepDuration(d time.Duration)
}

// Config bundles a Manager's fixed dependencies.
type Config struct {
	Strategy       strategy.Strategy
	Clock          clock.Clock
	Metrics        Metrics
	Logger         logging.Logger
	BufferSize     int
	HandOffTimeout time.Duration
}

// Manager owns the Strategy and Active-Shard Registry for one node,
// and creates a shard.Controller for every shard it hosts.
type Manager struct {
	strategy       strategy.Strategy
	clock          clock.Clock
	metrics        Metrics
	logger         logging.Logger
	bufferSize     int
	handOffTimeout time.Duration

	registry *registry.ActiveShardRegistry

	mu          sync.Mutex
	controllers map[strategy.ShardID]*shard.Controller

	sweepCancel context.CancelFunc
	sweepWG     sync.WaitGroup
}

// New constructs a Manager. cfg.BufferSize and cfg.HandOffTimeout must
// be positive; internal/config validates this before a Manager is
// built.
func New(cfg Config) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Noop{}
	}
	return &Manager{
		strategy:       cfg.Strategy,
		clock:          cfg.Clock,
		metrics:        cfg.Metrics,
		logger:         logger,
		bufferSize:     cfg.BufferSize,
		handOffTimeout: cfg.HandOffTimeout,
		registry:       registry.New(),
		controllers:    make(map[strategy.ShardID]*shard.Controller),
	}
}

// Register hosts shard on this node: it adds shard to the Active-Shard
// Registry, tells the Strategy about the new membership, applies any
// resulting rebalance intents against already-hosted shards, and
// returns a Controller for it. Registering an already-hosted shard is
// idempotent and returns its existing Controller.
func (m *Manager) Register(id strategy.ShardID, spawn func(strategy.EntityID) shard.Worker) *shard.Controller {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ctrl, ok := m.controllers[id]; ok {
		return ctrl
	}

	ctrl := shard.New(shard.Config{
		Shard:          id,
		Clock:          m.clock,
		Spawn:          spawn,
		Recorder:       m,
		Metrics:        m.metrics,
		Logger:         m.logger,
		BufferSize:     m.bufferSize,
		HandOffTimeout: m.handOffTimeout,
	})
	m.controllers[id] = ctrl
	m.registry.Add(id)

	intents := m.strategy.OnShardActivated(id, m.clock.Now())
	m.applyIntentsLocked(intents)
	return ctrl
}

// Unregister unhosts shard: it removes it from the Active-Shard
// Registry, tells the Strategy, applies any rebalance intents against
// the remaining shards, and finally deactivates the shard's own
// Controller (force-stopping its entities). Unregistering a shard that
// is not hosted is a no-op.
func (m *Manager) Unregister(id strategy.ShardID) {
	m.mu.Lock()
	ctrl, ok := m.controllers[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.controllers, id)
	m.registry.Remove(id)

	intents := m.strategy.OnShardDeactivated(id, m.clock.Now())
	m.applyIntentsLocked(intents)
	m.mu.Unlock()

	ctrl.Deactivate()
}

// applyIntentsLocked dispatches each intent to the Controller for its
// shard. Called with mu held: its callers (Register, Unregister and
// runSweep) all hold it.
func (m *Manager) applyIntentsLocked(intents []strategy.Intent) {
	for _, intent := range intents {
		ctrl, ok := m.controllers[intent.Shard]
		if !ok {
			m.logger.Warnf("passivation: intent for unhosted shard %s, ignoring", intent.Shard)
			continue
		}
		ctrl.ApplyIntent(intent)
	}
}

// RecordAccess implements shard.Recorder.
func (m *Manager) RecordAccess(shardID strategy.ShardID, id strategy.EntityID, now time.Time) ([]strategy.Intent, error) {
	if !m.registry.Contains(shardID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShard, shardID)
	}
	return m.strategy.OnAccess(shardID, id, now), nil
}

// RecordCreate implements shard.Recorder.
func (m *Manager) RecordCreate(shardID strategy.ShardID, id strategy.EntityID, now time.Time) ([]strategy.Intent, error) {
	if !m.registry.Contains(shardID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShard, shardID)
	}
	return m.strategy.OnCreate(shardID, id, now), nil
}

// RecordStop implements shard.Recorder.
func (m *Manager) RecordStop(shardID strategy.ShardID, id strategy.EntityID) {
	if !m.registry.Contains(shardID) {
		return
	}
	m.strategy.OnStop(shardID, id)
}

// HostedShards returns every currently hosted shard id, sorted.
func (m *Manager) HostedShards() []strategy.ShardID {
	return m.registry.Snapshot()
}

// Controller returns the Controller for a hosted shard, if any.
func (m *Manager) Controller(id strategy.ShardID) (*shard.Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctrl, ok := m.controllers[id]
	return ctrl, ok
}

// SnapshotActive returns the Active entity ids for every hosted shard,
// keyed by shard id.
func (m *Manager) SnapshotActive() map[strategy.ShardID][]strategy.EntityID {
	m.mu.Lock()
	controllers := make(map[strategy.ShardID]*shard.Controller, len(m.controllers))
	for id, ctrl := range m.controllers {
		controllers[id] = ctrl
	}
	m.mu.Unlock()

	out := make(map[strategy.ShardID][]strategy.EntityID, len(controllers))
	for id, ctrl := range controllers {
		out[id] = ctrl.SnapshotActive()
	}
	return out
}
