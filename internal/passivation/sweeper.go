package passivation

import (
	"context"
	"time"

	"github.com/dreamware/passivation/internal/strategy"
)

// StartSweeper begins periodic idle sweeps if the configured Strategy
// implements strategy.Sweeper (currently only Idle does); for
// None/LeastRecentlyUsed it is a no-op, since those strategies never
// need time alone to produce an intent. It blocks until ctx is
// canceled or StopSweeper is called, so run it in its own goroutine.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	sweeper, ok := m.strategy.(strategy.Sweeper)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.sweepCancel = cancel
	m.mu.Unlock()

	m.sweepWG.Add(1)
	defer m.sweepWG.Done()

	ticker := m.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C():
			m.runSweep(sweeper, now)
		case <-ctx.Done():
			return
		}
	}
}

// StopSweeper cancels a running sweeper and waits for it to return. It
// is safe to call even if StartSweeper was never invoked (e.g. under
// None/LeastRecentlyUsed).
func (m *Manager) StopSweeper() {
	m.mu.Lock()
	cancel := m.sweepCancel
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	m.sweepWG.Wait()
}

func (m *Manager) runSweep(sweeper strategy.Sweeper, now time.Time) {
	start := m.clock.Now()
	intents := sweeper.Sweep(now)

	m.mu.Lock()
	m.applyIntentsLocked(intents)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.RecordSweepDuration(m.clock.Now().Sub(start))
	}
}
