package strategy

import "time"

// None is the no-op Strategy: entities are never passivated by policy
// (they may still be stopped explicitly via self-request, which
// bypasses Strategy entirely).
type None struct{}

// NewNone returns the None strategy.
func NewNone() *None { return &None{} }

func (*None) Name() string { return "none" }

func (*None) OnAccess(ShardID, EntityID, time.Time) []Intent { return nil }

func (*None) OnCreate(ShardID, EntityID, time.Time) []Intent { return nil }

func (*None) OnStop(ShardID, EntityID) {}

func (*None) OnShardActivated(ShardID, time.Time) []Intent { return nil }

func (*None) OnShardDeactivated(ShardID, time.Time) []Intent { return nil }
