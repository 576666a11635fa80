package strategy

import "time"

// ShardID uniquely identifies a shard hosted on this node.
type ShardID string

// EntityID uniquely identifies an entity within a shard.
type EntityID string

// Intent is a passivation decision the Strategy has made. The Shard
// Controller applies each returned Intent via the handshake protocol.
type Intent struct {
	Shard ShardID
	ID    EntityID
	// Reason labels why this intent was raised: "idle" or "lru".
	// Recorded verbatim as the eviction metric's reason label.
	Reason string
}

// Strategy consumes shard lifecycle events, always with the calling
// shard controller's lock held (or, for the two ShardActivated/
// ShardDeactivated events, under the Manager's node-wide mutex), and
// emits an ordered list of passivation intents.
type Strategy interface {
	// Name identifies the strategy for logging and metrics labels
	// ("none", "idle", "least-recently-used").
	Name() string

	// OnAccess fires on every message routed to id.
	OnAccess(shard ShardID, id EntityID, now time.Time) []Intent

	// OnCreate fires when an entity is newly activated.
	OnCreate(shard ShardID, id EntityID, now time.Time) []Intent

	// OnStop fires once an entity reaches Stopped.
	OnStop(shard ShardID, id EntityID)

	// OnShardActivated fires when a shard is added to the hosted set.
	OnShardActivated(shard ShardID, now time.Time) []Intent

	// OnShardDeactivated fires when a shard is removed from the hosted
	// set. Any intents returned reference only still-hosted shards
	// (rebalancing after the removal), never the shard being removed;
	// the Manager force-stops that shard's entities directly.
	OnShardDeactivated(shard ShardID, now time.Time) []Intent
}
