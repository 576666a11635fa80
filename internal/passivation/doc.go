// Package passivation implements the node-level Manager: the single
// owner of a Strategy and the set of currently hosted shards, and the
// bridge between shard controllers and the strategy that decides when
// their entities should be passivated.
//
// The Manager itself never touches an entity's messages or worker; it
// only records lifecycle events against the Strategy and, when the
// Strategy answers with intents, tells the owning shard.Controller to
// carry them out. Registering or unregistering a shard, and applying
// the intents of an idle sweep, span strategy state and
// shard-controller state together, so those paths are serialized on
// the Manager's own mutex; per-message recording only touches the
// Strategy's and registry's own locks.
package passivation
