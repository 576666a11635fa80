// Package strategy implements the passivation Strategy: a polymorphic
// policy object with three variants (None, Idle, LeastRecentlyUsed)
// that consume shard events and emit passivation intents.
//
// The three variants share one interface; variant-specific behavior is
// reached through a type assertion where needed (e.g. the Manager's
// check for Sweeper before running idle sweeps) rather than an
// inheritance hierarchy, keeping strategy state explicit
// and easy to reason about under concurrent access.
package strategy
