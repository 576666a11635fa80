// Package shard implements the per-shard entity lifecycle controller:
// a single logical owner of one shard's entity map, buffered messages,
// and in-flight stop handshakes.
//
// A Controller tracks each entity it has activated as either Active
// (routable now) or Passivating (mid handshake, messages buffered).
// Every inbound message first passes through the configured Recorder
// (backed by the passivation Manager's strategy) so the strategy can
// record the access and, if appropriate, hand back passivation
// intents to apply before the message is routed or buffered.
//
// Concurrency: Controller guards its state with a mutex rather than
// funneling every event through a single goroutine's channel, since
// events arrive from independent sources that each need to make
// progress on their own: the caller delivering messages, and the
// background goroutine watching a handoff timer.
package shard
