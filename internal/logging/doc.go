// Package logging provides the small logging seam used by the shard
// controller and passivation manager to report handshake anomalies and
// overload warnings. It wraps the standard library's log package
// rather than a structured-logging dependency, since nothing this
// small needs one.
package logging
