// Package incarnation issues opaque identifiers used only for
// observability: a fresh ID per worker activation, so tests and admin
// tooling can tell "a new worker" apart from "the same worker still
// running", and a correlation ID per buffered message, for FIFO-order
// diagnostics. No invariant in the core state machine depends on the
// value of either ID, only on their distinctness and ordering.
package incarnation
