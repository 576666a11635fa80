package logging

import "log"

// Logger is the seam the shard controller and passivation manager log
// through. It is small on purpose: callers that want structured or
// leveled logging can adapt their own logger to it.
type Logger interface {
	Warnf(format string, args ...any)
}

// Standard adapts the standard library's log package to Logger.
type Standard struct {
	*log.Logger
}

// NewStandard returns a Logger backed by log.Default().
func NewStandard() Standard {
	return Standard{Logger: log.Default()}
}

// Warnf implements Logger.
func (s Standard) Warnf(format string, args ...any) {
	s.Printf("WARN "+format, args...)
}

// Noop discards every message. Useful in tests that don't want log
// output interleaved with test results.
type Noop struct{}

// Warnf implements Logger.
func (Noop) Warnf(string, ...any) {}
