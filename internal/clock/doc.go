// Package clock provides the monotonic time source used throughout the
// passivation engine and a coarse repeating-timer helper for the Idle
// strategy's sweeper.
//
// Production code depends on the Clock interface rather than calling
// time.Now directly so that tests can inject a fake clock and assert
// timing-sensitive behavior (idle timeouts, handoff deadlines) without
// sleeping in real time.
package clock
