// Package clock centralizes every wall-clock read in the ambient stack.
// Simulated time (tick timestamps, the canonical initial timestamp
// formula) never touches this package — those are pure functions of
// seed/tick/tick_seconds computed in pkg/engine. Everything that does
// need a real wall-clock reading (the summary's timestamp field, a
// checkpoint's created_at, a non-CI run id, the run and per-action
// durationMs) goes through Clock. pkg/engine imports it, including in the
// tick loop for action durations; every field it feeds is left out of the
// artifact fingerprint.
package clock

import "time"

// Clock supplies wall-clock readings. Production code uses Real{}; tests
// that need a stable timestamp use Fixed.
type Clock interface {
	Now() time.Time
}

// Real reads the actual system clock.
type Real struct{}

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }

// Fixed always returns the same instant, for deterministic tests of
// ambient (non-simulated) wall-clock consumers.
type Fixed struct {
	At time.Time
}

// Now returns the fixed instant.
func (f Fixed) Now() time.Time { return f.At }

// ISO8601 formats t the way run ids and summary timestamps expect.
func ISO8601(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
