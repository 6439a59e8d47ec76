// Package immediate guarantees immediate-scheduling primitives for test
// harnesses.
//
// Some test helpers assume a pair of process-wide scheduling hooks: one that
// queues a callback for immediate execution and one that cancels a queued
// callback by handle. Ensure installs fallbacks for whichever hook is unset,
// aliasing them to the generic delayed-execution primitives (a zero-delay
// timer and its cancellation). Hooks that are already present are left
// untouched.
package immediate

import "time"

// Handle identifies one scheduled callback so it can be cancelled.
type Handle = *time.Timer

// Set schedules a callback for immediate execution and returns its handle.
// It is nil until Ensure installs a fallback or a harness assigns its own.
var Set func(fn func()) Handle

// Clear cancels a callback scheduled via Set. A cleared callback never runs
// unless it already started. Nil until Ensure installs a fallback.
var Clear func(handle Handle)

// Ensure installs fallback implementations for any unset hook. It is
// idempotent and never overrides hooks that are already present. Call it once
// from TestMain before test code that relies on the hooks runs.
func Ensure() {
	if Set == nil {
		Set = func(fn func()) Handle {
			return time.AfterFunc(0, fn)
		}
	}
	if Clear == nil {
		Clear = func(handle Handle) {
			if handle != nil {
				handle.Stop()
			}
		}
	}
}
