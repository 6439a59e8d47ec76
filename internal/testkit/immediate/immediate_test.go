package immediate

import (
	"sync/atomic"
	"testing"
	"time"
)

func resetHooks() {
	Set = nil
	Clear = nil
}

func TestEnsureInstallsMissingHooks(t *testing.T) {
	resetHooks()
	t.Cleanup(resetHooks)

	Ensure()

	if Set == nil {
		t.Fatal("expected Set to be installed")
	}
	if Clear == nil {
		t.Fatal("expected Clear to be installed")
	}
}

func TestEnsureKeepsExistingHooks(t *testing.T) {
	resetHooks()
	t.Cleanup(resetHooks)

	setCalls := 0
	clearCalls := 0
	Set = func(fn func()) Handle {
		setCalls++
		return time.AfterFunc(0, fn)
	}
	Clear = func(handle Handle) {
		clearCalls++
		if handle != nil {
			handle.Stop()
		}
	}

	Ensure()

	handle := Set(func() {})
	Clear(handle)
	if setCalls != 1 || clearCalls != 1 {
		t.Fatalf("expected existing hooks to stay installed, set=%d clear=%d", setCalls, clearCalls)
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	resetHooks()
	t.Cleanup(resetHooks)

	Ensure()
	calls := 0
	Set = func(fn func()) Handle {
		calls++
		return time.AfterFunc(0, fn)
	}
	Ensure()
	Clear(Set(func() {}))
	if calls != 1 {
		t.Fatal("expected Ensure to leave installed hooks in place")
	}
}

func TestFallbackSetRunsCallback(t *testing.T) {
	resetHooks()
	t.Cleanup(resetHooks)
	Ensure()

	done := make(chan struct{})
	Set(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected scheduled callback to run")
	}
}

func TestClearPreventsCallback(t *testing.T) {
	resetHooks()
	t.Cleanup(resetHooks)
	Ensure()

	fired := make(chan struct{}, 1)
	// Use a long enough delay that Clear always wins the race; the fallback
	// Set itself is zero-delay, so schedule through a helper timer instead.
	handle := time.AfterFunc(200*time.Millisecond, func() { fired <- struct{}{} })
	Clear(handle)

	select {
	case <-fired:
		t.Fatal("expected cleared callback to never fire")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestClearCancelsScheduledCallback(t *testing.T) {
	resetHooks()
	t.Cleanup(resetHooks)
	Ensure()

	var fired atomic.Int32
	for range 2000 {
		Clear(Set(func() { fired.Add(1) }))
	}

	// Give any timer that survived cancellation a chance to run.
	time.Sleep(50 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Fatalf("expected no cleared callback to fire, got %d", got)
	}
}

func TestClearNilHandleIsSafe(t *testing.T) {
	resetHooks()
	t.Cleanup(resetHooks)
	Ensure()

	Clear(nil)
}
