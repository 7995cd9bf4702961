package session

import (
	"sync"
	"time"
)

// DefaultHoldDuration is how long a press must be held before it becomes
// a delete gesture instead of a click.
const DefaultHoldDuration = 500 * time.Millisecond

// HoldOutcome is the explicit state of a press-and-hold gesture. Making
// "fired" a visible state (instead of a hidden boolean) is what drives the
// suppress-next-click transition.
type HoldOutcome int

const (
	HoldPending HoldOutcome = iota
	HoldFired
	HoldCancelled
)

// HoldTimer is a cancellable one-shot timer for press-and-hold gestures.
type HoldTimer struct {
	mu      sync.Mutex
	outcome HoldOutcome
	timer   *time.Timer
}

// StartHoldTimer arms a timer that fires onFire once after d, unless
// cancelled first.
func StartHoldTimer(d time.Duration, onFire func()) *HoldTimer {
	t := &HoldTimer{outcome: HoldPending}
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		if t.outcome != HoldPending {
			t.mu.Unlock()
			return
		}
		t.outcome = HoldFired
		t.mu.Unlock()
		if onFire != nil {
			onFire()
		}
	})
	return t
}

// Cancel stops the timer if it has not fired yet and returns the final
// outcome, so the caller can tell "released early" from "held to fire".
func (t *HoldTimer) Cancel() HoldOutcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.outcome == HoldPending {
		t.outcome = HoldCancelled
		t.timer.Stop()
	}
	return t.outcome
}

// Outcome returns the timer's current state.
func (t *HoldTimer) Outcome() HoldOutcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outcome
}
