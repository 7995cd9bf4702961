package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHoldTimerFires(t *testing.T) {
	var fired atomic.Bool
	timer := StartHoldTimer(10*time.Millisecond, func() { fired.Store(true) })

	assert.Eventually(t, fired.Load, time.Second, 5*time.Millisecond)
	assert.Equal(t, HoldFired, timer.Outcome())
	// cancelling after fire keeps the fired outcome
	assert.Equal(t, HoldFired, timer.Cancel())
}

func TestHoldTimerCancelBeforeFire(t *testing.T) {
	var fired atomic.Bool
	timer := StartHoldTimer(time.Hour, func() { fired.Store(true) })

	assert.Equal(t, HoldCancelled, timer.Cancel())
	assert.Equal(t, HoldCancelled, timer.Outcome())
	assert.False(t, fired.Load())
}

func TestHoldTimerCancelIsSticky(t *testing.T) {
	timer := StartHoldTimer(time.Hour, nil)
	timer.Cancel()
	assert.Equal(t, HoldCancelled, timer.Cancel())
}
