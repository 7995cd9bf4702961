package session

import "sync/atomic"

// Epoch is a monotonically increasing counter used to discard stale
// asynchronous results. It is advanced every time the active file changes
// or is deleted; every load that depends on the current file captures the
// epoch at dispatch time and drops its result if the epoch moved on. The
// in-flight request itself is never cancelled.
type Epoch struct {
	n atomic.Uint64
}

func (e *Epoch) Current() uint64 { return e.n.Load() }

func (e *Epoch) Advance() uint64 { return e.n.Add(1) }
