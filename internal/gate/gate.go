// Package gate provides a non-blocking binary lock.
//
// A Gate never waits. TryAcquire either takes the gate or reports that
// someone else holds it; callers treat a failed attempt as "skip this time",
// not as an error.
package gate

import "sync/atomic"

// Gate is a try-only mutual exclusion token. The zero value is open.
type Gate struct {
	held atomic.Bool
}

// TryAcquire takes the gate if it is open and reports whether it did.
func (g *Gate) TryAcquire() bool {
	return g.held.CompareAndSwap(false, true)
}

// Release opens the gate. Releasing an open gate panics, like unlocking an
// unlocked sync.Mutex.
func (g *Gate) Release() {
	if !g.held.CompareAndSwap(true, false) {
		panic("gate: release of open gate")
	}
}

// Held reports whether the gate is currently taken.
func (g *Gate) Held() bool {
	return g.held.Load()
}

// Do runs fn while holding the gate and reports whether it ran. The gate is
// released even if fn panics.
func (g *Gate) Do(fn func()) bool {
	if !g.TryAcquire() {
		return false
	}
	defer g.Release()
	fn()
	return true
}
