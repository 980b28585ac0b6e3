package histogram

import "sync/atomic"

// Store holds the current histogram.
//
// Replace swaps the pointer atomically, but the Store does not order a scan
// against a render: callers hold a gate.Gate around both.
type Store struct {
	current atomic.Pointer[Histogram]
}

// Replace installs h as the current histogram and drops the previous one.
// A nil h installs an empty histogram.
func (s *Store) Replace(h *Histogram) {
	if h == nil {
		h = New()
	}
	s.current.Store(h)
}

// Snapshot returns the current histogram, or an empty one if nothing has
// been stored yet. The result must be treated as read-only.
func (s *Store) Snapshot() *Histogram {
	if h := s.current.Load(); h != nil {
		return h
	}
	return New()
}
