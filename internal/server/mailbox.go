package server

import "sync"

// mailbox is an unbounded FIFO of functions to run on the server loop.
// Posting never blocks, so a background producer is never held up by a
// slow client and nothing it posts is dropped while the loop is running.
type mailbox struct {
	mu     sync.Mutex
	queue  []func()
	closed bool

	// ready holds a token whenever queue may be non-empty.
	ready chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{ready: make(chan struct{}, 1)}
}

// post appends fn and wakes the loop. It reports false once the mailbox is
// closed.
func (m *mailbox) post(fn func()) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.queue = append(m.queue, fn)
	m.mu.Unlock()

	select {
	case m.ready <- struct{}{}:
	default:
	}
	return true
}

// drain removes and returns everything posted so far, oldest first.
func (m *mailbox) drain() []func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := m.queue
	m.queue = nil
	return q
}

func (m *mailbox) close() {
	m.mu.Lock()
	m.closed = true
	m.queue = nil
	m.mu.Unlock()
}
