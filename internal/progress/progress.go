// Package progress carries percentage notifications from a long-running
// operation to whoever displays them.
//
// Producers (the scanner and the chart renderer) call a Sink synchronously
// from their own goroutine. Within one operation the percentages a Sink sees
// never decrease, and exactly one event with Percent == 100 closes the
// operation, whether it completed or was cancelled. A Sink that owns
// single-threaded state must hand the event over to its own goroutine.
package progress

import (
	"sync"
	"time"

	"github.com/ironsheep/color-wheel-mcp/internal/histogram"
)

// Event is one progress notification.
type Event struct {
	// Percent is in [0,100].
	Percent int

	// Elapsed is the time since the operation started.
	Elapsed time.Duration

	// Colors is set on the scanner's terminal event only and holds the
	// histogram accumulated up to that point.
	Colors *histogram.Histogram
}

// Final reports whether e is the terminal event of its operation.
func (e Event) Final() bool {
	return e.Percent == 100
}

// Sink consumes events. A nil Sink discards them.
type Sink func(Event)

// Emit delivers e, ignoring a nil sink.
func (s Sink) Emit(e Event) {
	if s != nil {
		s(e)
	}
}

// Chan returns a Sink that sends on ch. Sends block until the receiver is
// ready; events are never dropped.
func Chan(ch chan<- Event) Sink {
	return func(e Event) { ch <- e }
}

// Reporter throttles an operation's events: Report forwards a percentage only
// when it differs from the last one sent, and Done always sends 100.
type Reporter struct {
	sink  Sink
	start time.Time
	now   func() time.Time
	last  int
}

// NewReporter starts timing an operation now.
func NewReporter(sink Sink) *Reporter {
	return newReporter(sink, time.Now)
}

func newReporter(sink Sink, now func() time.Time) *Reporter {
	return &Reporter{sink: sink, start: now(), now: now, last: -1}
}

// Report sends pct if it changed since the previous call.
func (r *Reporter) Report(pct int) {
	if pct == r.last {
		return
	}
	r.last = pct
	r.sink.Emit(Event{Percent: pct, Elapsed: r.now().Sub(r.start)})
}

// Done sends the terminal 100% event unconditionally, attaching colors.
func (r *Reporter) Done(colors *histogram.Histogram) {
	r.last = 100
	r.sink.Emit(Event{Percent: 100, Elapsed: r.now().Sub(r.start), Colors: colors})
}

// Recorder is a Sink target that keeps every event. It is safe for
// concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Sink returns a Sink appending to r.
func (r *Recorder) Sink() Sink {
	return func(e Event) {
		r.mu.Lock()
		r.events = append(r.events, e)
		r.mu.Unlock()
	}
}

// Events returns a copy of the events recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Percents returns the recorded percentages in order.
func (r *Recorder) Percents() []int {
	events := r.Events()
	out := make([]int, len(events))
	for i, e := range events {
		out[i] = e.Percent
	}
	return out
}
