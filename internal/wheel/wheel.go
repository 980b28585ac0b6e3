// Package wheel coordinates scans and renders over one shared histogram.
//
// A Wheel owns the current histogram and a gate. A scan and a render never
// overlap: whichever takes the gate first proceeds, and the other one backs
// off without waiting. A scan that cannot start is ignored; a render that
// cannot run returns the wedges drawn last time.
package wheel

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/ironsheep/color-wheel-mcp/internal/chart"
	"github.com/ironsheep/color-wheel-mcp/internal/gate"
	"github.com/ironsheep/color-wheel-mcp/internal/histogram"
	"github.com/ironsheep/color-wheel-mcp/internal/pixel"
	"github.com/ironsheep/color-wheel-mcp/internal/progress"
	"github.com/ironsheep/color-wheel-mcp/internal/scan"
)

// ErrBusy is returned by operations that need the histogram while a scan or
// render holds it.
var ErrBusy = errors.New("wheel busy")

// Result describes a finished scan.
type Result struct {
	Completed bool          `json:"completed"`  // False if the scan was cancelled
	Pixels    int           `json:"pixels"`     // Pixels counted
	Distinct  int           `json:"distinct"`   // Distinct colors found
	Elapsed   time.Duration `json:"elapsed_ns"` // Wall time of the scan
}

// Wheel is safe for concurrent use.
type Wheel struct {
	gate  gate.Gate
	store histogram.Store
	log   *slog.Logger

	mu        sync.Mutex
	last      Result
	haveLast  bool
	lastDrawn []chart.Wedge
}

// New creates a Wheel. A nil logger discards output.
func New(log *slog.Logger) *Wheel {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Wheel{log: log}
}

// Start begins scanning buf on a new goroutine and reports whether it did.
//
// The gate is taken before Start returns, so a second Start (or a Render)
// issued right after sees the wheel as busy. When the scan ends its
// histogram, partial or not, replaces the current one, the gate is released
// and done (if non-nil) is called with the outcome. A scan aborted by a panic
// in cancel or sink still calls done, with a zero Result.
func (w *Wheel) Start(buf *pixel.Buffer, cancel func() bool, sink progress.Sink, done func(Result)) (bool, error) {
	if err := buf.Validate(); err != nil {
		return false, err
	}
	if !w.gate.TryAcquire() {
		w.log.Debug("scan ignored, wheel busy")
		return false, nil
	}

	go func() {
		var res Result
		func() {
			defer w.gate.Release()
			defer func() {
				if r := recover(); r != nil {
					w.log.Error("scan aborted", "panic", r)
					res = Result{}
				}
			}()
			res = w.scanLocked(buf, cancel, sink)
		}()
		if done != nil {
			done(res)
		}
	}()
	return true, nil
}

// Scan is the synchronous form of Start. It returns false if the wheel was
// busy.
func (w *Wheel) Scan(buf *pixel.Buffer, cancel func() bool, sink progress.Sink) (Result, bool, error) {
	if err := buf.Validate(); err != nil {
		return Result{}, false, err
	}
	var res Result
	ran := w.gate.Do(func() {
		res = w.scanLocked(buf, cancel, sink)
	})
	if !ran {
		w.log.Debug("scan ignored, wheel busy")
	}
	return res, ran, nil
}

// ScanContext scans buf until it finishes or ctx is done.
func (w *Wheel) ScanContext(ctx context.Context, buf *pixel.Buffer, sink progress.Sink) (Result, bool, error) {
	var tok scan.Token
	if ctx.Err() != nil {
		tok.Cancel()
	}
	stop := scan.WatchContext(ctx, &tok)
	defer stop()
	return w.Scan(buf, tok.Requested, sink)
}

func (w *Wheel) scanLocked(buf *pixel.Buffer, cancel func() bool, sink progress.Sink) Result {
	start := time.Now()
	w.log.Debug("scan started", "width", buf.Width, "height", buf.Height)

	h, completed := scan.Scan(buf, cancel, sink)
	w.store.Replace(h)

	res := Result{
		Completed: completed,
		Pixels:    h.Total(),
		Distinct:  h.Len(),
		Elapsed:   time.Since(start),
	}
	w.mu.Lock()
	w.last = res
	w.haveLast = true
	w.mu.Unlock()

	w.log.Info("scan finished",
		"completed", res.Completed,
		"pixels", res.Pixels,
		"distinct", res.Distinct,
		"elapsed", res.Elapsed)
	return res
}

// Render lays out the current histogram inside target. If a scan or another
// render holds the wheel it returns the previously drawn wedges and false.
func (w *Wheel) Render(target image.Rectangle, sink progress.Sink) ([]chart.Wedge, bool) {
	var wedges []chart.Wedge
	ran := w.gate.Do(func() {
		wedges = chart.Render(w.store.Snapshot(), target, sink)
		w.mu.Lock()
		w.lastDrawn = wedges
		w.mu.Unlock()
	})
	if !ran {
		w.log.Debug("render skipped, wheel busy")
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.lastDrawn, false
	}
	return wedges, true
}

// Histogram returns the current histogram, or nil and an error while a scan
// or render holds the wheel.
func (w *Wheel) Histogram() (*histogram.Histogram, error) {
	var h *histogram.Histogram
	if !w.gate.Do(func() { h = w.store.Snapshot() }) {
		return nil, fmt.Errorf("histogram unavailable: %w", ErrBusy)
	}
	return h, nil
}

// LastResult returns the outcome of the most recent scan, if any.
func (w *Wheel) LastResult() (Result, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.haveLast
}

// Busy reports whether a scan or render currently holds the wheel.
func (w *Wheel) Busy() bool {
	return w.gate.Held()
}
