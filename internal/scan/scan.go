// Package scan counts the distinct colors of a pixel.Buffer.
//
// Scan walks the buffer once in row-major order, reports throttled progress,
// and polls a cancellation predicate after every pixel. Cancellation is not
// an error: the partial histogram is returned and a terminal 100% event is
// still emitted.
package scan

import (
	"github.com/ironsheep/color-wheel-mcp/internal/histogram"
	"github.com/ironsheep/color-wheel-mcp/internal/pixel"
	"github.com/ironsheep/color-wheel-mcp/internal/progress"
)

// Scan builds the color histogram of buf.
//
// Parameters:
//   - buf: the pixels to read. Must satisfy buf.Validate(); it is never written.
//   - cancel: polled after each pixel; a true result stops the scan. May be nil.
//   - sink: receives progress events. May be nil.
//
// Returns the histogram accumulated so far and whether the scan ran to the
// end without cancel firing.
//
// Progress is floor(index*100/pixels) for the pixel just counted, sent only
// when it changes, followed by one event at 100 carrying the histogram. An
// empty buffer produces a single {100, 0s} event.
func Scan(buf *pixel.Buffer, cancel func() bool, sink progress.Sink) (*histogram.Histogram, bool) {
	h := histogram.New()

	width, height := buf.Width, buf.Height
	if width == 0 || height == 0 {
		sink.Emit(progress.Event{Percent: 100, Colors: h})
		return h, true
	}

	rep := progress.NewReporter(sink)
	total := int64(width) * int64(height)
	stride := buf.Stride
	pix := buf.Pix
	completed := true

rows:
	for y := 0; y < height; y++ {
		row := y * stride
		for x := 0; x < width; x++ {
			offset := row + x*pixel.BytesPerPixel
			p := pix[offset : offset+4 : offset+4]
			h.Add(pixel.Color{B: p[0], G: p[1], R: p[2], A: p[3]})

			rep.Report(int((int64(y)*int64(width) + int64(x)) * 100 / total))

			if cancel != nil && cancel() {
				completed = false
				break rows
			}
		}
	}

	rep.Done(h)
	return h, completed
}
