// Package chart lays a histogram out as a radial chart and paints it.
//
// Every distinct color gets the same angular share of the circle, in the
// histogram's first-occurrence order. Occurrence counts do not affect wedge
// size.
package chart

import (
	"image"

	"github.com/ironsheep/color-wheel-mcp/internal/histogram"
	"github.com/ironsheep/color-wheel-mcp/internal/pixel"
	"github.com/ironsheep/color-wheel-mcp/internal/progress"
)

// FullCircle is the total sweep of a chart in degrees.
const FullCircle = 360.0

// Wedge is one sector of the chart. Angles are in degrees, measured
// clockwise from the positive X axis in screen coordinates.
type Wedge struct {
	Start  float64         `json:"start"`
	Span   float64         `json:"span"`
	Color  pixel.Color     `json:"color"`
	Bounds image.Rectangle `json:"-"`
}

// End returns Start+Span.
func (w Wedge) End() float64 {
	return w.Start + w.Span
}

// Render computes the wedges for h inside target.
//
// With N distinct colors, wedge i covers [i*360/N, (i+1)*360/N). After each
// wedge the sink receives i*100/N when that value changes, then a final 100.
// An empty histogram yields no wedges and only the final event.
func Render(h *histogram.Histogram, target image.Rectangle, sink progress.Sink) []Wedge {
	rep := progress.NewReporter(sink)
	n := h.Len()
	if n == 0 {
		rep.Done(nil)
		return nil
	}

	span := FullCircle / float64(n)
	wedges := make([]Wedge, 0, n)
	i := 0
	h.Each(func(c pixel.Color, _ int) bool {
		wedges = append(wedges, Wedge{
			Start:  float64(i) * FullCircle / float64(n),
			Span:   span,
			Color:  c,
			Bounds: target,
		})
		rep.Report(i * 100 / n)
		i++
		return true
	})
	rep.Done(nil)
	return wedges
}
