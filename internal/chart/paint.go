package chart

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"
)

// Style controls the chrome drawn around the chart.
type Style struct {
	BorderWidth float64     // Width of the circular border in pixels
	BorderColor color.Color // Border stroke color
}

// DefaultStyle is a 2px red border.
func DefaultStyle() Style {
	return Style{BorderWidth: 2, BorderColor: color.NRGBA{R: 255, A: 255}}
}

// Circle returns the circle inscribed in r.
func Circle(r image.Rectangle) (cx, cy, radius float64) {
	cx = float64(r.Min.X) + float64(r.Dx())/2
	cy = float64(r.Min.Y) + float64(r.Dy())/2
	radius = math.Min(float64(r.Dx()), float64(r.Dy())) / 2
	return cx, cy, radius
}

// Viewport is the rectangle wedges occupy in a size x size chart drawn with
// style: the full square inset by the border width.
func Viewport(size int, style Style) image.Rectangle {
	bw := int(math.Ceil(style.BorderWidth))
	return image.Rect(bw, bw, size-bw, size-bw)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Paint fills each wedge as a pie sector of the circle inscribed in target.
// Nothing is drawn for an empty slice.
func Paint(dc *gg.Context, target image.Rectangle, wedges []Wedge) error {
	if len(wedges) == 0 {
		return nil
	}
	cx, cy, r := Circle(target)

	dc.Push()
	defer dc.Pop()

	dc.DrawCircle(cx, cy, r)
	dc.Clip()

	for i, w := range wedges {
		a1, a2 := radians(w.Start), radians(w.End())
		dc.SetColor(w.Color)
		dc.MoveTo(cx, cy)
		dc.LineTo(cx+r*math.Cos(a1), cy+r*math.Sin(a1))
		dc.DrawArc(cx, cy, r, a1, a2)
		dc.ClosePath()
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("failed to fill wedge %d: %w", i, err)
		}
	}
	return nil
}

// Picture draws a size x size chart: the optional display image clipped to
// the circle, the wedges on top, and the border.
func Picture(display image.Image, wedges []Wedge, size int, style Style) (*gg.Context, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid chart size %d", size)
	}
	dc := gg.NewContext(size, size)

	target := Viewport(size, style)
	cx, cy, r := Circle(target)

	if display != nil {
		dc.Push()
		dc.DrawCircle(cx, cy, r)
		dc.Clip()
		dc.DrawImageEx(gg.ImageBufFromImage(display), gg.DrawImageOptions{
			X:             float64(target.Min.X),
			Y:             float64(target.Min.Y),
			DstWidth:      float64(target.Dx()),
			DstHeight:     float64(target.Dy()),
			Interpolation: gg.InterpBicubic,
		})
		dc.Pop()
	}

	if err := Paint(dc, target, wedges); err != nil {
		dc.Close()
		return nil, err
	}

	if style.BorderWidth > 0 && style.BorderColor != nil {
		dc.SetColor(style.BorderColor)
		dc.SetLineWidth(style.BorderWidth)
		dc.DrawCircle(cx, cy, r)
		if err := dc.Stroke(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("failed to stroke border: %w", err)
		}
	}
	return dc, nil
}

// EncodePNG renders the chart with Picture and writes it to w.
func EncodePNG(w io.Writer, display image.Image, wedges []Wedge, size int, style Style) error {
	dc, err := Picture(display, wedges, size, style)
	if err != nil {
		return err
	}
	defer dc.Close()

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	return nil
}
