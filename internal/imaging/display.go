package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/transform"
)

// Display resizes img to width x height for drawing behind the chart.
//
// The aspect ratio is not preserved: the chart's circular viewport is
// filled edge to edge. Resampling uses Catmull-Rom, a bicubic filter.
func Display(img image.Image, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid display size %dx%d", width, height)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return image.NewRGBA(image.Rect(0, 0, width, height)), nil
	}
	return transform.Resize(img, width, height, transform.CatmullRom), nil
}
