// Package pixel defines the raw pixel values the color scanner works on.
//
// A Buffer is a borrowed, read-only view of 32-bit pixels laid out row by
// row. The byte order inside each pixel is fixed and part of the contract:
//
//	offset+0  blue
//	offset+1  green
//	offset+2  red
//	offset+3  alpha
//
// where offset = y*Stride + x*BytesPerPixel. Rows may carry trailing padding,
// so Stride can exceed Width*BytesPerPixel.
package pixel

import (
	"errors"
	"fmt"
	"image"
)

// BytesPerPixel is the size of one pixel in a Buffer.
const BytesPerPixel = 4

// ErrInvalidBuffer is returned by Validate for buffers whose geometry does
// not match their backing slice.
var ErrInvalidBuffer = errors.New("invalid pixel buffer")

// Buffer is a 4-byte-per-pixel image in blue, green, red, alpha byte order.
type Buffer struct {
	Width  int    // Width in pixels
	Height int    // Height in pixels
	Stride int    // Bytes between the starts of two consecutive rows
	Pix    []byte // Pixel data, row-major, B,G,R,A per pixel
}

// NewBuffer allocates a zeroed (transparent black) buffer without row padding.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	stride := width * BytesPerPixel
	return &Buffer{
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    make([]byte, stride*height),
	}
}

// Validate checks that every pixel addressed by Width, Height and Stride
// lies inside Pix.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidBuffer)
	}
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidBuffer, b.Width, b.Height)
	}
	if b.Width == 0 || b.Height == 0 {
		return nil
	}
	if b.Stride < b.Width*BytesPerPixel {
		return fmt.Errorf("%w: stride %d smaller than row size %d",
			ErrInvalidBuffer, b.Stride, b.Width*BytesPerPixel)
	}
	need := (b.Height-1)*b.Stride + b.Width*BytesPerPixel
	if len(b.Pix) < need {
		return fmt.Errorf("%w: %d bytes, need %d", ErrInvalidBuffer, len(b.Pix), need)
	}
	return nil
}

// Pixels returns Width*Height.
func (b *Buffer) Pixels() int {
	return b.Width * b.Height
}

// Offset returns the index in Pix of the blue byte of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return y*b.Stride + x*BytesPerPixel
}

// At reads pixel (x, y).
func (b *Buffer) At(x, y int) Color {
	o := b.Offset(x, y)
	p := b.Pix[o : o+BytesPerPixel : o+BytesPerPixel]
	return Color{B: p[0], G: p[1], R: p[2], A: p[3]}
}

// Set writes pixel (x, y). Scanners never call it; it exists for loaders
// and fixtures that build buffers.
func (b *Buffer) Set(x, y int, c Color) {
	o := b.Offset(x, y)
	p := b.Pix[o : o+BytesPerPixel : o+BytesPerPixel]
	p[0] = c.B
	p[1] = c.G
	p[2] = c.R
	p[3] = c.A
}

// Sub returns a view of the pixels inside r. The view shares Pix and Stride
// with b, so its rows keep b's padding plus the columns cut off on the right.
//
// r uses b's coordinates, (x1,y1) inclusive and (x2,y2) exclusive, and must
// be non-empty and lie within the buffer.
func (b *Buffer) Sub(r image.Rectangle) (*Buffer, error) {
	bounds := image.Rect(0, 0, b.Width, b.Height)
	if !r.In(bounds) {
		return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside buffer bounds (0,0)-(%d,%d)",
			r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, b.Width, b.Height)
	}
	if r.Empty() {
		return nil, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	start := b.Offset(r.Min.X, r.Min.Y)
	return &Buffer{
		Width:  r.Dx(),
		Height: r.Dy(),
		Stride: b.Stride,
		Pix:    b.Pix[start:],
	}, nil
}
