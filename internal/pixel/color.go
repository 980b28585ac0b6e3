package pixel

import (
	"fmt"
	"image/color"
)

// Color is one 32-bit pixel value with 8-bit alpha, red, green and blue
// channels.
//
// Color is a comparable value type, so it can be used directly as a map key.
// Equality covers all four channels:
//   - Two pixels with the same RGB but different alpha are distinct colors
//   - Channels are stored non-premultiplied, exactly as read from the buffer
type Color struct {
	A uint8 `json:"a"` // Alpha/opacity (0 = transparent, 255 = opaque)
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// ARGB builds a Color from its channels in alpha, red, green, blue order.
func ARGB(a, r, g, b uint8) Color {
	return Color{A: a, R: r, G: g, B: b}
}

// Opaque builds a fully opaque Color.
func Opaque(r, g, b uint8) Color {
	return Color{A: 0xFF, R: r, G: g, B: b}
}

// RGBA implements color.Color. Channels are treated as non-premultiplied,
// matching color.NRGBA.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Uint32 packs the color as 0xAARRGGBB.
func (c Color) Uint32() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Hex formats the color as "#RRGGBB" when opaque and "#AARRGGBB" otherwise.
func (c Color) Hex() string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

func (c Color) String() string {
	return c.Hex()
}

// FromColor converts any color.Color to a Color, un-premultiplying alpha.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{A: n.A, R: n.R, G: n.G, B: n.B}
}
