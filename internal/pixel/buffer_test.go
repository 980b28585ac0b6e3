package pixel

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestBuffer_ByteOrder(t *testing.T) {
	b := NewBuffer(2, 1)
	b.Set(1, 0, ARGB(0x40, 0x10, 0x20, 0x30))

	want := []byte{0, 0, 0, 0, 0x30, 0x20, 0x10, 0x40}
	for i, v := range want {
		if b.Pix[i] != v {
			t.Errorf("Pix[%d]: got %#x, want %#x", i, b.Pix[i], v)
		}
	}

	got := b.At(1, 0)
	if got != ARGB(0x40, 0x10, 0x20, 0x30) {
		t.Errorf("At(1,0): got %+v", got)
	}
}

func TestBuffer_StridePadding(t *testing.T) {
	// 2x2 with 4 bytes of padding per row
	b := &Buffer{Width: 2, Height: 2, Stride: 12, Pix: make([]byte, 24)}
	b.Set(0, 1, Opaque(255, 0, 0))

	if b.Offset(0, 1) != 12 {
		t.Errorf("Offset(0,1): got %d, want 12", b.Offset(0, 1))
	}
	if b.Pix[12+2] != 255 || b.Pix[12+3] != 255 {
		t.Errorf("red/alpha bytes not at expected offsets: %v", b.Pix[12:16])
	}
	if b.At(0, 1) != Opaque(255, 0, 0) {
		t.Errorf("At(0,1): got %+v", b.At(0, 1))
	}
}

func TestBuffer_Validate(t *testing.T) {
	tests := []struct {
		name    string
		buf     *Buffer
		wantErr bool
	}{
		{"nil", nil, true},
		{"empty", &Buffer{}, false},
		{"zero width", &Buffer{Width: 0, Height: 5}, false},
		{"negative", &Buffer{Width: -1, Height: 1}, true},
		{"exact", NewBuffer(3, 2), false},
		{"stride too small", &Buffer{Width: 3, Height: 1, Stride: 8, Pix: make([]byte, 12)}, true},
		{"short pix", &Buffer{Width: 2, Height: 2, Stride: 8, Pix: make([]byte, 15)}, true},
		{"last row unpadded", &Buffer{Width: 2, Height: 2, Stride: 12, Pix: make([]byte, 20)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buf.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate: got %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidBuffer) {
				t.Errorf("error %v does not wrap ErrInvalidBuffer", err)
			}
		})
	}
}

func TestColor_Hex(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{Opaque(255, 128, 64), "#FF8040"},
		{ARGB(0x80, 0xFF, 0, 0), "#80FF0000"},
		{Color{}, "#00000000"},
	}
	for _, tt := range tests {
		if got := tt.c.Hex(); got != tt.want {
			t.Errorf("Hex(%+v): got %s, want %s", tt.c, got, tt.want)
		}
	}
}

func TestColor_AlphaIsDistinct(t *testing.T) {
	m := map[Color]int{}
	m[ARGB(255, 1, 2, 3)]++
	m[ARGB(254, 1, 2, 3)]++
	if len(m) != 2 {
		t.Errorf("colors differing only in alpha collapsed: %v", m)
	}
}

func TestColor_RoundTrip(t *testing.T) {
	c := ARGB(0x80, 0xFF, 0x40, 0x00)
	if got := FromColor(c); got != c {
		t.Errorf("FromColor(RGBA()): got %+v, want %+v", got, c)
	}
	if got := FromColor(color.RGBA{255, 0, 0, 255}); got != Opaque(255, 0, 0) {
		t.Errorf("FromColor(red): got %+v", got)
	}
	if got := c.Uint32(); got != 0x80FF4000 {
		t.Errorf("Uint32: got %#x", got)
	}
}

func TestBuffer_Sub(t *testing.T) {
	b := NewBuffer(4, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			b.Set(x, y, ARGB(255, uint8(x), uint8(y), 0))
		}
	}

	sub, err := b.Sub(image.Rect(1, 1, 3, 3))
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	if sub.Width != 2 || sub.Height != 2 || sub.Stride != b.Stride {
		t.Fatalf("geometry: got %dx%d stride %d", sub.Width, sub.Height, sub.Stride)
	}
	if err := sub.Validate(); err != nil {
		t.Fatalf("sub buffer invalid: %v", err)
	}
	if got := sub.At(1, 1); got != b.At(2, 2) {
		t.Errorf("At(1,1): got %+v, want %+v", got, b.At(2, 2))
	}

	for _, r := range []image.Rectangle{
		image.Rect(0, 0, 5, 1),
		image.Rect(-1, 0, 2, 2),
		image.Rect(2, 2, 2, 3),
	} {
		if _, err := b.Sub(r); err == nil {
			t.Errorf("Sub(%v) should fail", r)
		}
	}
}
