package imaging

import (
	"fmt"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/samber/lo"

	"github.com/ironsheep/color-wheel-mcp/internal/histogram"
	"github.com/ironsheep/color-wheel-mcp/internal/pixel"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
//
// The histogram distinguishes alpha, so two results may share Hex and RGB
// and differ only in RGBA.A. ARGB is the exact key: "#AARRGGBB".
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	ARGB string    `json:"argb"` // Hex format "#AARRGGBB"
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// DescribeColor converts a scanned pixel color into its report form.
func DescribeColor(c pixel.Color) ColorResult {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, s, l := cf.Hsl()
	if math.IsNaN(h) {
		h = 0
	}

	return ColorResult{
		Hex:  fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B),
		ARGB: fmt.Sprintf("#%08X", c.Uint32()),
		RGB:  RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:  HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}
}

// Sort orders for Report.
const (
	SortFirstSeen = "first_seen" // Histogram enumeration order
	SortCount     = "count"      // Most frequent first, ties in first-seen order
)

// ColorCount is one histogram entry in report form.
type ColorCount struct {
	Color      ColorResult `json:"color"`
	Count      int         `json:"count"`      // Pixels with exactly this color
	Percentage float64     `json:"percentage"` // Share of scanned pixels (0-100)
}

// HistogramReport summarizes a histogram for external inspection.
type HistogramReport struct {
	Distinct int          `json:"distinct"` // Distinct colors in the histogram
	Pixels   int          `json:"pixels"`   // Sum of all counts
	Colors   []ColorCount `json:"colors"`   // At most limit entries
}

// Report describes h.
//
// Parameters:
//   - h: The histogram to describe.
//   - limit: Maximum entries to include; 0 or negative means all.
//   - order: SortFirstSeen (default) or SortCount.
//
// Returns an error for an unknown order.
//
// Unlike the chart, a count-sorted report does reflect frequency; the
// histogram itself is not reordered.
func Report(h *histogram.Histogram, limit int, order string) (*HistogramReport, error) {
	entries := h.Entries()

	switch order {
	case "", SortFirstSeen:
	case SortCount:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Count > entries[j].Count
		})
	default:
		return nil, fmt.Errorf("unknown sort order: %s", order)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	total := h.Total()
	colors := lo.Map(entries, func(e histogram.Entry, _ int) ColorCount {
		pct := 0.0
		if total > 0 {
			pct = float64(e.Count) / float64(total) * 100
		}
		return ColorCount{Color: DescribeColor(e.Color), Count: e.Count, Percentage: pct}
	})

	return &HistogramReport{
		Distinct: h.Len(),
		Pixels:   total,
		Colors:   colors,
	}, nil
}
