// Package histogram holds the color occurrence counts produced by a scan.
//
// A Histogram remembers the order in which colors were first seen, so
// enumeration is deterministic and matches the scan order rather than
// frequency or hash order. The Store keeps the single current histogram.
package histogram

import (
	"github.com/ironsheep/color-wheel-mcp/internal/pixel"
)

// Entry is one color with its occurrence count.
type Entry struct {
	Color pixel.Color `json:"color"`
	Count int         `json:"count"`
}

// Histogram maps each distinct color to a positive count.
//
// The zero value is not usable; call New.
type Histogram struct {
	index  map[pixel.Color]int
	colors []pixel.Color
	counts []int
	total  int
}

// New returns an empty histogram.
func New() *Histogram {
	return &Histogram{index: make(map[pixel.Color]int)}
}

// Add counts one more occurrence of c, inserting it at the end of the
// enumeration order on first sight.
func (h *Histogram) Add(c pixel.Color) {
	h.total++
	if i, ok := h.index[c]; ok {
		h.counts[i]++
		return
	}
	h.index[c] = len(h.colors)
	h.colors = append(h.colors, c)
	h.counts = append(h.counts, 1)
}

// Len returns the number of distinct colors.
func (h *Histogram) Len() int {
	return len(h.colors)
}

// Count returns the occurrences of c, or 0 if c was never seen.
func (h *Histogram) Count(c pixel.Color) int {
	if i, ok := h.index[c]; ok {
		return h.counts[i]
	}
	return 0
}

// Total returns the sum of all counts.
func (h *Histogram) Total() int {
	return h.total
}

// Colors returns the distinct colors in first-occurrence order.
// The returned slice is a copy.
func (h *Histogram) Colors() []pixel.Color {
	out := make([]pixel.Color, len(h.colors))
	copy(out, h.colors)
	return out
}

// Entries returns color/count pairs in first-occurrence order.
func (h *Histogram) Entries() []Entry {
	out := make([]Entry, len(h.colors))
	for i, c := range h.colors {
		out[i] = Entry{Color: c, Count: h.counts[i]}
	}
	return out
}

// Each calls fn for every entry in first-occurrence order until fn
// returns false.
func (h *Histogram) Each(fn func(c pixel.Color, count int) bool) {
	for i, c := range h.colors {
		if !fn(c, h.counts[i]) {
			return
		}
	}
}
