// Package imaging loads image files and turns them into the forms the rest
// of the server works with.
//
// Decoded images are cached by path in an ImageCache, together with their
// B,G,R,A pixel buffers, so a file can be rescanned and redrawn without
// another disk read. Display resizes an image to fill the chart viewport,
// and Report converts a histogram into its JSON form.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Buffers produced by
// ToBuffer are rebased so their origin is the image's top-left pixel.
//
// # Color Representation
//
// Colors are returned in multiple formats for flexibility:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - ARGB: 8-character format "#AARRGGBB", the exact histogram key
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit components with alpha (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Cached images and buffers are shared
// and must be treated as read-only.
//
// # Performance Considerations
//
// A cached entry holds the decoded image plus 4 bytes per pixel for its
// buffer. Use Evict() or Clear() to manage memory for long-running processes.
package imaging
