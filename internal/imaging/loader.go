package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/color-wheel-mcp/internal/pixel"
)

// ImageCache provides thread-safe caching of decoded images to avoid
// redundant disk reads.
//
// The cache stores decoded image.Image objects keyed by their file path. Once an
// image is loaded, subsequent Load() calls for the same path return the cached
// copy without disk I/O. Converted pixel buffers are cached alongside, so
// rescanning the same file does not repeat the conversion.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
// A pixel buffer costs 4 bytes per pixel on top of the decoded image.
type ImageCache struct {
	mu      sync.RWMutex
	images  map[string]image.Image
	buffers map[string]*pixel.Buffer
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images:  make(map[string]image.Image),
		buffers: make(map[string]*pixel.Buffer),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// Parameters:
//   - path: Absolute or relative file path to the image. Supported formats are
//     PNG, JPEG, GIF, BMP and TIFF.
//
// Returns:
//   - image.Image: The decoded image, rotated according to its EXIF orientation.
//   - error: Non-nil if the file cannot be opened or decoded.
//
// Different paths to the same file (e.g., relative vs absolute) will result
// in separate cache entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// LoadBuffer loads the image at path and returns its pixels as a B,G,R,A
// buffer ready for scanning. The buffer is shared between callers and must
// not be modified.
func (c *ImageCache) LoadBuffer(path string) (*pixel.Buffer, error) {
	c.mu.RLock()
	if buf, ok := c.buffers[path]; ok {
		c.mu.RUnlock()
		return buf, nil
	}
	c.mu.RUnlock()

	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	buf := ToBuffer(img)

	c.mu.Lock()
	c.buffers[path] = buf
	c.mu.Unlock()

	return buf, nil
}

// Clear removes all images and buffers from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.buffers = make(map[string]*pixel.Buffer)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	delete(c.buffers, path)
	c.mu.Unlock()
}

// ToBuffer converts img into a tightly packed pixel.Buffer.
//
// The image is first normalized to non-premultiplied 8-bit RGBA, then each
// pixel is written in blue, green, red, alpha order. Bounds are rebased so
// the buffer's (0,0) is the image's top-left corner.
func ToBuffer(img image.Image) *pixel.Buffer {
	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	buf := pixel.NewBuffer(w, h)

	for y := 0; y < h; y++ {
		in := src.Pix[y*src.Stride : y*src.Stride+w*4]
		out := buf.Pix[y*buf.Stride : y*buf.Stride+w*pixel.BytesPerPixel]
		for i := 0; i < len(in); i += 4 {
			out[i+0] = in[i+2] // blue
			out[i+1] = in[i+1] // green
			out[i+2] = in[i+0] // red
			out[i+3] = in[i+3] // alpha
		}
	}
	return buf
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format, derived from the file extension:
	// "png", "jpeg", "gif", "bmp", "tiff" or "unknown".
	Format string `json:"format"`

	// HasAlpha indicates whether the image type carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// Pixels is Width*Height, the number of pixels a scan will visit.
	Pixels int `json:"pixels"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image into the cache and returns its metadata.
//
// Parameters:
//   - cache: The image cache to use for loading. Must not be nil.
//   - path: Path to the image file.
//
// Returns:
//   - *ImageInfo: Metadata about the image.
//   - error: Non-nil if the image cannot be loaded or the file cannot be stat'd.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	case ".bmp":
		format = "bmp"
	case ".tif", ".tiff":
		format = "tiff"
	}

	hasAlpha := false
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64, *image.Paletted:
		hasAlpha = true
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		HasAlpha:      hasAlpha,
		Pixels:        bounds.Dx() * bounds.Dy(),
		FileSizeBytes: stat.Size(),
	}, nil
}
