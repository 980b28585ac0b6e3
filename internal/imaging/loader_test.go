package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ironsheep/color-wheel-mcp/internal/pixel"
)

// createTestImage creates a simple test image file and returns its path.
// The caller is responsible for removing the file.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	tmpFile, err := os.CreateTemp("", "test-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}

	return tmpFile.Name()
}

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache()
	if cache == nil {
		t.Fatal("NewImageCache returned nil")
	}
	if cache.images == nil || cache.buffers == nil {
		t.Fatal("NewImageCache did not initialize its maps")
	}
}

func TestImageCache_Load(t *testing.T) {
	path := createTestImage(t, 100, 50, color.RGBA{255, 0, 0, 255})
	defer os.Remove(path)

	cache := NewImageCache()
	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 50 {
		t.Errorf("dimensions: got %dx%d, want 100x50", bounds.Dx(), bounds.Dy())
	}

	again, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if again != img {
		t.Error("second Load did not return the cached image")
	}
}

func TestImageCache_LoadErrors(t *testing.T) {
	cache := NewImageCache()

	if _, err := cache.Load("/nonexistent/path/image.png"); err == nil {
		t.Error("Load should fail for a missing file")
	}

	bogus := filepath.Join(t.TempDir(), "not-an-image.png")
	if err := os.WriteFile(bogus, []byte("definitely not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.LoadBuffer(bogus); err == nil {
		t.Error("LoadBuffer should fail for an undecodable file")
	}
}

func TestImageCache_LoadBuffer(t *testing.T) {
	path := createTestImage(t, 3, 2, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80})
	defer os.Remove(path)

	cache := NewImageCache()
	buf, err := cache.LoadBuffer(path)
	if err != nil {
		t.Fatalf("LoadBuffer failed: %v", err)
	}

	if buf.Width != 3 || buf.Height != 2 || buf.Stride != 12 {
		t.Errorf("geometry: got %dx%d stride %d", buf.Width, buf.Height, buf.Stride)
	}
	if got := buf.At(2, 1); got != pixel.ARGB(0x80, 0x11, 0x22, 0x33) {
		t.Errorf("At(2,1): got %+v", got)
	}
	// Raw byte order is B,G,R,A.
	if buf.Pix[0] != 0x33 || buf.Pix[1] != 0x22 || buf.Pix[2] != 0x11 || buf.Pix[3] != 0x80 {
		t.Errorf("first pixel bytes: got %v", buf.Pix[:4])
	}

	again, _ := cache.LoadBuffer(path)
	if again != buf {
		t.Error("second LoadBuffer did not return the cached buffer")
	}
}

func TestImageCache_EvictAndClear(t *testing.T) {
	path := createTestImage(t, 10, 10, color.White)
	defer os.Remove(path)

	cache := NewImageCache()
	if _, err := cache.LoadBuffer(path); err != nil {
		t.Fatal(err)
	}

	cache.Evict(path)
	if len(cache.images) != 0 || len(cache.buffers) != 0 {
		t.Error("Evict left entries behind")
	}

	cache.Evict("/not/cached.png")

	if _, err := cache.LoadBuffer(path); err != nil {
		t.Fatal(err)
	}
	cache.Clear()
	if len(cache.images) != 0 || len(cache.buffers) != 0 {
		t.Error("Clear left entries behind")
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	path := createTestImage(t, 20, 20, color.Black)
	defer os.Remove(path)

	cache := NewImageCache()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.LoadBuffer(path); err != nil {
				t.Errorf("concurrent LoadBuffer failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestToBuffer_RebasesBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	img.Set(5, 5, color.NRGBA{R: 255, A: 255})
	img.Set(6, 5, color.NRGBA{B: 255, A: 255})

	buf := ToBuffer(img)

	if buf.Width != 2 || buf.Height != 1 {
		t.Fatalf("geometry: got %dx%d, want 2x1", buf.Width, buf.Height)
	}
	if buf.At(0, 0) != pixel.Opaque(255, 0, 0) || buf.At(1, 0) != pixel.Opaque(0, 0, 255) {
		t.Errorf("pixels: got %+v %+v", buf.At(0, 0), buf.At(1, 0))
	}
}

func TestLoadImageInfo(t *testing.T) {
	path := createTestImage(t, 40, 30, color.RGBA{0, 255, 0, 255})
	defer os.Remove(path)

	info, err := LoadImageInfo(NewImageCache(), path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 40 || info.Height != 30 || info.Pixels != 1200 {
		t.Errorf("size: got %dx%d (%d px)", info.Width, info.Height, info.Pixels)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("FileSizeBytes: got %d", info.FileSizeBytes)
	}
}

func TestDisplay(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 20))

	out, err := Display(img, 50, 50)
	if err != nil {
		t.Fatalf("Display failed: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 50 || b.Dy() != 50 {
		t.Errorf("size: got %dx%d, want 50x50", b.Dx(), b.Dy())
	}

	if _, err := Display(img, 0, 10); err == nil {
		t.Error("Display should reject a zero width")
	}
}
