package loaders

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// testImage is a 2x2 image: white, red on top; green, blue at the bottom
func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})
	return img
}

func writeImage(t *testing.T, path string, encode func(io.Writer, image.Image) error) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	defer f.Close()
	if err := encode(f, testImage()); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

// TestLoadImage writes the test image in every supported format and verifies loading
func TestLoadImage(t *testing.T) {
	tmpDir := t.TempDir()

	encoders := []struct {
		name   string
		encode func(io.Writer, image.Image) error
	}{
		{"test.png", png.Encode},
		{"test.bmp", bmp.Encode},
		{"test.tga", tga.Encode},
	}

	for _, tt := range encoders {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.name)
			writeImage(t, path, tt.encode)

			imageData, err := LoadImage(path)
			if err != nil {
				t.Fatalf("LoadImage failed: %v", err)
			}
			if imageData.Width != 2 || imageData.Height != 2 {
				t.Fatalf("Expected 2x2 image, got %dx%d", imageData.Width, imageData.Height)
			}

			expected := []core.Vec3{
				core.NewVec3(1, 1, 1),
				core.NewVec3(1, 0, 0),
				core.NewVec3(0, 1, 0),
				core.NewVec3(0, 0, 1),
			}
			for i, want := range expected {
				got := imageData.Pixels[i]
				if math.Abs(got.X-want.X) > 0.01 || math.Abs(got.Y-want.Y) > 0.01 || math.Abs(got.Z-want.Z) > 0.01 {
					t.Errorf("Pixel %d: expected %v, got %v", i, want, got)
				}
			}
		})
	}
}

// TestLoadImageNotFound verifies error handling for missing files
func TestLoadImageNotFound(t *testing.T) {
	_, err := LoadImage("nonexistent.png")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestLoadTexture_LinearizesGamma(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gray.png")
	writeImage(t, path, func(w io.Writer, _ image.Image) error {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.Set(0, 0, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		return png.Encode(w, img)
	})

	tex, err := LoadTexture(path, 2.2)
	if err != nil {
		t.Fatalf("LoadTexture failed: %v", err)
	}

	expected := math.Pow(128.0/255.0, 2.2)
	if got := tex.At(0.5, 0.5).X; math.Abs(got-expected) > 1e-3 {
		t.Errorf("Expected linear value %f, got %f", expected, got)
	}
}
