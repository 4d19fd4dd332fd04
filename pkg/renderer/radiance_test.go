package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

func TestRadiance_RoundTrip(t *testing.T) {
	r := NewRadiance(3, 2)
	r.Set(0, 0, core.NewVec3(0.25, 1.5, 12))
	r.Set(2, 1, core.NewVec3(1e-3, 0, 100))

	path := filepath.Join(t.TempDir(), "out.rgbz")
	if err := WriteRadiance(path, r); err != nil {
		t.Fatalf("WriteRadiance failed: %v", err)
	}

	got, err := ReadRadiance(path)
	if err != nil {
		t.Fatalf("ReadRadiance failed: %v", err)
	}
	if got.Width != 3 || got.Height != 2 {
		t.Fatalf("Expected 3x2, got %dx%d", got.Width, got.Height)
	}
	for i := range r.Pixels {
		a, b := r.Pixels[i], got.Pixels[i]
		if math.Abs(a.X-b.X) > 1e-5*math.Max(1, a.X) ||
			math.Abs(a.Y-b.Y) > 1e-5*math.Max(1, a.Y) ||
			math.Abs(a.Z-b.Z) > 1e-5*math.Max(1, a.Z) {
			t.Errorf("Pixel %d: expected %v, got %v", i, a, b)
		}
	}
}

func TestRadiance_BadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.rgbz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc, _ := zstd.NewWriter(f)
	enc.Write([]byte("NOPE0000000000"))
	enc.Close()
	f.Close()

	if _, err := ReadRadiance(path); !errors.Is(err, ErrBadRadianceFile) {
		t.Errorf("Expected ErrBadRadianceFile, got %v", err)
	}
}

func TestRadiance_BadSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint32
	}{
		{"huge", 0xFFFFFFFF, 0xFFFFFFFF},
		{"too many pixels", 1 << 16, 1 << 16},
		{"zero width", 0, 4},
		{"zero height", 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "size.rgbz")
			f, err := os.Create(path)
			if err != nil {
				t.Fatal(err)
			}
			enc, _ := zstd.NewWriter(f)
			enc.Write([]byte("SPRB"))
			binary.Write(enc, binary.LittleEndian, [2]uint32{tt.width, tt.height})
			enc.Close()
			f.Close()

			if _, err := ReadRadiance(path); !errors.Is(err, ErrBadRadianceFile) {
				t.Errorf("Expected ErrBadRadianceFile, got %v", err)
			}
		})
	}
}

func TestRadiance_Tonemap(t *testing.T) {
	r := NewRadiance(1, 1)
	r.Set(0, 0, core.NewVec3(0.25, 1, 4))

	img := NewImage(1, 1)
	r.Tonemap(img, 2)

	got := img.At(0, 0)
	if math.Abs(got.X-0.5) > 1e-12 || math.Abs(got.Y-1) > 1e-12 || math.Abs(got.Z-2) > 1e-12 {
		t.Errorf("Expected (0.5, 1, 2), got %v", got)
	}
}
