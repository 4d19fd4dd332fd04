package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// Sink receives gamma-corrected pixel colors. y = 0 is the bottom row.
type Sink interface {
	SetPixel(x, y int, c core.Vec3)
	Save(path string) error
}

// Image is an in-memory Sink that encodes by file extension
type Image struct {
	width, height int
	pixels        []core.Vec3
}

// NewImage creates a black image
func NewImage(width, height int) *Image {
	return &Image{
		width:  width,
		height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

func (img *Image) Width() int  { return img.width }
func (img *Image) Height() int { return img.height }

// SetPixel implements Sink
func (img *Image) SetPixel(x, y int, c core.Vec3) {
	img.pixels[y*img.width+x] = c
}

// At returns the stored color of pixel (x, y)
func (img *Image) At(x, y int) core.Vec3 {
	return img.pixels[y*img.width+x]
}

// ToRGBA converts to 8-bit color, flipping so the bottom row comes last
func (img *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.width, img.height))
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			out.SetRGBA(x, img.height-1-y, vec3ToColor(img.At(x, y)))
		}
	}
	return out
}

// Save implements Sink. Supported extensions: .bmp, .png, .webp
func (img *Image) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	rgba := img.ToRGBA()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".bmp":
		err = bmp.Encode(f, rgba)
	case ".png":
		err = png.Encode(f, rgba)
	case ".webp":
		err = nativewebp.Encode(f, rgba, nil)
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// vec3ToColor converts a display-space color with clamping
func vec3ToColor(c core.Vec3) color.RGBA {
	c = c.Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255*c.X + 0.5),
		G: uint8(255*c.Y + 0.5),
		B: uint8(255*c.Z + 0.5),
		A: 255,
	}
}

// AverageLuminance returns the mean display-space luminance
func (img *Image) AverageLuminance() float64 {
	if len(img.pixels) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range img.pixels {
		total += p.Luminance()
	}
	return total / float64(len(img.pixels))
}
