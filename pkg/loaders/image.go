package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	_ "github.com/ftrvxmtrx/tga" // TGA decoder
	_ "golang.org/x/image/bmp"   // BMP decoder

	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/material"
)

// ImageData contains loaded image data as Vec3 color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3 // row 0 at the top
}

// LoadImage loads a PNG, JPEG, BMP or TGA image and converts it to Vec3 color array
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Decode image (auto-detects the format from the file header)
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}

// LoadTexture loads an image as a texture in linear space. Stored pixels are
// assumed to be encoded with the given display gamma.
func LoadTexture(filename string, gamma float64) (*material.Texture, error) {
	data, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	if gamma > 0 && gamma != 1 {
		for i, p := range data.Pixels {
			data.Pixels[i] = core.InverseGammaCorrect(p, gamma)
		}
	}
	return material.NewTexture(data.Width, data.Height, data.Pixels), nil
}
