package material

import (
	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// Texture is a decoded image sampled by nearest pixel
type Texture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x], row 0 at the top
}

// NewTexture creates a new image texture
func NewTexture(width, height int, pixels []core.Vec3) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// At returns the texel nearest to (u, v). Callers wrap u and v into [0, 1);
// v = 0 is the bottom of the image.
func (t *Texture) At(u, v float64) core.Vec3 {
	x := int(u * float64(t.Width))
	y := int((1.0 - v) * float64(t.Height))

	// Clamp to image bounds
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	return t.Pixels[y*t.Width+x]
}

// Wrap maps any coordinate into [0, 1)
func Wrap(x float64) float64 {
	x -= float64(int(x))
	if x < 0 {
		x += 1.0
	}
	return x
}
