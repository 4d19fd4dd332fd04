package camera

import (
	"math"
	"math/rand"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	Center      core.Vec3 // eye position
	Direction   core.Vec3 // viewing direction
	Up          core.Vec3 // approximate up vector, orthogonalized against Direction
	Width       int       // image width in pixels
	Height      int       // image height in pixels
	Angle       float64   // vertical field of view in degrees
	FocalLength float64   // distance to the plane in perfect focus (0 = unit distance)
	Aperture    float64   // lens radius (0 = pinhole)
	Shutter     float64   // shutter open time, ray times are sampled in [0, Shutter)
}

// PerspectiveCamera generates primary rays through a thin lens.
type PerspectiveCamera struct {
	config CameraConfig

	center     core.Vec3
	direction  core.Vec3
	up         core.Vec3
	right      core.Vec3
	focalScale float64
	focalStart core.Vec3 // focal-plane point for pixel (0, 0)
}

// NewPerspectiveCamera creates a camera from the given configuration
func NewPerspectiveCamera(config CameraConfig) *PerspectiveCamera {
	if config.FocalLength <= 0 {
		config.FocalLength = 1
	}

	direction := config.Direction.Normalize()
	right := direction.Cross(config.Up).Normalize()
	up := right.Cross(direction)

	w, h := float64(config.Width), float64(config.Height)
	angle := config.Angle * math.Pi / 180
	pixelPlane := h / 2 / math.Tan(angle/2)
	focalScale := config.FocalLength / pixelPlane

	focalStart := config.Center.
		Add(direction.Multiply(config.FocalLength)).
		Subtract(right.Multiply(w / 2).Add(up.Multiply(h / 2)).Multiply(focalScale))

	return &PerspectiveCamera{
		config:     config,
		center:     config.Center,
		direction:  direction,
		up:         up,
		right:      right,
		focalScale: focalScale,
		focalStart: focalStart,
	}
}

// Width returns the image width in pixels
func (c *PerspectiveCamera) Width() int { return c.config.Width }

// Height returns the image height in pixels
func (c *PerspectiveCamera) Height() int { return c.config.Height }

// Config returns the configuration the camera was built from
func (c *PerspectiveCamera) Config() CameraConfig { return c.config }

// Forward returns the unit viewing direction
func (c *PerspectiveCamera) Forward() core.Vec3 { return c.direction }

// GenerateRay returns a ray through the image-plane point (x, y), measured in
// pixels from the bottom-left corner. With a non-zero aperture the origin is
// jittered over the lens disk; with a non-zero shutter the ray time is random.
func (c *PerspectiveCamera) GenerateRay(x, y float64, random *rand.Rand) core.Ray {
	target := c.focalStart.Add(c.right.Multiply(x).Add(c.up.Multiply(y)).Multiply(c.focalScale))

	origin := c.center
	if c.config.Aperture > 0 {
		lens := core.RandomInUnitDisk(random)
		origin = origin.
			Add(c.right.Multiply(c.config.Aperture * lens.X)).
			Add(c.up.Multiply(c.config.Aperture * lens.Y))
	}

	time := 0.0
	if c.config.Shutter > 0 {
		time = c.config.Shutter * random.Float64()
	}

	return core.NewRayAt(origin, target.Subtract(origin).Normalize(), time)
}
