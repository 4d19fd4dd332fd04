package lights

import (
	"math/rand"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// SphereLight emits from random points on a sphere surface in random directions
type SphereLight struct {
	Center core.Vec3
	Radius float64
	Color  core.Vec3
}

// NewSphereLight creates a new spherical light
func NewSphereLight(center core.Vec3, radius float64, color core.Vec3) *SphereLight {
	return &SphereLight{Center: center, Radius: radius, Color: color}
}

func (sl *SphereLight) Type() LightType {
	return LightTypeSphere
}

func (sl *SphereLight) Power() core.Vec3 {
	return sl.Color
}

// EmitRay implements the Light interface. The start point and the direction are
// sampled independently; directions pointing into the sphere are kept and the
// photon leaves through the far side on its first intersection test.
func (sl *SphereLight) EmitRay(random *rand.Rand) ColoredRay {
	origin := sl.Center.Add(core.RandomUnitVector(random).Multiply(sl.Radius))
	return ColoredRay{
		Ray:   core.NewRay(origin, core.RandomUnitVector(random)),
		Color: sl.Color,
	}
}
