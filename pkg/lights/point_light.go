package lights

import (
	"math/rand"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// PointLight emits uniformly in all directions from a single point
type PointLight struct {
	Position core.Vec3
	Color    core.Vec3
}

// NewPointLight creates a new point light
func NewPointLight(position, color core.Vec3) *PointLight {
	return &PointLight{Position: position, Color: color}
}

func (pl *PointLight) Type() LightType {
	return LightTypePoint
}

func (pl *PointLight) Power() core.Vec3 {
	return pl.Color
}

// EmitRay implements the Light interface
func (pl *PointLight) EmitRay(random *rand.Rand) ColoredRay {
	return ColoredRay{
		Ray:   core.NewRay(pl.Position, core.RandomUnitVector(random)),
		Color: pl.Color,
	}
}
