package lights

import (
	"math/rand"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

type LightType string

const (
	LightTypePoint  LightType = "point"
	LightTypeSphere LightType = "sphere"
)

// ColoredRay is a photon leaving a light: a unit-direction ray carrying flux
type ColoredRay struct {
	Ray   core.Ray
	Color core.Vec3
}

// Light interface for sources that emit photons
type Light interface {
	Type() LightType

	// EmitRay samples one photon leaving the light
	EmitRay(random *rand.Rand) ColoredRay

	// Power returns the flux carried by every emitted photon
	Power() core.Vec3
}
