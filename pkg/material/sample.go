package material

import (
	"math"
	"math/rand"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// Sample importance-samples an outgoing direction for a ray arriving along
// in.Direction at a surface with the given normal. The normal may face either
// side; every model orients it against the incoming direction itself.
// The result is unit length.
func (m *Material) Sample(in core.Ray, normal core.Vec3, random *rand.Rand) core.Vec3 {
	dir := in.Direction.Normalize()

	switch m.Illum {
	case Blinn:
		return sampleBlinn(dir, facing(normal, dir), m.Shininess, random)
	case Reflective:
		return reflectVector(dir, normal).Normalize()
	case Transparent:
		return m.sampleDielectric(dir, normal, random)
	default:
		return sampleDiffuse(facing(normal, dir), random)
	}
}

// BRDF returns the transport weight of the pair (in, out). Only the Blinn
// model has a non-trivial weight; the others are fully described by Sample.
func (m *Material) BRDF(in, out core.Ray, normal core.Vec3) core.Vec3 {
	if m.Illum != Blinn {
		return core.NewVec3(1, 1, 1)
	}

	wi := in.Direction.Normalize()
	wo := out.Direction.Normalize()
	n := facing(normal, wi)
	r := reflectVector(wi, n)

	diffuse := m.Diffuse.Multiply(math.Max(0, n.Dot(wo)))
	specular := m.Specular.Multiply(math.Pow(math.Max(0, wo.Dot(r)), m.Shininess))
	return diffuse.Add(specular)
}

// facing flips n so that it points against dir
func facing(n, dir core.Vec3) core.Vec3 {
	if n.Dot(dir) > 0 {
		return n.Negate()
	}
	return n
}

func sampleDiffuse(n core.Vec3, random *rand.Rand) core.Vec3 {
	d := n.Add(core.RandomUnitVector(random))
	// The random vector can cancel the normal exactly
	if d.LengthSquared() < 1e-12 {
		return n
	}
	return d.Normalize()
}

// sampleBlinn picks a random azimuth around n and a cosine to the normal of
// u^(1/(Ns+1)), so higher shininess concentrates samples near the normal.
func sampleBlinn(dir, n core.Vec3, shininess float64, random *rand.Rand) core.Vec3 {
	front := dir.Subtract(n.Multiply(n.Dot(dir)))
	if front.LengthSquared() < 1e-12 {
		// Head-on incidence: any tangent will do
		if math.Abs(n.X) > 0.1 {
			front = core.NewVec3(0, 1, 0).Cross(n)
		} else {
			front = core.NewVec3(1, 0, 0).Cross(n)
		}
	}
	front = front.Normalize()
	side := n.Cross(front)

	theta := 2 * math.Pi * random.Float64()
	cosAlpha := math.Pow(random.Float64(), 1/(shininess+1))
	sinAlpha := math.Sqrt(math.Max(0, 1-cosAlpha*cosAlpha))

	tangent := front.Multiply(math.Cos(theta)).Add(side.Multiply(math.Sin(theta)))
	return tangent.Multiply(sinAlpha).Add(n.Multiply(cosAlpha)).Normalize()
}
