package material

import (
	"math"
	"math/rand"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// sampleDielectric chooses reflection or refraction with probability given by
// the Schlick approximation, falling back to reflection on total internal reflection.
func (m *Material) sampleDielectric(dir, normal core.Vec3, random *rand.Rand) core.Vec3 {
	ior := m.Refraction
	if ior <= 0 {
		ior = 1
	}

	// Entering when the ray travels against the outward normal
	n := normal
	refractionRatio := 1.0 / ior
	if dir.Dot(normal) > 0 {
		n = normal.Negate()
		refractionRatio = ior
	}

	cosTheta := math.Min(-dir.Dot(n), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	if refractionRatio*sinTheta > 1.0 || Reflectance(cosTheta, refractionRatio) > random.Float64() {
		return reflectVector(dir, n).Normalize()
	}
	return refractVector(dir, n, refractionRatio).Normalize()
}

// reflectVector calculates the reflection of a vector v off a surface with normal n
func reflectVector(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// refractVector calculates the refraction of a vector using Snell's law
func refractVector(uv, n core.Vec3, etaiOverEtat float64) core.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
