package core

import (
	"math"
	"math/rand"
)

// NewRand creates a generator seeded from a base seed and a stream of indices
// (round, task, pixel...). Equal inputs always give the same sequence, which is
// what makes renders reproducible regardless of scheduling.
func NewRand(seed int64, stream ...int64) *rand.Rand {
	h := uint64(seed) ^ 0x9e3779b97f4a7c15
	for _, s := range stream {
		h = splitmix64(h ^ uint64(s))
	}
	return rand.New(rand.NewSource(int64(splitmix64(h))))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// SampleOnUnitSphere maps a uniform 2D sample to a uniform direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// RandomUnitVector returns a uniformly distributed unit vector
func RandomUnitVector(random *rand.Rand) Vec3 {
	return SampleOnUnitSphere(NewVec2(random.Float64(), random.Float64()))
}

// RandomInUnitDisk generates a random point in the unit disk of the XY plane by rejection
func RandomInUnitDisk(random *rand.Rand) Vec2 {
	for {
		p := NewVec2(2*random.Float64()-1, 2*random.Float64()-1)
		if p.X*p.X+p.Y*p.Y <= 1.0 {
			return p
		}
	}
}

// TentSample maps a uniform sample in [0,1) to the tent distribution on [-1,1)
func TentSample(u float64) float64 {
	r := 2 * u
	if r > 1 {
		return 1 - math.Sqrt(2-r)
	}
	return math.Sqrt(r) - 1
}

// RandomTent draws a tent-distributed value in [-1,1)
func RandomTent(random *rand.Rand) float64 {
	return TentSample(random.Float64())
}

// GammaCorrect converts linear radiance to display space: c^(1/gamma).
// Negative components are clamped to zero first.
func GammaCorrect(c Vec3, gamma float64) Vec3 {
	invGamma := 1.0 / gamma
	return Vec3{
		X: math.Pow(math.Max(0, c.X), invGamma),
		Y: math.Pow(math.Max(0, c.Y), invGamma),
		Z: math.Pow(math.Max(0, c.Z), invGamma),
	}
}

// InverseGammaCorrect converts display-space colors (textures) back to linear: c^gamma
func InverseGammaCorrect(c Vec3, gamma float64) Vec3 {
	return Vec3{
		X: math.Pow(math.Max(0, c.X), gamma),
		Y: math.Pow(math.Max(0, c.Y), gamma),
		Z: math.Pow(math.Max(0, c.Z), gamma),
	}
}
