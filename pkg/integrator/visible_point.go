package integrator

import (
	"math"
	"sync"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// VisiblePoint is the first diffuse surface seen through a camera sample. It
// gathers photons within a radius that only ever shrinks.
type VisiblePoint struct {
	mu sync.Mutex

	center      core.Vec3
	radius      float64
	flux        core.Vec3 // accumulated photon flux, already weighted by attenuation
	photons     float64   // effective photon count n
	attenuation core.Vec3 // camera path throughput times the surface color
	forwardFlux core.Vec3 // emission gathered along the camera path
	valid       bool      // false when the camera path never reached a diffuse surface
}

// Center implements spatial.Ball
func (vp *VisiblePoint) Center() core.Vec3 {
	return vp.center
}

// Radius implements spatial.Ball
func (vp *VisiblePoint) Radius() float64 {
	vp.mu.Lock()
	defer vp.mu.Unlock()
	return vp.radius
}

// reset prepares the point for a new round
func (vp *VisiblePoint) reset(radius float64) {
	vp.mu.Lock()
	defer vp.mu.Unlock()
	vp.center = core.Vec3{}
	vp.radius = radius
	vp.flux = core.Vec3{}
	vp.photons = 0
	vp.attenuation = core.Vec3{}
	vp.forwardFlux = core.Vec3{}
	vp.valid = false
}

// AddPhoton deposits a photon of the given power that landed at p. Photons
// outside the current radius are ignored. On acceptance the radius shrinks by
// sqrt(f) with f = (nα+α)/(nα+1) and the existing flux is scaled by f.
// It reports whether the photon was accepted.
func (vp *VisiblePoint) AddPhoton(p, power core.Vec3, alpha float64) bool {
	vp.mu.Lock()
	defer vp.mu.Unlock()

	if p.Subtract(vp.center).Length() > vp.radius {
		return false
	}

	na := vp.photons * alpha
	f := (na + alpha) / (na + 1)
	vp.radius *= math.Sqrt(f)
	vp.flux = vp.flux.Multiply(f).Add(vp.attenuation.MultiplyVec(power))
	vp.photons++
	return true
}

// Estimate returns the radiance of this round: photon flux over the gather
// disk normalized by the photons emitted, plus the forward flux
func (vp *VisiblePoint) Estimate(photonsPerRound int) core.Vec3 {
	vp.mu.Lock()
	defer vp.mu.Unlock()

	if !vp.valid || vp.photons == 0 {
		return vp.forwardFlux
	}
	area := math.Pi * vp.radius * vp.radius
	return vp.flux.Divide(area * float64(photonsPerRound)).Add(vp.forwardFlux)
}
