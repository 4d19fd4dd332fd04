package geometry

import (
	"math"

	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/material"
)

// Hit records the closest intersection found so far along a ray. A fresh Hit
// has T = +Inf; primitives only overwrite it through closer, so traversal
// order never matters.
type Hit struct {
	T        float64
	Point    core.Vec3
	Normal   core.Vec3 // unit length, not oriented against the ray
	UV       core.Vec2
	Material *material.Material
	Texture  *material.Texture // resolved lazily by Color
}

// NewHit returns an empty hit record
func NewHit() Hit {
	return Hit{T: math.Inf(1)}
}

// Found reports whether any primitive has recorded a hit
func (h *Hit) Found() bool {
	return !math.IsInf(h.T, 1)
}

// Color resolves the base color at the hit: the texture when one is bound,
// the material's ambient color otherwise.
func (h *Hit) Color() core.Vec3 {
	if h.Texture != nil {
		return h.Texture.At(material.Wrap(h.UV.X), material.Wrap(h.UV.Y))
	}
	if h.Material == nil {
		return core.Vec3{}
	}
	return h.Material.Ambient
}

// closer reports whether t lies strictly inside (tmin, h.T). It is the only
// acceptance test primitives use.
func (h *Hit) closer(t, tmin float64) bool {
	return t > tmin && t < h.T
}

func (h *Hit) record(t float64, point, normal core.Vec3, m *material.Material, tex *material.Texture, uv core.Vec2) {
	h.T = t
	h.Point = point
	h.Normal = normal
	h.Material = m
	h.Texture = tex
	h.UV = uv
}
