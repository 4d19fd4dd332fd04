package geometry

import (
	"math"

	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/material"
)

// Plane is the infinite surface dot(Normal, p) = D
type Plane struct {
	Normal   core.Vec3
	D        float64
	Material *material.Material
	Texture  *material.Texture

	TextureScale     float64
	TextureTranslate core.Vec2
	textureUp        core.Vec3
	textureRight     core.Vec3
}

// NewPlane creates a plane. The normal is normalized and d rescaled to match.
func NewPlane(normal core.Vec3, d float64, material *material.Material) *Plane {
	length := normal.Length()
	p := &Plane{
		Normal:       normal.Multiply(1 / length),
		D:            d / length,
		Material:     material,
		TextureScale: 1,
	}
	p.SetTextureUp(core.NewVec3(0, 1, 0))
	return p
}

// SetTextureUp orients the texture on the plane. up is made orthogonal to the
// normal; a parallel up falls back to another axis.
func (p *Plane) SetTextureUp(up core.Vec3) {
	projected := up.Subtract(p.Normal.Multiply(p.Normal.Dot(up)))
	if projected.LengthSquared() < 1e-12 {
		alt := core.NewVec3(1, 0, 0)
		if math.Abs(p.Normal.X) > 0.9 {
			alt = core.NewVec3(0, 0, 1)
		}
		projected = alt.Subtract(p.Normal.Multiply(p.Normal.Dot(alt)))
	}
	p.textureUp = projected.Normalize()
	p.textureRight = p.textureUp.Cross(p.Normal)
}

// Intersect solves dot(n, o + t*d) = D. Rays parallel to the plane give a
// non-finite t and fail the range check.
func (p *Plane) Intersect(ray core.Ray, hit *Hit, tmin float64) bool {
	t := (p.D - ray.Origin.Dot(p.Normal)) / ray.Direction.Dot(p.Normal)
	if !hit.closer(t, tmin) {
		return false
	}

	point := ray.At(t)
	hit.record(t, point, p.Normal, p.Material, p.Texture, p.uv(point))
	return true
}

func (p *Plane) uv(point core.Vec3) core.Vec2 {
	scale := p.TextureScale
	if scale == 0 {
		scale = 1
	}
	return core.NewVec2(
		point.Dot(p.textureRight)/scale+p.TextureTranslate.X,
		point.Dot(p.textureUp)/scale+p.TextureTranslate.Y,
	)
}

// BoundingBox reports that planes are unbounded
func (p *Plane) BoundingBox() (core.AABB, bool) {
	return core.AABB{}, false
}
