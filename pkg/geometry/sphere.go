package geometry

import (
	"math"

	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/material"
)

// Sphere represents a sphere, optionally moving linearly during the shutter
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material *material.Material
	Texture  *material.Texture

	// Velocity moves the center to Center + Velocity*time. Shutter bounds the
	// ray times the bounding box has to cover.
	Velocity core.Vec3
	Shutter  float64
}

// NewSphere creates a new static sphere
func NewSphere(center core.Vec3, radius float64, material *material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// NewMovingSphere creates a sphere whose center moves with velocity over [0, shutter)
func NewMovingSphere(center core.Vec3, radius float64, velocity core.Vec3, shutter float64, material *material.Material) *Sphere {
	s := NewSphere(center, radius, material)
	s.Velocity = velocity
	s.Shutter = shutter
	return s
}

// CenterAt returns the center at the given shutter time
func (s *Sphere) CenterAt(time float64) core.Vec3 {
	if s.Velocity.IsZero() {
		return s.Center
	}
	return s.Center.Add(s.Velocity.Multiply(time))
}

// Intersect projects the center onto the ray to avoid cancellation in the quadratic
func (s *Sphere) Intersect(ray core.Ray, hit *Hit, tmin float64) bool {
	center := s.CenterAt(ray.Time)
	originToCenter := center.Subtract(ray.Origin)

	a := ray.Direction.LengthSquared()
	tp := originToCenter.Dot(ray.Direction) / a
	dist2 := originToCenter.LengthSquared() - tp*tp*a
	r2 := s.Radius * s.Radius
	if dist2 > r2 {
		return false
	}

	tHalf := math.Sqrt((r2 - math.Max(0, dist2)) / a)
	t := tp - tHalf
	if t <= tmin {
		t = tp + tHalf
	}
	if !hit.closer(t, tmin) {
		return false
	}

	point := ray.At(t)
	normal := point.Subtract(center).Multiply(1.0 / s.Radius)
	hit.record(t, point, normal, s.Material, s.Texture, sphereUV(normal))
	return true
}

// sphereUV maps a unit outward normal to spherical texture coordinates
func sphereUV(n core.Vec3) core.Vec2 {
	u := math.Atan2(n.Z, n.X)/(2*math.Pi) + 0.5
	v := math.Asin(math.Max(-1, math.Min(1, n.Y)))/math.Pi + 0.5
	return core.NewVec2(u, v)
}

// BoundingBox returns the box swept by the sphere over the shutter
func (s *Sphere) BoundingBox() (core.AABB, bool) {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	box := core.NewAABB(s.Center.Subtract(radius), s.Center.Add(radius))
	if !s.Velocity.IsZero() {
		end := s.CenterAt(s.Shutter)
		box.FitBox(core.NewAABB(end.Subtract(radius), end.Add(radius)))
	}
	return box, true
}
