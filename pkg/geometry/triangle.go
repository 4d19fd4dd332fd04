package geometry

import (
	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices, with
// optional per-vertex shading normals and texture coordinates
type Triangle struct {
	V0, V1, V2 core.Vec3
	Material   *material.Material
	Texture    *material.Texture

	normals *[3]core.Vec3
	uvs     *[3]core.Vec2
	normal  core.Vec3 // flat face normal
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, material *material.Material) *Triangle {
	return &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: material,
		normal:   v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize(),
	}
}

// SetNormals sets per-vertex normals that are interpolated across the face
func (t *Triangle) SetNormals(n0, n1, n2 core.Vec3) {
	t.normals = &[3]core.Vec3{n0.Normalize(), n1.Normalize(), n2.Normalize()}
}

// SetUVs sets per-vertex texture coordinates
func (t *Triangle) SetUVs(uv0, uv1, uv2 core.Vec2) {
	t.uvs = &[3]core.Vec2{uv0, uv1, uv2}
}

// Normal returns the flat face normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// Intersect solves o + t*d = V0 - beta*(V0-V1) - gamma*(V0-V2) with Cramer's rule
func (t *Triangle) Intersect(ray core.Ray, hit *Hit, tmin float64) bool {
	e1 := t.V0.Subtract(t.V1)
	e2 := t.V0.Subtract(t.V2)
	s := t.V0.Subtract(ray.Origin)
	d := ray.Direction

	det := det3(d, e1, e2)
	beta := det3(d, s, e2) / det
	gamma := det3(d, e1, s) / det
	if !(beta >= 0 && gamma >= 0 && beta+gamma <= 1) {
		return false
	}

	tHit := det3(s, e1, e2) / det
	if !hit.closer(tHit, tmin) {
		return false
	}

	alpha := 1 - beta - gamma
	normal := t.normal
	if t.normals != nil {
		normal = t.normals[0].Multiply(alpha).
			Add(t.normals[1].Multiply(beta)).
			Add(t.normals[2].Multiply(gamma)).
			Normalize()
	}

	var uv core.Vec2
	tex := t.Texture
	if t.uvs != nil {
		uv = t.uvs[0].Multiply(alpha).Add(t.uvs[1].Multiply(beta)).Add(t.uvs[2].Multiply(gamma))
	} else {
		tex = nil
	}

	hit.record(tHit, ray.At(tHit), normal, t.Material, tex, uv)
	return true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() (core.AABB, bool) {
	return core.NewAABBFromPoints(t.V0, t.V1, t.V2), true
}

// det3 is the determinant of the 3x3 matrix with columns a, b, c
func det3(a, b, c core.Vec3) float64 {
	return a.Dot(b.Cross(c))
}
