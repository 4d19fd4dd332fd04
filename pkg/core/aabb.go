package core

import "math"

// AABB represents an axis-aligned bounding box that is grown incrementally.
// A box with no vertices is null and is treated as unbounded by MayIntersect.
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner

	vertices int
	sum      Vec3
}

// NewAABB creates a box spanning the two corners
func NewAABB(min, max Vec3) AABB {
	var box AABB
	box.AddVertex(min)
	box.AddVertex(max)
	return box
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	var box AABB
	for _, p := range points {
		box.AddVertex(p)
	}
	return box
}

// IsNull reports whether no vertex has been added yet
func (aabb AABB) IsNull() bool {
	return aabb.vertices == 0
}

// Vertices returns the number of vertices folded into the box
func (aabb AABB) Vertices() int {
	return aabb.vertices
}

// AddVertex grows the box to contain p and folds p into the centroid
func (aabb *AABB) AddVertex(p Vec3) {
	if aabb.vertices == 0 {
		aabb.Min, aabb.Max = p, p
	} else {
		aabb.Min = Vec3{min(aabb.Min.X, p.X), min(aabb.Min.Y, p.Y), min(aabb.Min.Z, p.Z)}
		aabb.Max = Vec3{max(aabb.Max.X, p.X), max(aabb.Max.Y, p.Y), max(aabb.Max.Z, p.Z)}
	}
	aabb.vertices++
	aabb.sum = aabb.sum.Add(p)
}

// FitBox grows the box to contain other, merging vertex counts and sums
func (aabb *AABB) FitBox(other AABB) {
	if other.vertices == 0 {
		return
	}
	if aabb.vertices == 0 {
		*aabb = other
		return
	}
	aabb.Min = Vec3{min(aabb.Min.X, other.Min.X), min(aabb.Min.Y, other.Min.Y), min(aabb.Min.Z, other.Min.Z)}
	aabb.Max = Vec3{max(aabb.Max.X, other.Max.X), max(aabb.Max.Y, other.Max.Y), max(aabb.Max.Z, other.Max.Z)}
	aabb.vertices += other.vertices
	aabb.sum = aabb.sum.Add(other.sum)
}

// Center returns the centroid of all vertices added so far
func (aabb AABB) Center() Vec3 {
	if aabb.vertices == 0 {
		return Vec3{}
	}
	return aabb.sum.Multiply(1 / float64(aabb.vertices))
}

// Size returns the extent of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// MaxSpanAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) MaxSpanAxis() int {
	size := aabb.Size()
	if size.X >= size.Y && size.X >= size.Z {
		return 0
	}
	if size.Y >= size.Z {
		return 1
	}
	return 2
}

// Contains reports whether p lies inside the box, boundary included
func (aabb AABB) Contains(p Vec3) bool {
	if aabb.vertices == 0 {
		return true
	}
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// MayIntersect is the slab test: it reports whether the ray's parameter interval
// inside the box overlaps [tMin, tMax). It never returns false for a ray that
// reaches a point inside the box within that range.
func (aabb AABB) MayIntersect(ray Ray, tMin, tMax float64) bool {
	if aabb.vertices == 0 {
		return true
	}

	into, out := tMin, tMax
	for axis := 0; axis < 3; axis++ {
		lo, hi := aabb.Min.Axis(axis), aabb.Max.Axis(axis)
		origin, direction := ray.Origin.Axis(axis), ray.Direction.Axis(axis)

		// Ray parallel to this slab
		if math.Abs(direction) < 1e-12 {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (lo - origin) * invDirection
		t2 := (hi - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		into = math.Max(into, t1)
		out = math.Min(out, t2)
		if into > out {
			return false
		}
	}

	return into < tMax
}
