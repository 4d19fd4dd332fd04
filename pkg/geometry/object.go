package geometry

import (
	"errors"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// ErrNoBoundingBox is returned when an unbounded object is added to a BVH
var ErrNoBoundingBox = errors.New("object has no bounding box")

// Object is implemented by every scene primitive. The set is closed: Sphere,
// Plane, Triangle, Group, BVH, Mesh and RotateBezier.
type Object interface {
	// Intersect updates hit and returns true only for an intersection with
	// tmin < t < hit.T.
	Intersect(ray core.Ray, hit *Hit, tmin float64) bool

	// BoundingBox returns false for unbounded objects such as planes
	BoundingBox() (core.AABB, bool)

	sealed()
}

func (*Sphere) sealed()       {}
func (*Plane) sealed()        {}
func (*Triangle) sealed()     {}
func (*Group) sealed()        {}
func (*BVH) sealed()          {}
func (*Mesh) sealed()         {}
func (*RotateBezier) sealed() {}
