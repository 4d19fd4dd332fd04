package geometry

import (
	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// Group owns a list of objects tested one after another
type Group struct {
	Objects []Object
}

// NewGroup creates a group from objects
func NewGroup(objects ...Object) *Group {
	return &Group{Objects: objects}
}

// Add appends an object to the group
func (g *Group) Add(obj Object) {
	g.Objects = append(g.Objects, obj)
}

// Intersect tests every child; the hit record keeps the closest
func (g *Group) Intersect(ray core.Ray, hit *Hit, tmin float64) bool {
	found := false
	for _, obj := range g.Objects {
		if obj.Intersect(ray, hit, tmin) {
			found = true
		}
	}
	return found
}

// BoundingBox folds the children boxes. A group containing an unbounded
// child is itself unbounded.
func (g *Group) BoundingBox() (core.AABB, bool) {
	var box core.AABB
	for _, obj := range g.Objects {
		childBox, ok := obj.BoundingBox()
		if !ok {
			return core.AABB{}, false
		}
		box.FitBox(childBox)
	}
	return box, !box.IsNull()
}
