package scene

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"

	"github.com/df07/go-sppm-raytracer/pkg/camera"
	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/geometry"
	"github.com/df07/go-sppm-raytracer/pkg/lights"
)

// Scene contains all the elements needed for rendering. It is immutable once built.
type Scene struct {
	Name       string
	Root       geometry.Object // BVH over bounded objects, grouped with unbounded ones
	Camera     *camera.PerspectiveCamera
	Lights     []lights.Light
	Background core.Vec3
	Gamma      float64

	objects []geometry.Object // top-level objects before acceleration
	bvh     *geometry.BVH
}

// NewScene builds the acceleration structure over objects. Bounded objects
// go into a BVH; unbounded ones (planes) are tested alongside it.
func NewScene(name string, objects []geometry.Object, cam *camera.PerspectiveCamera, sceneLights []lights.Light, background core.Vec3, gamma float64) (*Scene, error) {
	var bounded, unbounded []geometry.Object
	for _, obj := range objects {
		if _, ok := obj.BoundingBox(); ok {
			bounded = append(bounded, obj)
		} else {
			unbounded = append(unbounded, obj)
		}
	}

	s := &Scene{
		Name:       name,
		Camera:     cam,
		Lights:     sceneLights,
		Background: background,
		Gamma:      gamma,
		objects:    objects,
	}

	root := geometry.NewGroup(unbounded...)
	if len(bounded) > 0 {
		bvh, err := geometry.NewBVH(bounded)
		if err != nil {
			return nil, fmt.Errorf("failed to build BVH: %w", err)
		}
		s.bvh = bvh
		root.Add(bvh)
	}

	if len(root.Objects) == 1 {
		s.Root = root.Objects[0]
	} else {
		s.Root = root
	}
	return s, nil
}

// Intersect returns the closest hit beyond tmin
func (s *Scene) Intersect(ray core.Ray, tmin float64) (geometry.Hit, bool) {
	hit := geometry.NewHit()
	found := s.Root.Intersect(ray, &hit, tmin)
	return hit, found
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, obj := range s.objects {
		count += countPrimitives(obj)
	}
	return count
}

// countPrimitives counts primitives in a single object, descending into containers
func countPrimitives(obj geometry.Object) int {
	switch o := obj.(type) {
	case *geometry.Mesh:
		return o.TriangleCount()
	case *geometry.Group:
		count := 0
		for _, child := range o.Objects {
			count += countPrimitives(child)
		}
		return count
	default:
		return 1
	}
}

// meshes collects the meshes of the scene, descending into groups
func meshes(objs []geometry.Object) []*geometry.Mesh {
	var found []*geometry.Mesh
	for _, obj := range objs {
		switch o := obj.(type) {
		case *geometry.Mesh:
			found = append(found, o)
		case *geometry.Group:
			found = append(found, meshes(o.Objects)...)
		}
	}
	return found
}

// Stats builds a tabular summary of the scene
func (s *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Scene", s.Name})
	table.Append([]string{"Resolution", fmt.Sprintf("%dx%d", s.Camera.Width(), s.Camera.Height())})
	table.Append([]string{"Objects", fmt.Sprintf("%d", len(s.objects))})
	table.Append([]string{"Primitives", fmt.Sprintf("%d", s.GetPrimitiveCount())})
	table.Append([]string{"Lights", fmt.Sprintf("%d", len(s.Lights))})
	if ms := meshes(s.objects); len(ms) > 0 {
		depth := 0
		for _, m := range ms {
			if d := m.Stats().MaxDepth; d > depth {
				depth = d
			}
		}
		table.Append([]string{"Meshes", fmt.Sprintf("%d (max BVH depth %d)", len(ms), depth)})
	}
	if s.bvh != nil {
		stats := s.bvh.Stats()
		table.Append([]string{"BVH nodes", fmt.Sprintf("%d (%d leaves)", stats.TotalNodes, stats.LeafNodes)})
		table.Append([]string{"BVH depth", fmt.Sprintf("max %d, avg %.1f", stats.MaxDepth, stats.AvgDepth)})
	}
	table.Append([]string{"Gamma", fmt.Sprintf("%.2f", s.Gamma)})
	table.Render()
	return buf.String()
}
