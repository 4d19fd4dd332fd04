package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/material"
)

// ErrFaceIndex is returned when a face references a vertex that does not exist
var ErrFaceIndex = errors.New("face index out of range")

// Mesh is a triangle collection intersected through its own BVH
type Mesh struct {
	triangles []*Triangle
	bvh       *BVH
	material  *material.Material
}

// MeshOptions contains optional per-vertex attributes for NewMesh
type MeshOptions struct {
	Normals []core.Vec3 // one per vertex, interpolated across faces
	UVs     []core.Vec2 // one per vertex
	Texture *material.Texture
}

// NewMesh creates a mesh from vertices and face indices; each group of three
// indices forms a triangle. options may be nil.
func NewMesh(vertices []core.Vec3, faces []int, mat *material.Material, options *MeshOptions) (*Mesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("mesh has %d face indices, not a multiple of 3", len(faces))
	}
	if options != nil {
		if options.Normals != nil && len(options.Normals) != len(vertices) {
			return nil, fmt.Errorf("mesh has %d normals for %d vertices", len(options.Normals), len(vertices))
		}
		if options.UVs != nil && len(options.UVs) != len(vertices) {
			return nil, fmt.Errorf("mesh has %d uvs for %d vertices", len(options.UVs), len(vertices))
		}
	}

	triangles := make([]*Triangle, 0, len(faces)/3)
	for i := 0; i < len(faces); i += 3 {
		i0, i1, i2 := faces[i], faces[i+1], faces[i+2]
		for _, idx := range []int{i0, i1, i2} {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("face %d references vertex %d of %d: %w", i/3, idx, len(vertices), ErrFaceIndex)
			}
		}

		tri := NewTriangle(vertices[i0], vertices[i1], vertices[i2], mat)
		if options != nil {
			if options.Normals != nil {
				tri.SetNormals(options.Normals[i0], options.Normals[i1], options.Normals[i2])
			}
			if options.UVs != nil {
				tri.SetUVs(options.UVs[i0], options.UVs[i1], options.UVs[i2])
				tri.Texture = options.Texture
			}
		}
		triangles = append(triangles, tri)
	}

	return NewMeshFromTriangles(triangles, mat)
}

// NewMeshFromTriangles wraps already built triangles in a mesh
func NewMeshFromTriangles(triangles []*Triangle, mat *material.Material) (*Mesh, error) {
	objects := make([]Object, len(triangles))
	for i, tri := range triangles {
		objects[i] = tri
	}
	bvh, err := NewBVH(objects)
	if err != nil {
		return nil, err
	}
	return &Mesh{
		triangles: triangles,
		bvh:       bvh,
		material:  mat,
	}, nil
}

// Intersect tests the ray against the mesh BVH
func (m *Mesh) Intersect(ray core.Ray, hit *Hit, tmin float64) bool {
	return m.bvh.Intersect(ray, hit, tmin)
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (m *Mesh) BoundingBox() (core.AABB, bool) {
	return m.bvh.BoundingBox()
}

// TriangleCount returns the number of triangles in this mesh
func (m *Mesh) TriangleCount() int {
	return len(m.triangles)
}

// Stats returns the shape of the mesh BVH
func (m *Mesh) Stats() BVHStats {
	return m.bvh.Stats()
}
