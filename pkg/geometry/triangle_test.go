package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/material"
)

func TestTriangle_Intersect(t *testing.T) {
	// Triangle in the XY plane
	v0 := core.NewVec3(0, 0, 0)
	v1 := core.NewVec3(1, 0, 0)
	v2 := core.NewVec3(0, 1, 0)
	triangle := NewTriangle(v0, v1, v2, gray)

	const eps = 1e-6
	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
	}{
		{
			name:      "Ray hits triangle center",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, -1), core.NewVec3(0, 0, 1)),
			shouldHit: true,
			expectedT: 1.0,
		},
		{
			name:      "Ray hits triangle edge",
			ray:       core.NewRay(core.NewVec3(0.5, 0, -1), core.NewVec3(0, 0, 1)),
			shouldHit: true,
			expectedT: 1.0,
		},
		{
			name:      "Ray hits vertex V0",
			ray:       core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1)),
			shouldHit: true,
			expectedT: 1.0,
		},
		{
			name:      "Ray hits vertex V1",
			ray:       core.NewRay(core.NewVec3(1, 0, -1), core.NewVec3(0, 0, 1)),
			shouldHit: true,
			expectedT: 1.0,
		},
		{
			name:      "Ray hits vertex V2",
			ray:       core.NewRay(core.NewVec3(0, 1, -1), core.NewVec3(0, 0, 1)),
			shouldHit: true,
			expectedT: 1.0,
		},
		{
			name:      "Epsilon outside bottom edge",
			ray:       core.NewRay(core.NewVec3(0.5, -eps, -1), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
		{
			name:      "Epsilon outside hypotenuse",
			ray:       core.NewRay(core.NewVec3(0.5+eps, 0.5+eps, -1), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
		{
			name:      "Ray misses triangle",
			ray:       core.NewRay(core.NewVec3(1, 1, -1), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
		{
			name:      "Ray parallel to triangle",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, 0), core.NewVec3(1, 0, 0)),
			shouldHit: false,
		},
		{
			name:      "Ray hits from behind",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1)),
			shouldHit: true,
			expectedT: 1.0,
		},
		{
			name:      "Triangle behind the ray",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := NewHit()
			isHit := triangle.Intersect(tt.ray, &hit, 1e-4)

			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got hit=%v", tt.shouldHit, isHit)
			}

			if tt.shouldHit {
				if math.Abs(hit.T-tt.expectedT) > 1e-9 {
					t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
				}
				if tt.ray.At(hit.T).Subtract(hit.Point).Length() > 1e-9 {
					t.Errorf("Hit point mismatch: expected %v, got %v", tt.ray.At(hit.T), hit.Point)
				}
			}
		})
	}
}

func TestTriangle_InterpolatedAttributes(t *testing.T) {
	triangle := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), gray)
	triangle.SetNormals(core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 1), core.NewVec3(0, 1, 1))

	white := core.NewVec3(1, 1, 1)
	black := core.NewVec3(0, 0, 0)
	triangle.Texture = material.NewTexture(2, 1, []core.Vec3{black, white})

	// Without UVs the texture is ignored
	hit := NewHit()
	ray := core.NewRay(core.NewVec3(0.5, 0, -1), core.NewVec3(0, 0, 1))
	if !triangle.Intersect(ray, &hit, 1e-4) {
		t.Fatal("Expected hit")
	}
	if hit.Color() != gray.Ambient {
		t.Errorf("Expected material color without uvs, got %v", hit.Color())
	}

	// Midpoint of V0-V1 blends their normals evenly
	expected := core.NewVec3(0, 0, 1).Add(core.NewVec3(1, 0, 1).Normalize()).Normalize()
	if hit.Normal.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected normal %v, got %v", expected, hit.Normal)
	}

	triangle.SetUVs(core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(0, 1))
	hit = NewHit()
	ray = core.NewRay(core.NewVec3(0.75, 0.1, -1), core.NewVec3(0, 0, 1))
	if !triangle.Intersect(ray, &hit, 1e-4) {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.UV.X-0.75) > 1e-9 || math.Abs(hit.UV.Y-0.1) > 1e-9 {
		t.Errorf("Expected uv (0.75, 0.1), got %v", hit.UV)
	}
	if hit.Color() != white {
		t.Errorf("Expected texel %v, got %v", white, hit.Color())
	}
}

func TestTriangle_BoundingBox(t *testing.T) {
	triangle := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(1, 3, 0), gray)

	bbox, ok := triangle.BoundingBox()
	if !ok {
		t.Fatal("Expected a bounding box")
	}

	expectedMin := core.NewVec3(0, 0, 0)
	expectedMax := core.NewVec3(2, 3, 0)
	if bbox.Min.Subtract(expectedMin).Length() > 1e-9 {
		t.Errorf("Expected min %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max.Subtract(expectedMax).Length() > 1e-9 {
		t.Errorf("Expected max %v, got %v", expectedMax, bbox.Max)
	}
}
