package geometry

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/material"
)

func randomObjects(random *rand.Rand, n int) []Object {
	objects := make([]Object, 0, n)
	for i := 0; i < n; i++ {
		center := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		mat := material.NewDiffuse(core.NewVec3(random.Float64(), random.Float64(), random.Float64()))
		if i%2 == 0 {
			objects = append(objects, NewSphere(center, 0.2+random.Float64(), mat))
			continue
		}
		objects = append(objects, NewTriangle(
			center.Add(core.RandomUnitVector(random).Multiply(1.5)),
			center.Add(core.RandomUnitVector(random).Multiply(1.5)),
			center.Add(core.RandomUnitVector(random).Multiply(1.5)),
			mat,
		))
	}
	return objects
}

// The BVH must report the same closest hit as testing every object in turn.
func TestBVH_MatchesBruteForce(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for _, n := range []int{1, 4, 5, 17, 200} {
		objects := randomObjects(random, n)
		bvh, err := NewBVH(objects)
		if err != nil {
			t.Fatalf("NewBVH: %v", err)
		}
		brute := NewGroup(objects...)

		hits := 0
		for i := 0; i < 2000; i++ {
			origin := core.RandomUnitVector(random).Multiply(25)
			target := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
			ray := core.NewRay(origin, target.Subtract(origin).Normalize())

			expected := NewHit()
			got := NewHit()
			foundExpected := brute.Intersect(ray, &expected, 1e-4)
			foundGot := bvh.Intersect(ray, &got, 1e-4)

			if foundExpected != foundGot {
				t.Fatalf("n=%d ray %d: brute force found=%v, bvh found=%v", n, i, foundExpected, foundGot)
			}
			if !foundExpected {
				continue
			}
			hits++
			if math.Abs(expected.T-got.T) > 1e-9 || expected.Material != got.Material {
				t.Fatalf("n=%d ray %d: brute force t=%f, bvh t=%f", n, i, expected.T, got.T)
			}
		}
		if hits == 0 {
			t.Errorf("n=%d: expected some rays to hit", n)
		}
	}
}

// A primitive's box must never prune a ray that hits the primitive.
func TestBVH_BoxesHaveNoFalseNegatives(t *testing.T) {
	random := rand.New(rand.NewSource(3))
	for _, obj := range randomObjects(random, 50) {
		box, _ := obj.BoundingBox()
		for i := 0; i < 200; i++ {
			origin := core.RandomUnitVector(random).Multiply(30)
			ray := core.NewRay(origin, box.Center().Subtract(origin).Add(core.RandomUnitVector(random)).Normalize())
			hit := NewHit()
			if obj.Intersect(ray, &hit, 1e-4) && !box.MayIntersect(ray, 1e-4, math.Inf(1)) {
				t.Fatalf("%T hit at t=%f but its box was pruned", obj, hit.T)
			}
		}
	}
}

func TestBVH_RejectsUnboundedObjects(t *testing.T) {
	objects := []Object{
		NewSphere(core.Vec3{}, 1, gray),
		NewPlane(core.NewVec3(0, 1, 0), 0, gray),
	}
	_, err := NewBVH(objects)
	if !errors.Is(err, ErrNoBoundingBox) {
		t.Errorf("Expected ErrNoBoundingBox, got %v", err)
	}
}

func TestBVH_Empty(t *testing.T) {
	bvh, err := NewBVH(nil)
	if err != nil {
		t.Fatalf("NewBVH: %v", err)
	}
	hit := NewHit()
	if bvh.Intersect(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)), &hit, 1e-4) {
		t.Error("Expected empty BVH to miss")
	}
	if _, ok := bvh.BoundingBox(); ok {
		t.Error("Expected empty BVH to have no bounding box")
	}
}

func TestBVH_Stats(t *testing.T) {
	random := rand.New(rand.NewSource(1))
	objects := randomObjects(random, 100)
	bvh, err := NewBVH(objects)
	if err != nil {
		t.Fatalf("NewBVH: %v", err)
	}

	stats := bvh.Stats()
	if stats.Objects != 100 {
		t.Errorf("Expected 100 objects in leaves, got %d", stats.Objects)
	}
	if stats.TotalNodes != 2*stats.LeafNodes-1 {
		t.Errorf("Expected a full binary tree, got %d nodes for %d leaves", stats.TotalNodes, stats.LeafNodes)
	}
	// Median splits keep the tree balanced
	if stats.MaxDepth > 6 {
		t.Errorf("Expected depth <= 6 for 100 objects, got %d", stats.MaxDepth)
	}
	if stats.AvgDepth <= 0 || stats.AvgDepth > float64(stats.MaxDepth) {
		t.Errorf("Unexpected average depth %f", stats.AvgDepth)
	}
}

func TestGroup_BoundingBox(t *testing.T) {
	bounded := NewGroup(
		NewSphere(core.NewVec3(0, 0, 0), 1, gray),
		NewSphere(core.NewVec3(5, 0, 0), 1, gray),
	)
	box, ok := bounded.BoundingBox()
	if !ok || box.Min.X != -1 || box.Max.X != 6 {
		t.Errorf("Unexpected group box %v-%v ok=%v", box.Min, box.Max, ok)
	}

	bounded.Add(NewPlane(core.NewVec3(0, 1, 0), -1, gray))
	if _, ok := bounded.BoundingBox(); ok {
		t.Error("Expected group with a plane to be unbounded")
	}
}
