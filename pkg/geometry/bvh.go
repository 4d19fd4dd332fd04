package geometry

import (
	"fmt"
	"sort"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// LeafSize is the range size below which a BVH node stops splitting
const LeafSize = 5

// bvhNode covers objects[l:r] of the owning BVH. Leaves have no children.
type bvhNode struct {
	box         core.AABB
	l, r        int
	left, right *bvhNode
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection.
// Objects are partitioned in place; the tree is read-only once built.
type BVH struct {
	objects []Object
	boxes   []core.AABB
	root    *bvhNode
}

// NewBVH builds a BVH over objects. Every object must have a bounding box.
func NewBVH(objects []Object) (*BVH, error) {
	bvh := &BVH{
		objects: make([]Object, len(objects)),
		boxes:   make([]core.AABB, len(objects)),
	}
	copy(bvh.objects, objects)

	for i, obj := range bvh.objects {
		box, ok := obj.BoundingBox()
		if !ok {
			return nil, fmt.Errorf("bvh object %d (%T): %w", i, obj, ErrNoBoundingBox)
		}
		bvh.boxes[i] = box
	}

	if len(bvh.objects) > 0 {
		bvh.root = bvh.build(0, len(bvh.objects))
	}
	return bvh, nil
}

// Len returns the number of objects in the hierarchy
func (bvh *BVH) Len() int {
	return len(bvh.objects)
}

func (bvh *BVH) build(l, r int) *bvhNode {
	node := &bvhNode{l: l, r: r}
	for i := l; i < r; i++ {
		node.box.FitBox(bvh.boxes[i])
	}
	if r-l < LeafSize {
		return node
	}

	// Sort the range by centroid along the longest axis and split at the midpoint
	axis := node.box.MaxSpanAxis()
	sort.Sort(byCentroid{bvh: bvh, l: l, r: r, axis: axis})

	mid := (l + r) / 2
	node.left = bvh.build(l, mid)
	node.right = bvh.build(mid, r)
	return node
}

// byCentroid sorts objects[l:r] and their cached boxes together
type byCentroid struct {
	bvh  *BVH
	l, r int
	axis int
}

func (s byCentroid) Len() int { return s.r - s.l }

func (s byCentroid) Less(i, j int) bool {
	ci := s.bvh.boxes[s.l+i].Center()
	cj := s.bvh.boxes[s.l+j].Center()
	return ci.Axis(s.axis) < cj.Axis(s.axis)
}

func (s byCentroid) Swap(i, j int) {
	i, j = s.l+i, s.l+j
	s.bvh.objects[i], s.bvh.objects[j] = s.bvh.objects[j], s.bvh.objects[i]
	s.bvh.boxes[i], s.bvh.boxes[j] = s.bvh.boxes[j], s.bvh.boxes[i]
}

// Intersect tests the ray against the hierarchy, pruning subtrees whose box
// cannot contain a hit closer than the current one
func (bvh *BVH) Intersect(ray core.Ray, hit *Hit, tmin float64) bool {
	if bvh.root == nil {
		return false
	}
	return bvh.intersectNode(bvh.root, ray, hit, tmin)
}

func (bvh *BVH) intersectNode(node *bvhNode, ray core.Ray, hit *Hit, tmin float64) bool {
	if !node.box.MayIntersect(ray, tmin, hit.T) {
		return false
	}

	if node.left == nil {
		found := false
		for i := node.l; i < node.r; i++ {
			if bvh.objects[i].Intersect(ray, hit, tmin) {
				found = true
			}
		}
		return found
	}

	// Both children can hold the closest hit
	foundLeft := bvh.intersectNode(node.left, ray, hit, tmin)
	foundRight := bvh.intersectNode(node.right, ray, hit, tmin)
	return foundLeft || foundRight
}

// BoundingBox returns the root box
func (bvh *BVH) BoundingBox() (core.AABB, bool) {
	if bvh.root == nil {
		return core.AABB{}, false
	}
	return bvh.root.box, true
}

// BVHStats describes the shape of a built hierarchy
type BVHStats struct {
	TotalNodes int
	LeafNodes  int
	MaxDepth   int
	AvgDepth   float64
	Objects    int
}

// Stats walks the tree and collects node and depth counts
func (bvh *BVH) Stats() BVHStats {
	if bvh.root == nil {
		return BVHStats{}
	}

	stats := BVHStats{}
	bvh.collectStats(bvh.root, 0, &stats)

	// Calculate average depth after collecting all data
	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}

	return stats
}

func (bvh *BVH) collectStats(node *bvhNode, depth int, stats *BVHStats) {
	stats.TotalNodes++

	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.left == nil {
		stats.LeafNodes++
		stats.Objects += node.r - node.l
		stats.AvgDepth += float64(depth) // Accumulate depth for average calculation
		return
	}

	bvh.collectStats(node.left, depth+1, stats)
	bvh.collectStats(node.right, depth+1, stats)
}
