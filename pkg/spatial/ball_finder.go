package spatial

import (
	"math"
	"sync"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// Ball is anything with a center and a search radius. Radius must be safe to
// call concurrently with updates made by FindAndOperateBalls callbacks.
type Ball interface {
	Center() core.Vec3
	Radius() float64
}

type cell struct {
	x, y, z int
}

// BallFinder is a uniform grid that locates every ball containing a point.
// Balls must have radius <= gridSize/2 when added and may only shrink
// afterwards; the 2x2x2 neighbourhood search relies on it.
//
// Adds take the write lock and finds the read lock, so either phase can run
// from many goroutines at once.
type BallFinder[T Ball] struct {
	gridSize float64

	mu    sync.RWMutex
	cells map[cell][]T
	count int
}

// NewBallFinder creates an empty grid with the given cell size
func NewBallFinder[T Ball](gridSize float64) *BallFinder[T] {
	return &BallFinder[T]{
		gridSize: gridSize,
		cells:    make(map[cell][]T),
	}
}

// GridSize returns the cell edge length
func (bf *BallFinder[T]) GridSize() float64 {
	return bf.gridSize
}

// AddBall inserts b into the cell containing its center
func (bf *BallFinder[T]) AddBall(b T) {
	p := b.Center()
	key := cell{
		x: int(math.Floor(p.X / bf.gridSize)),
		y: int(math.Floor(p.Y / bf.gridSize)),
		z: int(math.Floor(p.Z / bf.gridSize)),
	}

	bf.mu.Lock()
	bf.cells[key] = append(bf.cells[key], b)
	bf.count++
	bf.mu.Unlock()
}

// FindAndOperateBalls calls fn for every ball whose center lies within its
// radius of p. A ball containing p has its center within gridSize/2 of p on
// each axis, so only cells round(p/g)-1 and round(p/g) per axis can hold it.
func (bf *BallFinder[T]) FindAndOperateBalls(p core.Vec3, fn func(T)) {
	// floor(x+0.5) rather than math.Round so halves round the same way for negative coordinates
	rx := int(math.Floor(p.X/bf.gridSize + 0.5))
	ry := int(math.Floor(p.Y/bf.gridSize + 0.5))
	rz := int(math.Floor(p.Z/bf.gridSize + 0.5))

	bf.mu.RLock()
	defer bf.mu.RUnlock()

	for x := rx - 1; x <= rx; x++ {
		for y := ry - 1; y <= ry; y++ {
			for z := rz - 1; z <= rz; z++ {
				for _, b := range bf.cells[cell{x, y, z}] {
					if b.Center().Subtract(p).Length() <= b.Radius() {
						fn(b)
					}
				}
			}
		}
	}
}

// Reset removes every ball
func (bf *BallFinder[T]) Reset() {
	bf.mu.Lock()
	bf.cells = make(map[cell][]T)
	bf.count = 0
	bf.mu.Unlock()
}

// Len returns the number of balls added since the last Reset
func (bf *BallFinder[T]) Len() int {
	bf.mu.RLock()
	defer bf.mu.RUnlock()
	return bf.count
}
