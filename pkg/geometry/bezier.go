package geometry

import (
	"fmt"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// BezierCurve is a planar Bezier curve. For surfaces of revolution X is the
// distance from the axis and Y the height.
type BezierCurve struct {
	Controls []core.Vec2
}

// CurvePoint is a sampled position on a curve with its unit tangent and parameter
type CurvePoint struct {
	S float64
	V core.Vec2
	T core.Vec2
}

// NewBezierCurve validates that the curve has at least two control points
func NewBezierCurve(controls []core.Vec2) (*BezierCurve, error) {
	if len(controls) < 2 {
		return nil, fmt.Errorf("bezier curve needs at least 2 control points, got %d", len(controls))
	}
	c := make([]core.Vec2, len(controls))
	copy(c, controls)
	return &BezierCurve{Controls: c}, nil
}

// Degree returns the polynomial degree of the curve
func (c *BezierCurve) Degree() int {
	return len(c.Controls) - 1
}

// Evaluate returns the position and derivative at parameter s using de
// Casteljau's recursion. Outside [0, 1] the curve continues as a vertical line
// through the end control point, which keeps Newton steps well defined.
func (c *BezierCurve) Evaluate(s float64) (core.Vec2, core.Vec2) {
	first, last := c.Controls[0], c.Controls[len(c.Controls)-1]
	ymin, ymax := first.Y, last.Y
	if s < 0 {
		return core.NewVec2(first.X, ymin+s*(ymax-ymin)), core.NewVec2(0, ymax-ymin)
	}
	if s > 1 {
		return core.NewVec2(last.X, ymin+s*(ymax-ymin)), core.NewVec2(0, ymax-ymin)
	}

	n := len(c.Controls)
	val := make([]core.Vec2, n-1)
	deriv := make([]core.Vec2, n-1)
	for i := 0; i < n-1; i++ {
		val[i] = c.Controls[i].Multiply(1 - s).Add(c.Controls[i+1].Multiply(s))
		deriv[i] = c.Controls[i+1].Subtract(c.Controls[i])
	}
	for level := n - 2; level > 0; level-- {
		for i := 0; i < level; i++ {
			vi, vi1 := val[i], val[i+1]
			di, di1 := deriv[i], deriv[i+1]
			val[i] = vi.Multiply(1 - s).Add(vi1.Multiply(s))
			// d/ds of the lerp above
			deriv[i] = di.Multiply(1 - s).Add(di1.Multiply(s)).Add(vi1.Subtract(vi))
		}
	}
	return val[0], deriv[0]
}

// Discretize samples resolution*degree evenly spaced points along the curve
func (c *BezierCurve) Discretize(resolution int) []CurvePoint {
	count := resolution * c.Degree()
	if count < 2 {
		count = 2
	}

	points := make([]CurvePoint, count)
	step := 1.0 / float64(count-1)
	for i := range points {
		s := float64(i) * step
		v, t := c.Evaluate(s)
		points[i] = CurvePoint{S: s, V: v, T: t.Normalize()}
	}
	return points
}
