package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/material"
)

// NewtonConfig controls the root finder of RotateBezier. Each ray tries the
// proxy seed plus Segments evenly spaced seeds, running at most Iterations
// Newton steps from each; a root is accepted when |f| < Tolerance.
type NewtonConfig struct {
	Segments   int
	Iterations int
	Tolerance  float64
}

// DefaultNewtonConfig returns 10 segments of 10 iterations at 1e-5
func DefaultNewtonConfig() NewtonConfig {
	return NewtonConfig{
		Segments:   10,
		Iterations: 10,
		Tolerance:  1e-5,
	}
}

const (
	proxyResolution = 30 // curve samples per degree
	proxySteps      = 40 // rotation steps around the axis
)

// RotateBezier is the surface swept by revolving a Bezier profile (radius,
// height) around the vertical line through (Axis.X, y, Axis.Y)
type RotateBezier struct {
	Curve    *BezierCurve
	Axis     core.Vec2
	Material *material.Material
	Texture  *material.Texture
	Newton   NewtonConfig

	proxy *Mesh
	box   core.AABB
}

// NewRotateBezier builds the surface and its triangulated proxy
func NewRotateBezier(curve *BezierCurve, axis core.Vec2, mat *material.Material, cfg NewtonConfig) (*RotateBezier, error) {
	if cfg.Segments < 0 || cfg.Iterations <= 0 || cfg.Tolerance <= 0 {
		return nil, fmt.Errorf("invalid newton config %+v", cfg)
	}

	rb := &RotateBezier{
		Curve:    curve,
		Axis:     axis,
		Material: mat,
		Newton:   cfg,
	}

	proxy, err := rb.buildProxy()
	if err != nil {
		return nil, fmt.Errorf("bezier proxy mesh: %w", err)
	}
	rb.proxy = proxy

	rmax, ymin, ymax := 0.0, math.Inf(1), math.Inf(-1)
	for _, c := range curve.Controls {
		rmax = math.Max(rmax, math.Abs(c.X))
		ymin = math.Min(ymin, c.Y)
		ymax = math.Max(ymax, c.Y)
	}
	rb.box = core.NewAABB(
		core.NewVec3(axis.X-rmax, ymin, axis.Y-rmax),
		core.NewVec3(axis.X+rmax, ymax, axis.Y+rmax),
	)
	proxyBox, _ := proxy.BoundingBox()
	rb.box.FitBox(proxyBox)

	return rb, nil
}

// buildProxy revolves the discretized profile into a closed mesh that
// encloses the surface: the tube is extended past both curve ends by margin
// and capped. Each vertex stores its curve parameter in UV.Y as a Newton seed.
func (rb *RotateBezier) buildProxy() (*Mesh, error) {
	points := rb.Curve.Discretize(proxyResolution)

	// Chords of the rotation polygon lie inside the circle; push them out
	inflate := 1 / math.Cos(math.Pi/proxySteps)
	var margin float64
	for _, c := range rb.Curve.Controls {
		margin = math.Max(margin, math.Max(math.Abs(c.X), math.Abs(c.Y)))
	}
	margin *= 1e-3

	first, last := points[0], points[len(points)-1]
	outward := -1.0
	if first.V.Y > last.V.Y {
		outward = 1
	}
	type ring struct{ radius, y, s float64 }
	rings := make([]ring, 0, len(points)+2)
	rings = append(rings, ring{first.V.X*inflate + margin, first.V.Y + outward*margin, first.S})
	for _, cp := range points {
		rings = append(rings, ring{cp.V.X*inflate + margin, cp.V.Y, cp.S})
	}
	rings = append(rings, ring{last.V.X*inflate + margin, last.V.Y - outward*margin, last.S})

	up := r3.Vec{X: 0, Y: 1, Z: 0}
	vertices := make([]core.Vec3, 0, len(rings)*proxySteps+2)
	uvs := make([]core.Vec2, 0, len(rings)*proxySteps+2)
	for _, rg := range rings {
		profile := r3.Vec{X: rg.radius, Y: rg.y, Z: 0}
		for i := 0; i < proxySteps; i++ {
			angle := float64(i) / proxySteps
			p := r3.NewRotation(angle*2*math.Pi, up).Rotate(profile)
			vertices = append(vertices, core.NewVec3(p.X+rb.Axis.X, p.Y, p.Z+rb.Axis.Y))
			uvs = append(uvs, core.NewVec2(angle, rg.s))
		}
	}

	faces := make([]int, 0, (len(rings)+1)*proxySteps*6)
	for ci := 0; ci < len(rings)-1; ci++ {
		for i := 0; i < proxySteps; i++ {
			i1 := (i + 1) % proxySteps
			faces = append(faces,
				(ci+1)*proxySteps+i, ci*proxySteps+i1, ci*proxySteps+i,
				(ci+1)*proxySteps+i, (ci+1)*proxySteps+i1, ci*proxySteps+i1,
			)
		}
	}

	// Caps close both ends on the axis
	for _, ci := range []int{0, len(rings) - 1} {
		center := len(vertices)
		vertices = append(vertices, core.NewVec3(rb.Axis.X, rings[ci].y, rb.Axis.Y))
		uvs = append(uvs, core.NewVec2(0, rings[ci].s))
		for i := 0; i < proxySteps; i++ {
			i1 := (i + 1) % proxySteps
			faces = append(faces, center, ci*proxySteps+i, ci*proxySteps+i1)
		}
	}

	return NewMesh(vertices, faces, rb.Material, &MeshOptions{UVs: uvs})
}

// Intersect finds the closest root of the ray/surface equation. The proxy
// mesh gates the search and provides the first seed; non-convergence is a miss.
func (rb *RotateBezier) Intersect(ray core.Ray, hit *Hit, tmin float64) bool {
	proxyHit := NewHit()
	if !rb.proxy.Intersect(ray, &proxyHit, tmin) {
		return false
	}

	seeds := make([]float64, 0, rb.Newton.Segments+1)
	seeds = append(seeds, proxyHit.UV.Y)
	for k := 0; k < rb.Newton.Segments; k++ {
		seeds = append(seeds, (float64(k)+0.5)/float64(rb.Newton.Segments))
	}

	var s, t float64
	var ok bool
	if math.Abs(ray.Direction.Y) < 1e-9*ray.Direction.Length() {
		s, t, ok = rb.solveHorizontal(ray, seeds, hit, tmin)
	} else {
		s, t, ok = rb.solve(ray, seeds, hit, tmin)
	}
	if !ok {
		return false
	}

	point := ray.At(t)
	radial := core.NewVec2(point.X-rb.Axis.X, point.Z-rb.Axis.Y).Normalize()
	_, deriv := rb.Curve.Evaluate(s)
	normal := core.NewVec3(radial.X*deriv.Y, -deriv.X, radial.Y*deriv.Y).Normalize()
	uv := core.NewVec2(math.Atan2(radial.Y, radial.X)/(2*math.Pi)+0.5, s)

	hit.record(t, point, normal, rb.Material, rb.Texture, uv)
	return true
}

// residual evaluates f(s) = (x0 + rx*d)^2 + (z0 + rz*d)^2 - x(s)^2 with
// d = (y(s) - y0)/ry, its derivative, and d itself (the ray parameter).
func (rb *RotateBezier) residual(ray core.Ray, s float64) (f, df, delta float64) {
	x0 := ray.Origin.X - rb.Axis.X
	y0 := ray.Origin.Y
	z0 := ray.Origin.Z - rb.Axis.Y
	rx, ry, rz := ray.Direction.X, ray.Direction.Y, ray.Direction.Z

	b, db := rb.Curve.Evaluate(s)
	delta = (b.Y - y0) / ry
	px := x0 + rx*delta
	pz := z0 + rz*delta

	f = px*px + pz*pz - b.X*b.X
	df = 2*px*rx*db.Y/ry + 2*pz*rz*db.Y/ry - 2*b.X*db.X
	return f, df, delta
}

func (rb *RotateBezier) solve(ray core.Ray, seeds []float64, hit *Hit, tmin float64) (float64, float64, bool) {
	best := Hit{T: hit.T}
	bestS, found := 0.0, false
	for _, seed := range seeds {
		s := seed
		for i := 0; i <= rb.Newton.Iterations; i++ {
			f, df, delta := rb.residual(ray, s)
			if math.Abs(f) < rb.Newton.Tolerance {
				if s >= 0 && s <= 1 && best.closer(delta, tmin) {
					bestS, best.T, found = s, delta, true
				}
				break
			}
			if i == rb.Newton.Iterations || df == 0 || math.IsNaN(df) {
				break
			}
			s -= f / df
		}
	}
	return bestS, best.T, found
}

// solveHorizontal handles rays with no vertical component: the height fixes
// the curve parameter and the radius leaves a ray/circle intersection.
func (rb *RotateBezier) solveHorizontal(ray core.Ray, seeds []float64, hit *Hit, tmin float64) (float64, float64, bool) {
	x0 := ray.Origin.X - rb.Axis.X
	z0 := ray.Origin.Z - rb.Axis.Y
	rx, rz := ray.Direction.X, ray.Direction.Z

	best := Hit{T: hit.T}
	bestS, found := 0.0, false
	for _, seed := range seeds {
		s := seed
		for i := 0; i <= rb.Newton.Iterations; i++ {
			b, db := rb.Curve.Evaluate(s)
			g := b.Y - ray.Origin.Y
			if math.Abs(g) < rb.Newton.Tolerance {
				if s < 0 || s > 1 {
					break
				}
				a := rx*rx + rz*rz
				half := x0*rx + z0*rz
				c := x0*x0 + z0*z0 - b.X*b.X
				disc := half*half - a*c
				if disc < 0 || a == 0 {
					break
				}
				sq := math.Sqrt(disc)
				for _, t := range []float64{(-half - sq) / a, (-half + sq) / a} {
					if best.closer(t, tmin) {
						bestS, best.T, found = s, t, true
					}
				}
				break
			}
			if i == rb.Newton.Iterations || db.Y == 0 {
				break
			}
			s -= g / db.Y
		}
	}
	return bestS, best.T, found
}

// BoundingBox returns the box of the control polygon revolved around the axis
func (rb *RotateBezier) BoundingBox() (core.AABB, bool) {
	return rb.box, true
}
