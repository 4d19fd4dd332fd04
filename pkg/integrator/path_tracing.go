package integrator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/log"
	"github.com/df07/go-sppm-raytracer/pkg/renderer"
	"github.com/df07/go-sppm-raytracer/pkg/scene"
)

// PathTracer implements recursive unidirectional path tracing. Paths are
// truncated after MaxDepth bounces, where only emission is collected.
type PathTracer struct {
	scene  *scene.Scene
	config PathTracingConfig
	logger core.Logger
	stats  renderer.RenderStats
}

// NewPathTracer creates a path tracer for s. A nil logger uses the "pt" module logger.
func NewPathTracer(s *scene.Scene, config PathTracingConfig, logger core.Logger) (*PathTracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if s.Camera == nil {
		return nil, fmt.Errorf("scene %q has no camera", s.Name)
	}
	if logger == nil {
		logger = log.New("pt")
	}
	return &PathTracer{scene: s, config: config, logger: logger}, nil
}

// Render traces every pixel and returns the linear radiance. When sink is not
// nil the gamma-corrected image is written into it.
func (pt *PathTracer) Render(ctx context.Context, sink renderer.Sink) (*renderer.Radiance, error) {
	start := time.Now()
	width, height := pt.scene.Camera.Width(), pt.scene.Camera.Height()
	radiance := renderer.NewRadiance(width, height)

	pool := renderer.NewWorkerPool(pt.config.Workers)
	defer pool.Stop()

	tiles := renderer.NewTileGrid(width, height, pt.config.TileSize)
	tasks := make([]renderer.Task, len(tiles))
	for i, tile := range tiles {
		tasks[i] = renderer.Task{ID: tile.ID, Run: func() error {
			for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
				for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
					// per-pixel generator keeps output independent of scheduling
					random := core.NewRand(pt.config.Seed, int64(y*width+x))
					radiance.Set(x, y, pt.renderPixel(x, y, random))
				}
			}
			return nil
		}}
	}

	pt.logger.Infof("path tracing %dx%d, %d samples/pixel, %d tiles on %d workers",
		width, height, pt.config.SamplesPerPixel(), len(tasks), pool.GetNumWorkers())

	progress := renderer.NewProgress("pt", len(tasks), pt.logger)
	if err := pool.RunTasks(ctx, tasks, progress); err != nil {
		return nil, fmt.Errorf("path tracing failed: %w", err)
	}

	if sink != nil {
		radiance.Tonemap(sink, pt.scene.Gamma)
	}

	pt.stats = renderer.RenderStats{
		Integrator:      "pt",
		Width:           width,
		Height:          height,
		Workers:         pool.GetNumWorkers(),
		SamplesPerPixel: pt.config.SamplesPerPixel(),
		Duration:        time.Since(start),
	}
	return radiance, nil
}

// Stats returns the statistics of the last render
func (pt *PathTracer) Stats() renderer.RenderStats {
	return pt.stats
}

// renderPixel averages stratified, tent-jittered samples over the pixel
func (pt *PathTracer) renderPixel(x, y int, random *rand.Rand) core.Vec3 {
	n := pt.config.SubPixel
	var sum core.Vec3
	for sy := 0; sy < n; sy++ {
		for sx := 0; sx < n; sx++ {
			for k := 0; k < pt.config.SubSample; k++ {
				px := float64(x) + (float64(sx)+(1+core.RandomTent(random))/2)/float64(n)
				py := float64(y) + (float64(sy)+(1+core.RandomTent(random))/2)/float64(n)
				ray := pt.scene.Camera.GenerateRay(px, py, random)
				sum = sum.Add(pt.RayColor(ray, 0, random))
			}
		}
	}
	return sum.Divide(float64(pt.config.SamplesPerPixel()))
}

// RayColor returns the radiance arriving along ray after depth bounces
func (pt *PathTracer) RayColor(ray core.Ray, depth int, random *rand.Rand) core.Vec3 {
	hit, ok := pt.scene.Intersect(ray, pt.config.Epsilon)
	if !ok {
		return pt.scene.Background
	}

	m := hit.Material
	if depth >= pt.config.MaxDepth {
		return m.Emission
	}

	dir := m.Sample(ray, hit.Normal, random)
	next := core.NewRayAt(hit.Point.Add(dir.Multiply(pt.config.Epsilon)), dir, ray.Time)
	brdf := m.BRDF(ray, next, hit.Normal)

	incoming := pt.RayColor(next, depth+1, random)
	return m.Emission.Add(hit.Color().MultiplyVec(incoming).MultiplyVec(brdf))
}
