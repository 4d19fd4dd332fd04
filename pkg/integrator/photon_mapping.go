package integrator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/lights"
	"github.com/df07/go-sppm-raytracer/pkg/log"
	"github.com/df07/go-sppm-raytracer/pkg/renderer"
	"github.com/df07/go-sppm-raytracer/pkg/scene"
	"github.com/df07/go-sppm-raytracer/pkg/spatial"
)

// RNG stream tags for the two passes of a round
const (
	forwardStream  = 0
	backwardStream = 1
)

// PhotonMapper renders with stochastic progressive photon mapping. Each round
// traces camera paths to their first diffuse surface (visible points), then
// shoots photons from the lights into the visible points found around every
// diffuse photon hit.
type PhotonMapper struct {
	scene  *scene.Scene
	config PhotonMappingConfig
	logger core.Logger
	stats  renderer.RenderStats

	points   []VisiblePoint // VisiblePointsPerPixel entries per pixel, row-major
	pixels   []renderer.PixelStats
	finder   *spatial.BallFinder[*VisiblePoint]
	deposits atomic.Int64
}

// NewPhotonMapper creates a photon mapper for s. A nil logger uses the "sppm" module logger.
func NewPhotonMapper(s *scene.Scene, config PhotonMappingConfig, logger core.Logger) (*PhotonMapper, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if s.Camera == nil {
		return nil, fmt.Errorf("scene %q has no camera", s.Name)
	}
	if len(s.Lights) == 0 {
		return nil, fmt.Errorf("scene %q has no lights to shoot photons from", s.Name)
	}
	if logger == nil {
		logger = log.New("sppm")
	}

	pixels := s.Camera.Width() * s.Camera.Height()
	return &PhotonMapper{
		scene:  s,
		config: config,
		logger: logger,
		points: make([]VisiblePoint, pixels*config.VisiblePointsPerPixel),
		pixels: make([]renderer.PixelStats, pixels),
		// radii never exceed InitRadius, half the cell size
		finder: spatial.NewBallFinder[*VisiblePoint](2 * config.InitRadius),
	}, nil
}

// Render runs every round and returns the averaged linear radiance. When sink
// is not nil the gamma-corrected image is written into it.
func (pm *PhotonMapper) Render(ctx context.Context, sink renderer.Sink) (*renderer.Radiance, error) {
	start := time.Now()
	width, height := pm.scene.Camera.Width(), pm.scene.Camera.Height()

	pool := renderer.NewWorkerPool(pm.config.Workers)
	defer pool.Stop()

	pm.logger.Infof("sppm %dx%d, %d rounds of %d photons, %d visible points/pixel on %d workers",
		width, height, pm.config.Rounds, pm.config.PhotonsPerRound,
		pm.config.VisiblePointsPerPixel, pool.GetNumWorkers())

	for i := range pm.pixels {
		pm.pixels[i] = renderer.PixelStats{}
	}

	progress := renderer.NewProgress("sppm", pm.config.Rounds, pm.logger)
	for round := 0; round < pm.config.Rounds; round++ {
		if err := pm.forwardPass(ctx, pool, round); err != nil {
			return nil, fmt.Errorf("round %d forward pass: %w", round, err)
		}
		pm.logger.Debugf("round %d: %d visible points", round, pm.finder.Len())

		if err := pm.backwardPass(ctx, pool, round); err != nil {
			return nil, fmt.Errorf("round %d photon pass: %w", round, err)
		}
		pm.logger.Debugf("round %d: %d photon deposits", round, pm.deposits.Load())

		pm.accumulate()
		progress.Increment()
	}

	radiance := renderer.NewRadiance(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			radiance.Set(x, y, pm.pixels[y*width+x].GetColor())
		}
	}
	if sink != nil {
		radiance.Tonemap(sink, pm.scene.Gamma)
	}

	pm.stats = renderer.RenderStats{
		Integrator:      "sppm",
		Width:           width,
		Height:          height,
		Workers:         pool.GetNumWorkers(),
		SamplesPerPixel: pm.config.VisiblePointsPerPixel,
		Rounds:          pm.config.Rounds,
		Photons:         pm.config.Rounds * pm.config.PhotonsPerRound,
		VisiblePoints:   pm.finder.Len(),
		Duration:        time.Since(start),
	}
	return radiance, nil
}

// Stats returns the statistics of the last render
func (pm *PhotonMapper) Stats() renderer.RenderStats {
	return pm.stats
}

// forwardPass resets the visible points and registers the ones that reached a
// diffuse surface with the ball finder
func (pm *PhotonMapper) forwardPass(ctx context.Context, pool *renderer.WorkerPool, round int) error {
	pm.finder.Reset()
	pm.deposits.Store(0)

	width, height := pm.scene.Camera.Width(), pm.scene.Camera.Height()
	vpp := pm.config.VisiblePointsPerPixel

	tiles := renderer.NewTileGrid(width, height, pm.config.TileSize)
	tasks := make([]renderer.Task, len(tiles))
	for i, tile := range tiles {
		tasks[i] = renderer.Task{ID: tile.ID, Run: func() error {
			random := core.NewRand(pm.config.Seed, int64(round), forwardStream, int64(tile.ID))
			for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
				for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
					for k := 0; k < vpp; k++ {
						vp := &pm.points[(y*width+x)*vpp+k]
						vp.reset(pm.config.InitRadius)
						ray := pm.scene.Camera.GenerateRay(float64(x)+random.Float64(), float64(y)+random.Float64(), random)
						if pm.traceVisiblePoint(vp, ray, random) {
							pm.finder.AddBall(vp)
						}
					}
				}
			}
			return nil
		}}
	}
	return pool.RunTasks(ctx, tasks, nil)
}

// traceVisiblePoint follows the camera path through non-diffuse bounces,
// collecting emission on the way. It reports whether a diffuse surface was reached.
func (pm *PhotonMapper) traceVisiblePoint(vp *VisiblePoint, ray core.Ray, random *rand.Rand) bool {
	attenuation := core.NewVec3(1, 1, 1)
	var forward core.Vec3
	defer func() { vp.forwardFlux = forward }()

	for depth := 0; depth < pm.config.MaxForwardDepth; depth++ {
		hit, ok := pm.scene.Intersect(ray, pm.config.Epsilon)
		if !ok {
			forward = forward.Add(attenuation.MultiplyVec(pm.scene.Background))
			return false
		}

		m := hit.Material
		color := hit.Color()
		forward = forward.Add(attenuation.MultiplyVec(m.Emission))

		if m.IsDiffuse() {
			vp.center = hit.Point
			vp.attenuation = attenuation.MultiplyVec(color)
			vp.valid = true
			return true
		}

		dir := m.Sample(ray, hit.Normal, random)
		next := core.NewRayAt(hit.Point.Add(dir.Multiply(pm.config.Epsilon)), dir, ray.Time)
		attenuation = attenuation.MultiplyVec(color).MultiplyVec(m.BRDF(ray, next, hit.Normal))
		if attenuation.IsZero() {
			return false
		}
		ray = next
	}
	return false
}

// backwardPass shoots PhotonsPerRound photons split evenly across the lights,
// in batches of BatchSize per task
func (pm *PhotonMapper) backwardPass(ctx context.Context, pool *renderer.WorkerPool, round int) error {
	sceneLights := pm.scene.Lights
	perLight := pm.config.PhotonsPerRound / len(sceneLights)
	extra := pm.config.PhotonsPerRound % len(sceneLights)

	var tasks []renderer.Task
	for i, light := range sceneLights {
		count := perLight
		if i < extra {
			count++
		}
		if count == 0 {
			continue
		}
		// the estimate divides by PhotonsPerRound, not by this light's share
		scale := float64(pm.config.PhotonsPerRound) / float64(count)

		for first := 0; first < count; first += pm.config.BatchSize {
			n := min(pm.config.BatchSize, count-first)
			id := len(tasks)
			tasks = append(tasks, renderer.Task{ID: id, Run: func() error {
				random := core.NewRand(pm.config.Seed, int64(round), backwardStream, int64(id))
				for p := 0; p < n; p++ {
					pm.tracePhoton(light, scale, random)
				}
				return nil
			}})
		}
	}
	return pool.RunTasks(ctx, tasks, nil)
}

// tracePhoton deposits a photon at every diffuse surface it touches until
// Russian roulette absorbs it or MaxPhotonDepth is reached
func (pm *PhotonMapper) tracePhoton(light lights.Light, scale float64, random *rand.Rand) {
	emitted := light.EmitRay(random)
	ray := emitted.Ray
	power := emitted.Color.Multiply(scale)

	for depth := 0; depth < pm.config.MaxPhotonDepth; depth++ {
		hit, ok := pm.scene.Intersect(ray, pm.config.Epsilon)
		if !ok {
			return
		}

		m := hit.Material
		color := hit.Color()
		dir := m.Sample(ray, hit.Normal, random)
		next := core.NewRayAt(hit.Point.Add(dir.Multiply(pm.config.Epsilon)), dir, ray.Time)

		if m.IsDiffuse() {
			point, deposit := hit.Point, power
			pm.finder.FindAndOperateBalls(point, func(vp *VisiblePoint) {
				if vp.AddPhoton(point, deposit, pm.config.Alpha) {
					pm.deposits.Add(1)
				}
			})

			survive := math.Min(1, color.MaxComponent())
			if survive <= 0 || random.Float64() >= survive {
				return
			}
			power = power.MultiplyVec(color).Divide(survive)
		} else {
			power = power.MultiplyVec(color).MultiplyVec(m.BRDF(ray, next, hit.Normal))
		}

		if power.IsZero() {
			return
		}
		ray = next
	}
}

// accumulate adds this round's estimate of every visible point to its pixel
func (pm *PhotonMapper) accumulate() {
	vpp := pm.config.VisiblePointsPerPixel
	for i := range pm.pixels {
		for k := 0; k < vpp; k++ {
			pm.pixels[i].AddSample(pm.points[i*vpp+k].Estimate(pm.config.PhotonsPerRound))
		}
	}
}
