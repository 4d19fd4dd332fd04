package integrator

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/geometry"
	"github.com/df07/go-sppm-raytracer/pkg/material"
	"github.com/df07/go-sppm-raytracer/pkg/renderer"
	"github.com/df07/go-sppm-raytracer/pkg/scene"
)

func TestPathTracer_Background(t *testing.T) {
	background := core.NewVec3(0.2, 0.3, 0.4)
	pt, err := NewPathTracer(createEmptyScene(t, background), DefaultPathTracingConfig(), nopLogger{})
	if err != nil {
		t.Fatalf("NewPathTracer() error: %v", err)
	}

	radiance, err := pt.Render(context.Background(), nil)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	for i, p := range radiance.Pixels {
		if p.Subtract(background).Length() > 1e-12 {
			t.Fatalf("Pixel %d: expected background %v, got %v", i, background, p)
		}
	}
}

// A camera enclosed by a black emitter sees exactly the emission everywhere
func TestPathTracer_EnclosedByEmitter(t *testing.T) {
	emission := core.NewVec3(1, 0.5, 0.25)
	enclosure := geometry.NewSphere(core.Vec3{}, 10, material.NewLight(emission))
	s, err := scene.NewScene("enclosed", []geometry.Object{enclosure}, createTestCamera(8, 8), nil, core.Vec3{}, 2.0)
	if err != nil {
		t.Fatalf("NewScene() error: %v", err)
	}

	cfg := DefaultPathTracingConfig()
	cfg.SubPixel = 2
	pt, err := NewPathTracer(s, cfg, nopLogger{})
	if err != nil {
		t.Fatalf("NewPathTracer() error: %v", err)
	}

	img := renderer.NewImage(8, 8)
	radiance, err := pt.Render(context.Background(), img)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	for i, p := range radiance.Pixels {
		if p.Subtract(emission).Length() > 1e-9 {
			t.Fatalf("Pixel %d: expected %v, got %v", i, emission, p)
		}
	}

	// The sink receives gamma-corrected values
	expected := core.GammaCorrect(emission, 2.0)
	if got := img.At(3, 3); got.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected tonemapped pixel %v, got %v", expected, got)
	}
}

func TestPathTracer_DepthTruncation(t *testing.T) {
	emission := core.NewVec3(2, 2, 2)
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -3), 1, &material.Material{
		Illum:    material.Diffuse,
		Ambient:  core.NewVec3(0.5, 0.5, 0.5),
		Emission: emission,
	})
	s, err := scene.NewScene("truncate", []geometry.Object{sphere}, createTestCamera(4, 4), nil, core.NewVec3(1, 1, 1), 2.2)
	if err != nil {
		t.Fatalf("NewScene() error: %v", err)
	}

	cfg := DefaultPathTracingConfig()
	pt, err := NewPathTracer(s, cfg, nopLogger{})
	if err != nil {
		t.Fatalf("NewPathTracer() error: %v", err)
	}

	random := rand.New(rand.NewSource(42))
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	// At the depth limit only emission is collected
	if got := pt.RayColor(ray, cfg.MaxDepth, random); got != emission {
		t.Errorf("Expected emission %v at max depth, got %v", emission, got)
	}

	// One bounce earlier the scattered ray escapes to the background
	got := pt.RayColor(ray, cfg.MaxDepth-1, random)
	expected := emission.Add(core.NewVec3(0.5, 0.5, 0.5))
	if got.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected %v one bounce before max depth, got %v", expected, got)
	}
}

func TestPathTracer_DeterministicAcrossWorkers(t *testing.T) {
	s := createTestScene(t)

	render := func(workers, tileSize int) *renderer.Radiance {
		cfg := DefaultPathTracingConfig()
		cfg.SubPixel = 2
		cfg.Workers = workers
		cfg.TileSize = tileSize
		pt, err := NewPathTracer(s, cfg, nopLogger{})
		if err != nil {
			t.Fatalf("NewPathTracer() error: %v", err)
		}
		radiance, err := pt.Render(context.Background(), nil)
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		return radiance
	}

	single := render(1, 32)
	parallel := render(4, 3)
	assertRadianceEqual(t, single, parallel)
	assertRadianceValid(t, single)

	var total float64
	for _, p := range single.Pixels {
		total += p.Luminance()
	}
	if total <= 0 || math.IsInf(total, 0) {
		t.Errorf("Expected finite positive total luminance, got %f", total)
	}
}

func TestPathTracer_Stats(t *testing.T) {
	cfg := DefaultPathTracingConfig()
	cfg.SubSample = 3
	cfg.Workers = 2
	pt, err := NewPathTracer(createEmptyScene(t, core.Vec3{}), cfg, nopLogger{})
	if err != nil {
		t.Fatalf("NewPathTracer() error: %v", err)
	}
	if _, err := pt.Render(context.Background(), nil); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	stats := pt.Stats()
	if stats.Integrator != "pt" || stats.Width != 6 || stats.Height != 4 {
		t.Errorf("Unexpected stats %+v", stats)
	}
	if stats.SamplesPerPixel != 3 || stats.Workers != 2 || stats.Rounds != 0 {
		t.Errorf("Unexpected sampling stats %+v", stats)
	}
}

func TestPathTracer_Cancelled(t *testing.T) {
	pt, err := NewPathTracer(createTestScene(t), DefaultPathTracingConfig(), nopLogger{})
	if err != nil {
		t.Fatalf("NewPathTracer() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := pt.Render(ctx, nil); err == nil {
		t.Error("Expected error from cancelled render")
	}
}

func TestNewPathTracer_InvalidConfig(t *testing.T) {
	cfg := DefaultPathTracingConfig()
	cfg.MaxDepth = 0
	if _, err := NewPathTracer(createTestScene(t), cfg, nopLogger{}); err == nil {
		t.Error("Expected error for invalid config")
	}
}
