package integrator

import (
	"context"
	"testing"

	"github.com/df07/go-sppm-raytracer/pkg/camera"
	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/geometry"
	"github.com/df07/go-sppm-raytracer/pkg/lights"
	"github.com/df07/go-sppm-raytracer/pkg/material"
	"github.com/df07/go-sppm-raytracer/pkg/renderer"
	"github.com/df07/go-sppm-raytracer/pkg/scene"
)

func smallPhotonConfig() PhotonMappingConfig {
	cfg := DefaultPhotonMappingConfig()
	cfg.Rounds = 3
	cfg.PhotonsPerRound = 2000
	cfg.BatchSize = 250
	cfg.InitRadius = 0.1
	return cfg
}

func TestPhotonMapper_Background(t *testing.T) {
	background := core.NewVec3(0.3, 0.2, 0.1)
	pm, err := NewPhotonMapper(createEmptyScene(t, background), smallPhotonConfig(), nopLogger{})
	if err != nil {
		t.Fatalf("NewPhotonMapper() error: %v", err)
	}

	radiance, err := pm.Render(context.Background(), nil)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	for i, p := range radiance.Pixels {
		if p.Subtract(background).Length() > 1e-12 {
			t.Fatalf("Pixel %d: expected background %v, got %v", i, background, p)
		}
	}
	if pm.Stats().VisiblePoints != 0 {
		t.Errorf("Expected no visible points, got %d", pm.Stats().VisiblePoints)
	}
}

// A floor lit from straight above receives photons under every visible point
func TestPhotonMapper_LitFloor(t *testing.T) {
	floor := geometry.NewPlane(core.NewVec3(0, 1, 0), 0, material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5)))
	cam := camera.NewPerspectiveCamera(camera.CameraConfig{
		Center:    core.NewVec3(0, 1, 0),
		Direction: core.NewVec3(0, -1, 0),
		Up:        core.NewVec3(0, 0, -1),
		Width:     8,
		Height:    8,
		Angle:     30,
	})
	sceneLights := []lights.Light{lights.NewPointLight(core.NewVec3(0, 1, 0), core.NewVec3(20, 20, 20))}
	s, err := scene.NewScene("floor", []geometry.Object{floor}, cam, sceneLights, core.Vec3{}, 2.2)
	if err != nil {
		t.Fatalf("NewScene() error: %v", err)
	}

	cfg := smallPhotonConfig()
	cfg.PhotonsPerRound = 20000
	cfg.InitRadius = 0.2
	pm, err := NewPhotonMapper(s, cfg, nopLogger{})
	if err != nil {
		t.Fatalf("NewPhotonMapper() error: %v", err)
	}

	img := renderer.NewImage(8, 8)
	radiance, err := pm.Render(context.Background(), img)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	assertRadianceValid(t, radiance)

	if got := pm.Stats().VisiblePoints; got != 64 {
		t.Errorf("Expected 64 visible points, got %d", got)
	}
	if img.AverageLuminance() <= 0 {
		t.Error("Expected a lit floor")
	}

	// Radii only shrink from the initial radius
	for i := range pm.points {
		if r := pm.points[i].Radius(); r > cfg.InitRadius || r <= 0 {
			t.Fatalf("Visible point %d has radius %f outside (0, %f]", i, r, cfg.InitRadius)
		}
	}
}

func TestPhotonMapper_DeterministicSingleWorker(t *testing.T) {
	s := createTestScene(t)

	render := func() *renderer.Radiance {
		cfg := smallPhotonConfig()
		cfg.Workers = 1
		cfg.VisiblePointsPerPixel = 2
		pm, err := NewPhotonMapper(s, cfg, nopLogger{})
		if err != nil {
			t.Fatalf("NewPhotonMapper() error: %v", err)
		}
		radiance, err := pm.Render(context.Background(), nil)
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		return radiance
	}

	first := render()
	second := render()
	assertRadianceEqual(t, first, second)
	assertRadianceValid(t, first)
}

func TestPhotonMapper_Stats(t *testing.T) {
	cfg := smallPhotonConfig()
	pm, err := NewPhotonMapper(createTestScene(t), cfg, nopLogger{})
	if err != nil {
		t.Fatalf("NewPhotonMapper() error: %v", err)
	}
	if _, err := pm.Render(context.Background(), nil); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	stats := pm.Stats()
	if stats.Integrator != "sppm" || stats.Rounds != cfg.Rounds {
		t.Errorf("Unexpected stats %+v", stats)
	}
	if stats.Photons != cfg.Rounds*cfg.PhotonsPerRound {
		t.Errorf("Expected %d photons, got %d", cfg.Rounds*cfg.PhotonsPerRound, stats.Photons)
	}
	if stats.VisiblePoints <= 0 || stats.VisiblePoints > stats.TotalPixels() {
		t.Errorf("Visible points %d outside (0, %d]", stats.VisiblePoints, stats.TotalPixels())
	}
}

func TestNewPhotonMapper_Errors(t *testing.T) {
	s, err := scene.NewScene("dark", nil, createTestCamera(4, 4), nil, core.Vec3{}, 2.2)
	if err != nil {
		t.Fatalf("NewScene() error: %v", err)
	}
	if _, err := NewPhotonMapper(s, smallPhotonConfig(), nopLogger{}); err == nil {
		t.Error("Expected error for scene without lights")
	}

	cfg := smallPhotonConfig()
	cfg.Alpha = 1.5
	if _, err := NewPhotonMapper(createTestScene(t), cfg, nopLogger{}); err == nil {
		t.Error("Expected error for invalid config")
	}
}
