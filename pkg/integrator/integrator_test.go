package integrator

import (
	"testing"

	"github.com/df07/go-sppm-raytracer/pkg/camera"
	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/geometry"
	"github.com/df07/go-sppm-raytracer/pkg/lights"
	"github.com/df07/go-sppm-raytracer/pkg/material"
	"github.com/df07/go-sppm-raytracer/pkg/renderer"
	"github.com/df07/go-sppm-raytracer/pkg/scene"
)

// nopLogger discards everything so tests stay quiet
type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{})   {}
func (nopLogger) Infof(string, ...interface{})    {}
func (nopLogger) Noticef(string, ...interface{})  {}
func (nopLogger) Warningf(string, ...interface{}) {}

func createTestCamera(width, height int) *camera.PerspectiveCamera {
	return camera.NewPerspectiveCamera(camera.CameraConfig{
		Center:    core.NewVec3(0, 0.5, 3),
		Direction: core.NewVec3(0, -0.2, -1),
		Up:        core.NewVec3(0, 1, 0),
		Width:     width,
		Height:    height,
		Angle:     60,
	})
}

// createTestScene creates a small lit scene with diffuse, glossy and glass surfaces
func createTestScene(t *testing.T) *scene.Scene {
	t.Helper()
	objects := []geometry.Object{
		geometry.NewPlane(core.NewVec3(0, 1, 0), -0.5, material.NewDiffuse(core.NewVec3(0.7, 0.7, 0.7))),
		geometry.NewSphere(core.NewVec3(-0.6, 0, 0), 0.5, material.NewDiffuse(core.NewVec3(0.8, 0.3, 0.3))),
		geometry.NewSphere(core.NewVec3(0.6, 0, 0), 0.5, material.NewGlass(core.NewVec3(1, 1, 1), 1.5)),
		geometry.NewSphere(core.NewVec3(0, 0.2, -1), 0.5, material.NewBlinn(core.NewVec3(0.2, 0.8, 0.2), core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(0.5, 0.5, 0.5), 20)),
		geometry.NewSphere(core.NewVec3(0, 3, 0), 0.5, material.NewLight(core.NewVec3(8, 8, 8))),
	}
	sceneLights := []lights.Light{
		lights.NewPointLight(core.NewVec3(0, 2, 0), core.NewVec3(30, 30, 30)),
	}
	s, err := scene.NewScene("test", objects, createTestCamera(12, 9), sceneLights, core.NewVec3(0.1, 0.1, 0.2), 2.2)
	if err != nil {
		t.Fatalf("Failed to create test scene: %v", err)
	}
	return s
}

// createEmptyScene creates a scene where every camera ray escapes
func createEmptyScene(t *testing.T, background core.Vec3) *scene.Scene {
	t.Helper()
	sceneLights := []lights.Light{
		lights.NewPointLight(core.NewVec3(0, 2, 0), core.NewVec3(10, 10, 10)),
	}
	s, err := scene.NewScene("empty", nil, createTestCamera(6, 4), sceneLights, background, 2.2)
	if err != nil {
		t.Fatalf("Failed to create empty scene: %v", err)
	}
	return s
}

func assertRadianceEqual(t *testing.T, a, b *renderer.Radiance) {
	t.Helper()
	if a.Width != b.Width || a.Height != b.Height {
		t.Fatalf("Size mismatch: %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}
	for i := range a.Pixels {
		if a.Pixels[i] != b.Pixels[i] {
			t.Fatalf("Pixel %d differs: %v vs %v", i, a.Pixels[i], b.Pixels[i])
		}
	}
}

func assertRadianceValid(t *testing.T, r *renderer.Radiance) {
	t.Helper()
	for i, p := range r.Pixels {
		if p.X < 0 || p.Y < 0 || p.Z < 0 || p.X != p.X || p.Y != p.Y || p.Z != p.Z {
			t.Fatalf("Pixel %d has invalid radiance %v", i, p)
		}
	}
}
