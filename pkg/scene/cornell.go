package scene

import (
	"github.com/df07/go-sppm-raytracer/pkg/camera"
	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/geometry"
	"github.com/df07/go-sppm-raytracer/pkg/lights"
	"github.com/df07/go-sppm-raytracer/pkg/material"
)

// NewCornellScene creates a Cornell box spanning [-1, 1] on every axis with
// a mirror and a glass sphere. The ceiling panel emits for path tracing; the
// point light below it shoots photons.
func NewCornellScene() (*Scene, error) {
	cam := camera.NewPerspectiveCamera(camera.CameraConfig{
		Center:    core.NewVec3(0, 0, 3.5),
		Direction: core.NewVec3(0, 0, -1),
		Up:        core.NewVec3(0, 1, 0),
		Width:     256,
		Height:    256,
		Angle:     40,
	})

	white := material.NewDiffuse(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewDiffuse(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewDiffuse(core.NewVec3(0.12, 0.45, 0.15))

	objects := []geometry.Object{
		geometry.NewPlane(core.NewVec3(0, 1, 0), -1, white),  // floor
		geometry.NewPlane(core.NewVec3(0, -1, 0), -1, white), // ceiling
		geometry.NewPlane(core.NewVec3(0, 0, 1), -1, white),  // back wall
		geometry.NewPlane(core.NewVec3(1, 0, 0), -1, red),    // left wall
		geometry.NewPlane(core.NewVec3(-1, 0, 0), -1, green), // right wall
	}

	// Ceiling panel just below the ceiling
	panel := material.NewLight(core.NewVec3(12, 12, 12))
	const half, y = 0.3, 0.999
	objects = append(objects,
		geometry.NewTriangle(core.NewVec3(-half, y, -half), core.NewVec3(half, y, -half), core.NewVec3(half, y, half), panel),
		geometry.NewTriangle(core.NewVec3(-half, y, -half), core.NewVec3(half, y, half), core.NewVec3(-half, y, half), panel),
	)

	objects = append(objects,
		geometry.NewSphere(core.NewVec3(-0.45, -0.6, -0.3), 0.4, material.NewMirror(core.NewVec3(0.9, 0.9, 0.9))),
		geometry.NewSphere(core.NewVec3(0.45, -0.6, 0.3), 0.4, material.NewGlass(core.NewVec3(1, 1, 1), 1.5)),
	)

	sceneLights := []lights.Light{
		lights.NewPointLight(core.NewVec3(0, 0.95, 0), core.NewVec3(40, 40, 40)),
	}

	return NewScene("cornell", objects, cam, sceneLights, core.Vec3{}, DefaultGamma)
}
