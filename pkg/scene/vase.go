package scene

import (
	"github.com/df07/go-sppm-raytracer/pkg/camera"
	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/geometry"
	"github.com/df07/go-sppm-raytracer/pkg/lights"
	"github.com/df07/go-sppm-raytracer/pkg/material"
)

// NewVaseScene creates a glass Bezier vase on a checkered floor next to a
// glossy sphere and a sphere moving during the shutter. The camera has a
// small aperture focused on the vase.
func NewVaseScene() (*Scene, error) {
	cam := camera.NewPerspectiveCamera(camera.CameraConfig{
		Center:      core.NewVec3(0, 1.6, 6),
		Direction:   core.NewVec3(0, -0.2, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       320,
		Height:      240,
		Angle:       35,
		FocalLength: 6,
		Aperture:    0.05,
		Shutter:     1,
	})

	floor := geometry.NewPlane(core.NewVec3(0, 1, 0), 0, material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.8)))
	floor.Texture = NewCheckerTexture(8, core.NewVec3(0.8, 0.8, 0.8), core.NewVec3(0.2, 0.2, 0.25))
	floor.TextureScale = 0.25

	profile, err := geometry.NewBezierCurve([]core.Vec2{
		core.NewVec2(0.4, 0),
		core.NewVec2(1.2, 0.4),
		core.NewVec2(0.2, 1.2),
		core.NewVec2(0.5, 1.8),
	})
	if err != nil {
		return nil, err
	}
	vase, err := geometry.NewRotateBezier(profile, core.NewVec2(0, 0), material.NewGlass(core.NewVec3(0.95, 0.95, 1), 1.5), geometry.DefaultNewtonConfig())
	if err != nil {
		return nil, err
	}

	glossy := material.NewBlinn(core.NewVec3(0.9, 0.6, 0.2), core.NewVec3(0.3, 0.3, 0.3), core.NewVec3(0.7, 0.7, 0.7), 40)
	moving := geometry.NewMovingSphere(core.NewVec3(1.8, 0.5, 0.5), 0.5, core.NewVec3(0, 0.3, 0), 1,
		material.NewDiffuse(core.NewVec3(0.2, 0.4, 0.8)))

	objects := []geometry.Object{
		floor,
		vase,
		geometry.NewSphere(core.NewVec3(-1.8, 0.6, 0), 0.6, glossy),
		moving,
		geometry.NewSphere(core.NewVec3(0, 5, 2), 0.5, material.NewLight(core.NewVec3(20, 20, 20))),
	}

	sceneLights := []lights.Light{
		lights.NewSphereLight(core.NewVec3(0, 5, 2), 0.55, core.NewVec3(400, 400, 400)),
	}

	return NewScene("vase", objects, cam, sceneLights, core.NewVec3(0.1, 0.12, 0.15), DefaultGamma)
}

// NewCheckerTexture creates an n x n checkerboard
func NewCheckerTexture(n int, a, b core.Vec3) *material.Texture {
	pixels := make([]core.Vec3, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if (x+y)%2 == 0 {
				pixels[y*n+x] = a
			} else {
				pixels[y*n+x] = b
			}
		}
	}
	return material.NewTexture(n, n, pixels)
}
