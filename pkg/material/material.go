package material

import (
	"fmt"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// IlluminationModel is the Wavefront .mtl "illum" tag that selects how a surface scatters light
type IlluminationModel int

const (
	Constant    IlluminationModel = iota // Kd color
	Diffuse                              // Lambertian shading
	Blinn                                // Blinn-Phong diffuse and specular combined
	Reflective                           // perfect mirror
	Transparent                          // dielectric with Fresnel reflect/refract

	// Legacy tags accepted from scene files; they scatter like Diffuse.
	FresnelReflection
	TransparentNoReflection
	TransparentReflection
	ReflectionNoRayTrace
	TransparentNoRayTrace
	CastShadows
)

var modelNames = [...]string{
	"constant",
	"diffuse",
	"blinn",
	"reflective",
	"transparent",
	"fresnelReflection",
	"transparentNoReflection",
	"transparentReflection",
	"reflectionNoRayTrace",
	"transparentNoRayTrace",
	"castShadows",
}

func (m IlluminationModel) String() string {
	if m < 0 || int(m) >= len(modelNames) {
		return fmt.Sprintf("illum(%d)", int(m))
	}
	return modelNames[m]
}

// Valid reports whether m is one of the known tags
func (m IlluminationModel) Valid() bool {
	return m >= Constant && m <= CastShadows
}

// Material holds the .mtl-style coefficients of a surface. Materials are
// created at scene load time and shared read-only between primitives and workers.
type Material struct {
	Name  string
	Illum IlluminationModel

	Ambient  core.Vec3 // Ka, base color used when no texture is bound
	Diffuse  core.Vec3 // Kd
	Specular core.Vec3 // Ks
	Emission core.Vec3 // Ke

	Shininess  float64 // Ns
	Refraction float64 // Ni
}

// New creates a material with the given illumination model and base color
func New(illum IlluminationModel, ambient core.Vec3) *Material {
	return &Material{Illum: illum, Ambient: ambient, Refraction: 1}
}

// NewDiffuse creates a lambertian material
func NewDiffuse(color core.Vec3) *Material {
	return New(Diffuse, color)
}

// NewMirror creates a perfectly reflective material tinted by color
func NewMirror(color core.Vec3) *Material {
	return New(Reflective, color)
}

// NewGlass creates a dielectric with refractive index ior
func NewGlass(color core.Vec3, ior float64) *Material {
	m := New(Transparent, color)
	m.Refraction = ior
	return m
}

// NewBlinn creates a glossy material
func NewBlinn(color, kd, ks core.Vec3, shininess float64) *Material {
	m := New(Blinn, color)
	m.Diffuse = kd
	m.Specular = ks
	m.Shininess = shininess
	return m
}

// NewLight creates a diffuse emitter
func NewLight(emission core.Vec3) *Material {
	m := New(Diffuse, core.Vec3{})
	m.Emission = emission
	return m
}

// IsDiffuse reports whether the surface scatters diffusely. Photon mapping
// stores visible points and deposits photons only on diffuse surfaces.
func (m *Material) IsDiffuse() bool {
	switch m.Illum {
	case Blinn, Reflective, Transparent:
		return false
	}
	return true
}

// IsEmissive reports whether the material emits light
func (m *Material) IsEmissive() bool {
	return !m.Emission.IsZero()
}
