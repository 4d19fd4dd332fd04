package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-sppm-raytracer/pkg/camera"
	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/geometry"
	"github.com/df07/go-sppm-raytracer/pkg/lights"
	"github.com/df07/go-sppm-raytracer/pkg/loaders"
	"github.com/df07/go-sppm-raytracer/pkg/material"
)

var (
	ErrUnknownObjectType = errors.New("unknown object type")
	ErrUnknownLightType  = errors.New("unknown light type")
	ErrMissingMaterial   = errors.New("missing material")
	ErrNonTriangleFace   = loaders.ErrNonTriangleFace
)

// DefaultGamma is used when a scene file does not set one
const DefaultGamma = 2.2

// vec3Value accepts "x y z" strings and [x, y, z] sequences
type vec3Value core.Vec3

func (v *vec3Value) UnmarshalYAML(node *yaml.Node) error {
	values, err := decodeFloats(node, 3)
	if err != nil {
		return err
	}
	*v = vec3Value(core.NewVec3(values[0], values[1], values[2]))
	return nil
}

// vec2Value accepts "x y" strings and [x, y] sequences
type vec2Value core.Vec2

func (v *vec2Value) UnmarshalYAML(node *yaml.Node) error {
	values, err := decodeFloats(node, 2)
	if err != nil {
		return err
	}
	*v = vec2Value(core.NewVec2(values[0], values[1]))
	return nil
}

func decodeFloats(node *yaml.Node, n int) ([]float64, error) {
	var fields []string
	switch node.Kind {
	case yaml.ScalarNode:
		fields = strings.Fields(node.Value)
	case yaml.SequenceNode:
		for _, item := range node.Content {
			fields = append(fields, item.Value)
		}
	default:
		return nil, fmt.Errorf("line %d: expected vector", node.Line)
	}
	if len(fields) != n {
		return nil, fmt.Errorf("line %d: expected %d components, got %d", node.Line, n, len(fields))
	}

	values := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		values[i] = v
	}
	return values, nil
}

type sceneFile struct {
	Camera     cameraNode              `yaml:"camera"`
	Gamma      *float64                `yaml:"gamma"`
	Background *vec3Value              `yaml:"background"`
	Materials  map[string]materialNode `yaml:"materials"`
	Lights     []lightNode             `yaml:"lights"`
	World      []objectNode            `yaml:"world"`
}

type cameraNode struct {
	Pos      vec3Value `yaml:"pos"`
	Dir      vec3Value `yaml:"dir"`
	Up       vec3Value `yaml:"up"`
	Width    int       `yaml:"width"`
	Height   int       `yaml:"height"`
	Angle    float64   `yaml:"angle"`
	Focal    float64   `yaml:"focal"`
	Aperture float64   `yaml:"aperture"`
	Shutter  float64   `yaml:"shutter"`
}

type materialNode struct {
	Illum int        `yaml:"illum"`
	Ka    *vec3Value `yaml:"Ka"`
	Kd    *vec3Value `yaml:"Kd"`
	Ks    *vec3Value `yaml:"Ks"`
	Ke    *vec3Value `yaml:"Ke"`
	Ns    *float64   `yaml:"Ns"`
	Ni    *float64   `yaml:"Ni"`
	Name  string     `yaml:"name"`
}

// materialRef is either an inline material or the name of one in the materials table
type materialRef struct {
	name   string
	inline *materialNode
}

func (m *materialRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		m.name = node.Value
		return nil
	}
	m.inline = &materialNode{}
	return node.Decode(m.inline)
}

type textureNode struct {
	File      string     `yaml:"file"`
	Scale     float64    `yaml:"scale"`
	Translate *vec2Value `yaml:"translate"`
	Up        *vec3Value `yaml:"up"`
}

type newtonNode struct {
	Segments   int     `yaml:"segments"`
	Iterations int     `yaml:"iterations"`
	Tolerance  float64 `yaml:"tolerance"`
}

type lightNode struct {
	Type   string    `yaml:"type"`
	Pos    vec3Value `yaml:"pos"`
	Center vec3Value `yaml:"center"`
	R      float64   `yaml:"r"`
	Color  vec3Value `yaml:"color"`
}

type objectNode struct {
	Type string `yaml:"type"`

	Objects []objectNode `yaml:"objects"` // group

	Center   *vec3Value `yaml:"center"` // sphere
	R        float64    `yaml:"r"`
	Velocity *vec3Value `yaml:"velocity"`

	Normal *vec3Value `yaml:"normal"` // plane
	D      float64    `yaml:"d"`

	A *vec3Value `yaml:"a"` // triangle
	B *vec3Value `yaml:"b"`
	C *vec3Value `yaml:"c"`

	Obj       string     `yaml:"obj"` // load_obj
	Scale     *vec3Value `yaml:"scale"`
	Translate *vec3Value `yaml:"translate"`

	Controls []vec2Value `yaml:"controls"` // bezier
	Axis     *vec2Value  `yaml:"axis"`
	Newton   *newtonNode `yaml:"newton"`

	Mat     *materialRef `yaml:"mat"`
	Texture *textureNode `yaml:"texture"`
}

// parser carries the state shared while building one scene file
type parser struct {
	dir       string
	gamma     float64
	shutter   float64
	materials map[string]*material.Material
	textures  map[string]*material.Texture
	logger    core.Logger
}

// Load reads a YAML scene file. Relative paths inside it are resolved against
// the file's directory.
func Load(path string, logger core.Logger) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, err := Parse(name, data, filepath.Dir(path), logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse builds a scene from YAML source
func Parse(name string, data []byte, dir string, logger core.Logger) (*Scene, error) {
	var file sceneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid scene yaml: %w", err)
	}

	p := &parser{
		dir:       dir,
		gamma:     DefaultGamma,
		shutter:   file.Camera.Shutter,
		materials: make(map[string]*material.Material),
		textures:  make(map[string]*material.Texture),
		logger:    logger,
	}
	if file.Gamma != nil {
		if *file.Gamma <= 0 {
			return nil, fmt.Errorf("gamma must be positive, got %f", *file.Gamma)
		}
		p.gamma = *file.Gamma
	}

	for matName, node := range file.Materials {
		m, err := buildMaterial(node)
		if err != nil {
			return nil, fmt.Errorf("materials[%s]: %w", matName, err)
		}
		if m.Name == "" {
			m.Name = matName
		}
		p.materials[matName] = m
	}

	cam, err := buildCamera(file.Camera)
	if err != nil {
		return nil, err
	}

	var sceneLights []lights.Light
	for i, node := range file.Lights {
		light, err := buildLight(node)
		if err != nil {
			return nil, fmt.Errorf("lights[%d]: %w", i, err)
		}
		sceneLights = append(sceneLights, light)
	}

	var objects []geometry.Object
	for i, node := range file.World {
		obj, err := p.buildObject(node)
		if err != nil {
			return nil, fmt.Errorf("world[%d]: %w", i, err)
		}
		if obj != nil {
			objects = append(objects, obj)
		}
	}

	var background core.Vec3
	if file.Background != nil {
		background = core.Vec3(*file.Background)
	}

	return NewScene(name, objects, cam, sceneLights, background, p.gamma)
}

func buildCamera(node cameraNode) (*camera.PerspectiveCamera, error) {
	if node.Width <= 0 || node.Height <= 0 {
		return nil, fmt.Errorf("camera: width and height must be positive, got %dx%d", node.Width, node.Height)
	}
	if node.Angle <= 0 || node.Angle >= 180 {
		return nil, fmt.Errorf("camera: angle must be in (0, 180), got %f", node.Angle)
	}
	dir := core.Vec3(node.Dir)
	up := core.Vec3(node.Up)
	if dir.IsZero() || dir.Cross(up).IsZero() {
		return nil, fmt.Errorf("camera: dir and up must be non-zero and not parallel")
	}

	return camera.NewPerspectiveCamera(camera.CameraConfig{
		Center:      core.Vec3(node.Pos),
		Direction:   dir,
		Up:          up,
		Width:       node.Width,
		Height:      node.Height,
		Angle:       node.Angle,
		FocalLength: node.Focal,
		Aperture:    node.Aperture,
		Shutter:     node.Shutter,
	}), nil
}

func buildMaterial(node materialNode) (*material.Material, error) {
	illum := material.IlluminationModel(node.Illum)
	if !illum.Valid() {
		return nil, fmt.Errorf("unknown illum %d", node.Illum)
	}

	m := material.New(illum, core.Vec3{})
	m.Name = node.Name
	if node.Ka != nil {
		m.Ambient = core.Vec3(*node.Ka)
	}
	if node.Kd != nil {
		m.Diffuse = core.Vec3(*node.Kd)
	}
	if node.Ks != nil {
		m.Specular = core.Vec3(*node.Ks)
	}
	if node.Ke != nil {
		m.Emission = core.Vec3(*node.Ke)
	}
	if node.Ns != nil {
		m.Shininess = *node.Ns
	}
	if node.Ni != nil {
		m.Refraction = *node.Ni
	}
	return m, nil
}

func buildLight(node lightNode) (lights.Light, error) {
	switch node.Type {
	case "point":
		return lights.NewPointLight(core.Vec3(node.Pos), core.Vec3(node.Color)), nil
	case "sphere":
		if node.R <= 0 {
			return nil, fmt.Errorf("sphere light radius must be positive, got %f", node.R)
		}
		return lights.NewSphereLight(core.Vec3(node.Center), node.R, core.Vec3(node.Color)), nil
	default:
		return nil, fmt.Errorf("%q: %w", node.Type, ErrUnknownLightType)
	}
}

func (p *parser) material(ref *materialRef) (*material.Material, error) {
	if ref == nil {
		return nil, ErrMissingMaterial
	}
	if ref.inline != nil {
		return buildMaterial(*ref.inline)
	}
	m, ok := p.materials[ref.name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", ref.name, ErrMissingMaterial)
	}
	return m, nil
}

func (p *parser) texture(file string) (*material.Texture, error) {
	if !filepath.IsAbs(file) {
		file = filepath.Join(p.dir, file)
	}
	return p.textureAt(file)
}

// textureAt loads a texture by its resolved path, once per scene
func (p *parser) textureAt(file string) (*material.Texture, error) {
	if tex, ok := p.textures[file]; ok {
		return tex, nil
	}
	tex, err := loaders.LoadTexture(file, p.gamma)
	if err != nil {
		return nil, err
	}
	p.textures[file] = tex
	return tex, nil
}

func (p *parser) buildObject(node objectNode) (geometry.Object, error) {
	switch node.Type {
	case "group":
		group := geometry.NewGroup()
		for i, child := range node.Objects {
			obj, err := p.buildObject(child)
			if err != nil {
				return nil, fmt.Errorf("objects[%d]: %w", i, err)
			}
			if obj != nil {
				group.Add(obj)
			}
		}
		return group, nil

	case "sphere":
		if node.Center == nil || node.R <= 0 {
			return nil, fmt.Errorf("sphere needs a center and a positive r")
		}
		mat, err := p.material(node.Mat)
		if err != nil {
			return nil, err
		}
		sphere := geometry.NewSphere(core.Vec3(*node.Center), node.R, mat)
		if node.Velocity != nil {
			sphere.Velocity = core.Vec3(*node.Velocity)
			sphere.Shutter = p.shutter
		}
		if node.Texture != nil {
			if sphere.Texture, err = p.texture(node.Texture.File); err != nil {
				return nil, err
			}
		}
		return sphere, nil

	case "plane":
		if node.Normal == nil || core.Vec3(*node.Normal).IsZero() {
			return nil, fmt.Errorf("plane needs a non-zero normal")
		}
		mat, err := p.material(node.Mat)
		if err != nil {
			return nil, err
		}
		plane := geometry.NewPlane(core.Vec3(*node.Normal), node.D, mat)
		if node.Texture != nil {
			if plane.Texture, err = p.texture(node.Texture.File); err != nil {
				return nil, err
			}
			if node.Texture.Scale > 0 {
				plane.TextureScale = node.Texture.Scale
			}
			if node.Texture.Translate != nil {
				plane.TextureTranslate = core.Vec2(*node.Texture.Translate)
			}
			if node.Texture.Up != nil {
				plane.SetTextureUp(core.Vec3(*node.Texture.Up))
			}
		}
		return plane, nil

	case "triangle":
		if node.A == nil || node.B == nil || node.C == nil {
			return nil, fmt.Errorf("triangle needs a, b and c")
		}
		mat, err := p.material(node.Mat)
		if err != nil {
			return nil, err
		}
		return geometry.NewTriangle(core.Vec3(*node.A), core.Vec3(*node.B), core.Vec3(*node.C), mat), nil

	case "load_obj":
		return p.buildOBJ(node)

	case "bezier":
		return p.buildBezier(node)

	case "bbox":
		// debug geometry, nothing to intersect
		if p.logger != nil {
			p.logger.Warningf("ignoring bbox object")
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("%q: %w", node.Type, ErrUnknownObjectType)
	}
}

func (p *parser) buildBezier(node objectNode) (geometry.Object, error) {
	controls := make([]core.Vec2, len(node.Controls))
	for i, c := range node.Controls {
		controls[i] = core.Vec2(c)
	}
	curve, err := geometry.NewBezierCurve(controls)
	if err != nil {
		return nil, err
	}

	mat, err := p.material(node.Mat)
	if err != nil {
		return nil, err
	}

	cfg := geometry.DefaultNewtonConfig()
	if node.Newton != nil {
		if node.Newton.Segments > 0 {
			cfg.Segments = node.Newton.Segments
		}
		if node.Newton.Iterations > 0 {
			cfg.Iterations = node.Newton.Iterations
		}
		if node.Newton.Tolerance > 0 {
			cfg.Tolerance = node.Newton.Tolerance
		}
	}

	var axis core.Vec2
	if node.Axis != nil {
		axis = core.Vec2(*node.Axis)
	}

	rb, err := geometry.NewRotateBezier(curve, axis, mat, cfg)
	if err != nil {
		return nil, err
	}
	if node.Texture != nil {
		if rb.Texture, err = p.texture(node.Texture.File); err != nil {
			return nil, err
		}
	}
	return rb, nil
}

// buildOBJ loads a mesh. Faces use their usemtl material when the library
// defines it and the node's mat otherwise.
func (p *parser) buildOBJ(node objectNode) (geometry.Object, error) {
	file := node.Obj
	if file == "" {
		return nil, fmt.Errorf("load_obj needs an obj file")
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(p.dir, file)
	}

	data, err := loaders.LoadOBJ(file)
	if err != nil {
		return nil, err
	}

	var fallback *material.Material
	if node.Mat != nil {
		if fallback, err = p.material(node.Mat); err != nil {
			return nil, err
		}
	}

	scale := core.NewVec3(1, 1, 1)
	if node.Scale != nil {
		scale = core.Vec3(*node.Scale)
	}
	var translate core.Vec3
	if node.Translate != nil {
		translate = core.Vec3(*node.Translate)
	}

	vertices := make([]core.Vec3, len(data.Vertices))
	for i, v := range data.Vertices {
		vertices[i] = v.MultiplyVec(scale).Add(translate)
	}
	normals := make([]core.Vec3, len(data.Normals))
	for i, n := range data.Normals {
		normals[i] = n.DivideVec(scale).Normalize()
	}

	libMaterials := make(map[string]*material.Material)
	libTextures := make(map[string]*material.Texture)
	for name, mm := range data.Materials {
		libMaterials[name] = mm.Material
		if mm.TextureFile != "" {
			tex, err := p.textureAt(mm.TextureFile)
			if err != nil {
				return nil, err
			}
			libTextures[name] = tex
		}
	}

	triangles := make([]*geometry.Triangle, 0, len(data.Faces))
	for i, face := range data.Faces {
		mat, ok := libMaterials[face.Material]
		if !ok {
			mat = fallback
		}
		if mat == nil {
			return nil, fmt.Errorf("%s face %d: %w", node.Obj, i, ErrMissingMaterial)
		}

		tri := geometry.NewTriangle(vertices[face.Vertices[0]], vertices[face.Vertices[1]], vertices[face.Vertices[2]], mat)
		if face.Normals[0] >= 0 && face.Normals[1] >= 0 && face.Normals[2] >= 0 {
			tri.SetNormals(normals[face.Normals[0]], normals[face.Normals[1]], normals[face.Normals[2]])
		}
		if tex := libTextures[face.Material]; tex != nil && face.UVs[0] >= 0 && face.UVs[1] >= 0 && face.UVs[2] >= 0 {
			tri.SetUVs(data.UVs[face.UVs[0]], data.UVs[face.UVs[1]], data.UVs[face.UVs[2]])
			tri.Texture = tex
		}
		triangles = append(triangles, tri)
	}

	if len(triangles) == 0 {
		return nil, fmt.Errorf("%s has no faces", node.Obj)
	}
	return geometry.NewMeshFromTriangles(triangles, fallback)
}
