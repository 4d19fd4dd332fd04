package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-sppm-raytracer/pkg/core"
	"github.com/df07/go-sppm-raytracer/pkg/material"
)

// ErrNonTriangleFace is returned for faces with other than three vertices
var ErrNonTriangleFace = errors.New("face is not a triangle")

// OBJFace is one triangle. Normal and UV indices are -1 when absent.
type OBJFace struct {
	Vertices [3]int
	Normals  [3]int
	UVs      [3]int
	Material string // usemtl name in effect, "" if none
}

// OBJData contains the raw data loaded from a Wavefront OBJ file
type OBJData struct {
	Vertices  []core.Vec3
	Normals   []core.Vec3
	UVs       []core.Vec2
	Faces     []OBJFace
	Materials map[string]*MTLMaterial // from every mtllib referenced
}

// LoadOBJ loads an OBJ file and the material libraries it references
func LoadOBJ(filename string) (*OBJData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	data, libs, err := parseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	dir := filepath.Dir(filename)
	for _, lib := range libs {
		materials, err := LoadMTL(filepath.Join(dir, lib))
		if err != nil {
			return nil, err
		}
		for name, m := range materials {
			data.Materials[name] = m
		}
	}
	return data, nil
}

func parseOBJ(r io.Reader) (*OBJData, []string, error) {
	data := &OBJData{Materials: make(map[string]*MTLMaterial)}
	var libs []string
	currentMaterial := ""

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(stripComment(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var v core.Vec3
			v, err = parseVec3(fields[1:])
			data.Vertices = append(data.Vertices, v)
		case "vn":
			var n core.Vec3
			n, err = parseVec3(fields[1:])
			data.Normals = append(data.Normals, n.Normalize())
		case "vt":
			var uv core.Vec2
			uv, err = parseVec2(fields[1:])
			data.UVs = append(data.UVs, uv)
		case "f":
			var face OBJFace
			face, err = data.parseFace(fields[1:])
			face.Material = currentMaterial
			data.Faces = append(data.Faces, face)
		case "usemtl":
			if len(fields) > 1 {
				currentMaterial = fields[1]
			}
		case "mtllib":
			libs = append(libs, fields[1:]...)
		}
		// o, g, s and unknown statements are ignored

		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return data, libs, nil
}

// parseFace resolves "v", "v/vt", "v//vn" and "v/vt/vn" references, including
// negative indices relative to the current end of each list
func (data *OBJData) parseFace(refs []string) (OBJFace, error) {
	face := OBJFace{Normals: [3]int{-1, -1, -1}, UVs: [3]int{-1, -1, -1}}
	if len(refs) != 3 {
		return face, fmt.Errorf("%d vertices: %w", len(refs), ErrNonTriangleFace)
	}

	for i, ref := range refs {
		parts := strings.Split(ref, "/")

		v, err := resolveIndex(parts[0], len(data.Vertices))
		if err != nil {
			return face, err
		}
		face.Vertices[i] = v

		if len(parts) > 1 && parts[1] != "" {
			if face.UVs[i], err = resolveIndex(parts[1], len(data.UVs)); err != nil {
				return face, err
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if face.Normals[i], err = resolveIndex(parts[2], len(data.Normals)); err != nil {
				return face, err
			}
		}
	}
	return face, nil
}

func resolveIndex(s string, count int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q: %w", s, err)
	}
	if idx < 0 {
		idx += count
	} else {
		idx--
	}
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("index %s out of range (%d defined)", s, count)
	}
	return idx, nil
}

// MTLMaterial is one newmtl block of a material library
type MTLMaterial struct {
	Material    *material.Material
	TextureFile string // map_Kd resolved against the library directory, "" if none
}

// LoadMTL loads every material of a Wavefront material library
func LoadMTL(filename string) (map[string]*MTLMaterial, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open MTL file: %w", err)
	}
	defer file.Close()

	materials, err := parseMTL(file, filepath.Dir(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return materials, nil
}

func parseMTL(r io.Reader, dir string) (map[string]*MTLMaterial, error) {
	materials := make(map[string]*MTLMaterial)
	var current *MTLMaterial

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(stripComment(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "newmtl" {
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: newmtl without a name", lineNo)
			}
			m := material.New(material.Diffuse, core.Vec3{})
			m.Name = fields[1]
			current = &MTLMaterial{Material: m}
			materials[m.Name] = current
			continue
		}
		if current == nil {
			continue
		}

		m := current.Material
		var err error
		switch fields[0] {
		case "Ka":
			m.Ambient, err = parseVec3(fields[1:])
		case "Kd":
			m.Diffuse, err = parseVec3(fields[1:])
		case "Ks":
			m.Specular, err = parseVec3(fields[1:])
		case "Ke":
			m.Emission, err = parseVec3(fields[1:])
		case "Ns":
			m.Shininess, err = parseFloat(fields[1:])
		case "Ni":
			m.Refraction, err = parseFloat(fields[1:])
		case "illum":
			var illum float64
			illum, err = parseFloat(fields[1:])
			m.Illum = material.IlluminationModel(int(illum))
			if err == nil && !m.Illum.Valid() {
				err = fmt.Errorf("unknown illum %d", int(illum))
			}
		case "map_Kd":
			if len(fields) > 1 {
				current.TextureFile = filepath.Join(dir, fields[len(fields)-1])
			}
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// A material with only Kd uses it as base color
	for _, mm := range materials {
		if mm.Material.Ambient.IsZero() {
			mm.Material.Ambient = mm.Material.Diffuse
		}
	}
	return materials, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func parseFloat(fields []string) (float64, error) {
	if len(fields) < 1 {
		return 0, fmt.Errorf("missing value")
	}
	return strconv.ParseFloat(fields[0], 64)
}

func parseVec2(fields []string) (core.Vec2, error) {
	if len(fields) < 2 {
		return core.Vec2{}, fmt.Errorf("expected 2 values, got %d", len(fields))
	}
	var v [2]float64
	for i := range v {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return core.Vec2{}, err
		}
		v[i] = f
	}
	return core.NewVec2(v[0], v[1]), nil
}

func parseVec3(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 values, got %d", len(fields))
	}
	var v [3]float64
	for i := range v {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return core.Vec3{}, err
		}
		v[i] = f
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}
