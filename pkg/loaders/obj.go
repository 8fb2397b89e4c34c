package loaders

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ReinierMaas/PathTracer/pkg/core"
	"github.com/ReinierMaas/PathTracer/pkg/geometry"
	"github.com/ReinierMaas/PathTracer/pkg/material"
)

// objMaterial holds the subset of MTL attributes the renderer maps onto its
// material model
type objMaterial struct {
	ambient   core.Vec3 // Ka
	diffuse   core.Vec3 // Kd
	shininess float64   // Ns
	dissolve  float64   // d
}

// LoadOBJ parses a Wavefront OBJ file (with its MTL libraries) and returns
// triangle primitives. Faces with more than three vertices are fan
// triangulated. Per-vertex normals are used when present; otherwise the
// geometric normal stands in.
func LoadOBJ(path string, logger core.Logger) ([]geometry.Primitive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()

	materials := make(map[string]objMaterial)
	var positions []core.Vec3
	var normals []core.Vec3
	var triangles []geometry.Primitive

	currentMaterial := ""

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "mtllib":
			if len(fields) < 2 {
				continue
			}
			mtlPath := filepath.Join(filepath.Dir(path), fields[1])
			if err := loadMTL(mtlPath, materials); err != nil {
				return nil, err
			}
		case "usemtl":
			if len(fields) >= 2 {
				currentMaterial = fields[1]
			}
		case "v":
			p, err := parseVec3(fields)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			positions = append(positions, p)
		case "vn":
			n, err := parseVec3(fields)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			normals = append(normals, n)
		case "f":
			tris, err := parseFace(fields[1:], positions, normals, meshMaterial(materials, currentMaterial))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			triangles = append(triangles, tris...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ file: %w", err)
	}

	logger.Printf("Loaded %s: %d vertices, %d normals, %d triangles\n",
		filepath.Base(path), len(positions), len(normals), len(triangles))

	return triangles, nil
}

// meshMaterial translates an MTL entry to a renderer material. Translucent
// entries (dissolve < 1) become glass tinted by the ambient color; opaque
// entries become diffuse with the shininess driving the mirror probability.
func meshMaterial(materials map[string]objMaterial, name string) *material.Material {
	m, ok := materials[name]
	if !ok {
		return material.NewDiffuse(0, core.NewVec3(0.9, 0.9, 0.9))
	}
	if m.dissolve < 1.0 {
		return material.NewDielectric(1.0, 1.3, m.ambient)
	}
	return material.NewDiffuse(m.shininess, m.diffuse)
}

type faceVertex struct {
	position int
	normal   int // 0 when absent
}

func parseFace(refs []string, positions, normals []core.Vec3, mat *material.Material) ([]geometry.Primitive, error) {
	if len(refs) < 3 {
		return nil, fmt.Errorf("face with %d vertices", len(refs))
	}

	vertices := make([]faceVertex, len(refs))
	for i, ref := range refs {
		v, err := parseFaceVertex(ref, len(positions), len(normals))
		if err != nil {
			return nil, err
		}
		vertices[i] = v
	}

	var triangles []geometry.Primitive
	for i := 1; i < len(vertices)-1; i++ {
		corners := [3]faceVertex{vertices[0], vertices[i], vertices[i+1]}
		p0 := positions[corners[0].position-1]
		p1 := positions[corners[1].position-1]
		p2 := positions[corners[2].position-1]

		if corners[0].normal > 0 && corners[1].normal > 0 && corners[2].normal > 0 {
			triangles = append(triangles, geometry.NewTriangleWithNormals(
				p0, p1, p2,
				normals[corners[0].normal-1],
				normals[corners[1].normal-1],
				normals[corners[2].normal-1],
				mat))
		} else {
			triangles = append(triangles, geometry.NewTriangle(p0, p1, p2, mat))
		}
	}
	return triangles, nil
}

// parseFaceVertex handles the v, v/vt, v//vn and v/vt/vn reference forms,
// including negative (relative) indices
func parseFaceVertex(ref string, positionCount, normalCount int) (faceVertex, error) {
	parts := strings.Split(ref, "/")

	position, err := strconv.Atoi(parts[0])
	if err != nil {
		return faceVertex{}, fmt.Errorf("bad vertex reference %q", ref)
	}
	if position < 0 {
		position = positionCount + position + 1
	}
	if position < 1 || position > positionCount {
		return faceVertex{}, fmt.Errorf("vertex index %d out of range", position)
	}

	v := faceVertex{position: position}
	if len(parts) == 3 && parts[2] != "" {
		normal, err := strconv.Atoi(parts[2])
		if err != nil {
			return faceVertex{}, fmt.Errorf("bad normal reference %q", ref)
		}
		if normal < 0 {
			normal = normalCount + normal + 1
		}
		if normal < 1 || normal > normalCount {
			return faceVertex{}, fmt.Errorf("normal index %d out of range", normal)
		}
		v.normal = normal
	}
	return v, nil
}

func parseVec3(fields []string) (core.Vec3, error) {
	if len(fields) < 4 {
		return core.Vec3{}, fmt.Errorf("short %s line", fields[0])
	}
	x, err1 := strconv.ParseFloat(fields[1], 64)
	y, err2 := strconv.ParseFloat(fields[2], 64)
	z, err3 := strconv.ParseFloat(fields[3], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return core.Vec3{}, fmt.Errorf("bad %s line", fields[0])
	}
	return core.NewVec3(x, y, z), nil
}

// loadMTL parses a material library into the materials map
func loadMTL(path string, materials map[string]objMaterial) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open MTL file: %w", err)
	}
	defer f.Close()

	current := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "newmtl":
			if len(fields) >= 2 {
				current = fields[1]
				materials[current] = objMaterial{dissolve: 1.0}
			}
		case "Ka", "Kd":
			if current == "" {
				continue
			}
			v, err := parseVec3(fields)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			m := materials[current]
			if fields[0] == "Ka" {
				m.ambient = v
			} else {
				m.diffuse = v
			}
			materials[current] = m
		case "Ns", "d":
			if current == "" || len(fields) < 2 {
				continue
			}
			value, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return fmt.Errorf("%s: bad %s line", path, fields[0])
			}
			m := materials[current]
			if fields[0] == "Ns" {
				m.shininess = value
			} else {
				m.dissolve = value
			}
			materials[current] = m
		}
	}
	return scanner.Err()
}
