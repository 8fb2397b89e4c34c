package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ReinierMaas/PathTracer/pkg/core"
	"github.com/ReinierMaas/PathTracer/pkg/material"
)

const testMTL = `# test materials
newmtl glass
Ka 0.2 0.9 0.2
Kd 0.1 0.1 0.1
Ns 0.0
d 0.5

newmtl shiny
Ka 0.0 0.0 0.0
Kd 0.8 0.1 0.1
Ns 0.6
d 1.0
`

const testOBJ = `# two quads and a bare triangle
mtllib test.mtl
v -1 0 -1
v 1 0 -1
v 1 0 1
v -1 0 1
v 0 2 0
vn 0 1 0

f 1//1 2//1 3//1 4//1

usemtl glass
f 1//1 2//1 5//1

usemtl shiny
f 2//1 3//1 5//1
`

func writeOBJ(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test.mtl"), []byte(testMTL), 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "test.obj")
	if err := os.WriteFile(path, []byte(testOBJ), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOBJ_TriangulatesAndCounts(t *testing.T) {
	triangles, err := LoadOBJ(writeOBJ(t), core.NewSilentLogger())
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	// quad fan -> 2 triangles, plus the two single triangles
	if len(triangles) != 4 {
		t.Fatalf("Expected 4 triangles, got %d", len(triangles))
	}
}

func TestLoadOBJ_MaterialMapping(t *testing.T) {
	triangles, err := LoadOBJ(writeOBJ(t), core.NewSilentLogger())
	if err != nil {
		t.Fatal(err)
	}

	// Face before any usemtl gets the fallback diffuse
	fallback := triangles[0].Mat
	if fallback.Kind != material.Diffuse || fallback.SpecularProb != 0 {
		t.Errorf("Expected fallback diffuse, got %+v", fallback)
	}
	if !fallback.Color.Equals(core.NewVec3(0.9, 0.9, 0.9)) {
		t.Errorf("Expected fallback color (0.9,0.9,0.9), got %v", fallback.Color)
	}

	// dissolve < 1 becomes glass tinted by the ambient color
	glass := triangles[2].Mat
	if glass.Kind != material.Dielectric {
		t.Fatalf("Expected dielectric for translucent material, got %+v", glass)
	}
	if glass.N1 != 1.0 || glass.N2 != 1.3 {
		t.Errorf("Expected n1=1, n2=1.3, got %f, %f", glass.N1, glass.N2)
	}
	if !glass.Color.Equals(core.NewVec3(0.2, 0.9, 0.2)) {
		t.Errorf("Expected ambient tint, got %v", glass.Color)
	}

	// opaque becomes diffuse with the shininess as specular probability
	shiny := triangles[3].Mat
	if shiny.Kind != material.Diffuse || shiny.SpecularProb != 0.6 {
		t.Errorf("Expected diffuse with specular 0.6, got %+v", shiny)
	}
	if !shiny.Color.Equals(core.NewVec3(0.8, 0.1, 0.1)) {
		t.Errorf("Expected diffuse color, got %v", shiny.Color)
	}
}

func TestLoadOBJ_UsesVertexNormals(t *testing.T) {
	triangles, err := LoadOBJ(writeOBJ(t), core.NewSilentLogger())
	if err != nil {
		t.Fatal(err)
	}
	up := core.NewVec3(0, 1, 0)
	if !triangles[0].N0.Equals(up) || !triangles[0].N1.Equals(up) || !triangles[0].N2.Equals(up) {
		t.Error("Expected vertex normals from the vn records")
	}
}

func TestLoadOBJ_MissingFile(t *testing.T) {
	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "nope.obj"), core.NewSilentLogger()); err == nil {
		t.Error("Expected error for missing OBJ file")
	}
}

func TestLoadOBJ_BadFaceIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\nf 1 2 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOBJ(path, core.NewSilentLogger()); err == nil {
		t.Error("Expected error for out-of-range face index")
	}
}
