package integrator

import (
	"math/rand"
	"testing"

	"github.com/ReinierMaas/PathTracer/pkg/core"
	"github.com/ReinierMaas/PathTracer/pkg/geometry"
	"github.com/ReinierMaas/PathTracer/pkg/loaders"
	"github.com/ReinierMaas/PathTracer/pkg/material"
	"github.com/ReinierMaas/PathTracer/pkg/scene"
)

// whiteBox builds a closed cube [-1,1]³ of triangles whose normals face the
// interior, with an emissive patch below the ceiling.
func whiteBox(albedo float64) *scene.Scene {
	wall := material.NewDiffuse(0, core.NewVec3(albedo, albedo, albedo))
	a, b := -1.0, 1.0
	v := [8]core.Vec3{
		core.NewVec3(a, a, a), core.NewVec3(b, a, a),
		core.NewVec3(b, b, a), core.NewVec3(a, b, a),
		core.NewVec3(a, a, b), core.NewVec3(b, a, b),
		core.NewVec3(b, b, b), core.NewVec3(a, b, b),
	}
	// wound so cross(e1,e2) points into the box
	faces := [6][4]int{
		{0, 1, 2, 3}, // -Z
		{5, 4, 7, 6}, // +Z
		{4, 5, 1, 0}, // -Y
		{7, 3, 2, 6}, // +Y
		{4, 0, 3, 7}, // -X
		{1, 5, 6, 2}, // +X
	}

	var primitives []geometry.Primitive
	for _, f := range faces {
		primitives = append(primitives,
			geometry.NewTriangle(v[f[0]], v[f[1]], v[f[2]], wall),
			geometry.NewTriangle(v[f[0]], v[f[2]], v[f[3]], wall))
	}

	down := core.NewVec3(0, -1, 0)
	primitives = append(primitives, geometry.NewTriangleWithNormals(
		core.NewVec3(-0.2, 0.9, -0.2),
		core.NewVec3(0.2, 0.9, -0.2),
		core.NewVec3(0, 0.9, 0.2),
		down, down, down,
		material.NewEmissive(material.LightColor)))

	return scene.New(primitives, nil)
}

func TestPathTracer_DirectEmissiveHit(t *testing.T) {
	sc := scene.New([]geometry.Primitive{
		geometry.NewLightSphere(core.NewVec3(0, 0, -2), 0.5),
	}, nil)
	pt := NewPathTracer(sc)
	tr := sc.BVH.NewTraversal()
	random := rand.New(rand.NewSource(42))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	got := pt.Li(ray, random, tr)
	if !got.Equals(material.LightColor) {
		t.Errorf("Expected direct emissive radiance %v, got %v", material.LightColor, got)
	}
}

func TestPathTracer_MissReturnsScaledSkybox(t *testing.T) {
	skybox := &loaders.Skybox{Width: 4, Height: 2, Data: make([]float32, 4*2*3)}
	for i := range skybox.Data {
		skybox.Data[i] = 100
	}
	sc := scene.New(nil, skybox)
	pt := NewPathTracer(sc)
	tr := sc.BVH.NewTraversal()
	random := rand.New(rand.NewSource(42))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	got := pt.Li(ray, random, tr)
	want := core.NewVec3(1, 1, 1) // 0.01 * 100
	if !got.Equals(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestPathTracer_MissWithoutSkyboxIsBlack(t *testing.T) {
	sc := scene.New(nil, nil)
	pt := NewPathTracer(sc)
	tr := sc.BVH.NewTraversal()
	random := rand.New(rand.NewSource(42))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	if got := pt.Li(ray, random, tr); !got.IsZero() {
		t.Errorf("Expected black, got %v", got)
	}
}

func TestPathTracer_EmptySceneSkipsDirectLighting(t *testing.T) {
	// A diffuse surface with no lights anywhere: the path must terminate
	// cleanly without NaN contributions.
	sc := scene.New([]geometry.Primitive{
		geometry.NewSphere(core.NewVec3(0, 0, -2), 0.5,
			material.NewDiffuse(0, core.NewVec3(0.8, 0.8, 0.8))),
	}, nil)
	pt := NewPathTracer(sc)
	tr := sc.BVH.NewTraversal()
	random := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
		got := pt.Li(ray, random, tr)
		if !got.IsFinite() {
			t.Fatalf("Expected finite radiance, got %v", got)
		}
	}
}

func TestPathTracer_OccludedLightGivesNoDirectContribution(t *testing.T) {
	// A large blocker sits between the floor point and the light, so the
	// only radiance a short path can pick up is zero.
	sc := scene.New([]geometry.Primitive{
		geometry.NewSphere(core.NewVec3(0, -2, 0), 1,
			material.NewDiffuse(0, core.NewVec3(1, 1, 1))),
		geometry.NewSphere(core.NewVec3(0, 2, 0), 1.5,
			material.NewDiffuse(0, core.NewVec3(0, 0, 0))), // black blocker
		geometry.NewLightSphere(core.NewVec3(0, 6, 0), 0.5),
	}, nil)
	pt := NewPathTracer(sc)
	pt.MaxBounces = 2
	tr := sc.BVH.NewTraversal()
	random := rand.New(rand.NewSource(42))

	var sum core.Vec3
	const n = 500
	for i := 0; i < n; i++ {
		ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0))
		sum = sum.Add(pt.Li(ray, random, tr))
	}
	if sum.Luminance() > 1e-9 {
		t.Errorf("Expected fully shadowed direct light, got mean %v", sum.Multiply(1.0/n))
	}
}

func TestPathTracer_EnergyStaysFinite(t *testing.T) {
	sc := whiteBox(1.0)
	tr := sc.BVH.NewTraversal()

	for _, bounces := range []int{2, 32, 512} {
		pt := NewPathTracer(sc)
		pt.MaxBounces = bounces
		random := rand.New(rand.NewSource(42))

		var sum core.Vec3
		const n = 200
		for i := 0; i < n; i++ {
			direction := core.NewVec3(
				random.Float64()*2-1,
				random.Float64()*2-1,
				random.Float64()*2-1).Normalize()
			if direction.IsZero() {
				continue
			}
			radiance := pt.Li(core.NewRay(core.Vec3{}, direction), random, tr)
			if !radiance.IsFinite() {
				t.Fatalf("Non-finite radiance at bounce budget %d: %v", bounces, radiance)
			}
			sum = sum.Add(radiance)
		}

		mean := sum.Multiply(1.0 / n)
		if mean.Luminance() <= 0 {
			t.Errorf("Expected positive mean radiance at bounce budget %d", bounces)
		}
	}
}

func TestPathTracer_DielectricPathStaysFinite(t *testing.T) {
	sc := scene.New([]geometry.Primitive{
		geometry.NewSphere(core.NewVec3(0, 0, -2), 0.5,
			material.NewDielectric(1.0, 1.3, core.NewVec3(0.1, 1, 0.1))),
		geometry.NewLightSphere(core.NewVec3(0, 3, -2), 0.3),
	}, nil)
	pt := NewPathTracer(sc)
	tr := sc.BVH.NewTraversal()
	random := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
		radiance := pt.Li(ray, random, tr)
		if !radiance.IsFinite() {
			t.Fatalf("Non-finite radiance through glass: %v", radiance)
		}
	}
}
