package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/ReinierMaas/PathTracer/pkg/core"
	"github.com/ReinierMaas/PathTracer/pkg/material"
)

func testDiffuse() *material.Material {
	return material.NewDiffuse(0, core.NewVec3(0.9, 0.9, 0.9))
}

func TestSphere_IntersectFromOutside(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1, testDiffuse())

	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	hit, ok := sphere.Intersect(&ray)
	if !ok {
		t.Fatal("Expected hit")
	}
	if math.Abs(ray.Distance-4) > 1e-9 {
		t.Errorf("Expected distance 4, got %f", ray.Distance)
	}
	if !hit.Normal.Equals(core.NewVec3(0, 0, -1)) {
		t.Errorf("Expected normal (0,0,-1), got %v", hit.Normal)
	}
	if hit.Inside {
		t.Error("Expected outside hit")
	}
}

func TestSphere_IntersectFromInside(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1, testDiffuse())

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	hit, ok := sphere.Intersect(&ray)
	if !ok {
		t.Fatal("Expected hit")
	}
	if math.Abs(ray.Distance-1) > 1e-9 {
		t.Errorf("Expected distance 1, got %f", ray.Distance)
	}
	if !hit.Inside {
		t.Error("Expected inside hit")
	}
	// Normal still points outward; the integrator flips it
	if !hit.Normal.Equals(core.NewVec3(0, 0, 1)) {
		t.Errorf("Expected outward normal (0,0,1), got %v", hit.Normal)
	}
}

func TestSphere_IntersectRespectsCurrentDistance(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1, testDiffuse())

	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	ray.Distance = 3 // something closer was already hit
	if _, ok := sphere.Intersect(&ray); ok {
		t.Error("Expected no hit beyond the current closest distance")
	}
	if ray.Distance != 3 {
		t.Errorf("Expected distance untouched, got %f", ray.Distance)
	}
}

func TestSphere_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1, testDiffuse())

	ray := core.NewRay(core.NewVec3(0, 5, -5), core.NewVec3(0, 0, 1))
	if _, ok := sphere.Intersect(&ray); ok {
		t.Error("Expected miss")
	}

	// Sphere entirely behind the origin
	ray = core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1))
	if _, ok := sphere.Intersect(&ray); ok {
		t.Error("Expected miss for sphere behind the ray")
	}
}

func TestSphere_BoundsAndCentroid(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 0.5, testDiffuse())

	bounds := sphere.Bounds()
	if !bounds.Min.Equals(core.NewVec3(0.5, 1.5, 2.5)) || !bounds.Max.Equals(core.NewVec3(1.5, 2.5, 3.5)) {
		t.Errorf("Unexpected bounds %v..%v", bounds.Min, bounds.Max)
	}
	if !sphere.Centroid().Equals(core.NewVec3(1, 2, 3)) {
		t.Errorf("Unexpected centroid %v", sphere.Centroid())
	}
}

func TestSphere_SampleArea(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	sphere := NewLightSphere(core.NewVec3(2, -1, 0.5), 0.3)

	wantArea := 4 * math.Pi * 0.3 * 0.3
	for i := 0; i < 1000; i++ {
		point, normal, area := sphere.SampleArea(random)
		if math.Abs(area-wantArea) > 1e-12 {
			t.Fatalf("Expected area %f, got %f", wantArea, area)
		}
		radial := point.Subtract(sphere.Center)
		if math.Abs(radial.Length()-0.3) > 1e-9 {
			t.Fatalf("Sample %v not on the sphere surface", point)
		}
		if !normal.Equals(radial.Multiply(1 / 0.3)) {
			t.Fatalf("Normal %v does not point radially outward", normal)
		}
	}
}

func TestSphere_SampleAreaCoversBothHemispheres(t *testing.T) {
	// Uniform samples average to the center and spread equally along the
	// two azimuthal axes.
	random := rand.New(rand.NewSource(1))
	sphere := NewLightSphere(core.NewVec3(0, 0, 0), 1)

	var mean core.Vec3
	const n = 10000
	for i := 0; i < n; i++ {
		point, _, _ := sphere.SampleArea(random)
		mean = mean.Add(point)
	}
	mean = mean.Multiply(1.0 / n)

	if math.Abs(mean.X) > 0.05 || math.Abs(mean.Y) > 0.05 || math.Abs(mean.Z) > 0.05 {
		t.Errorf("Expected near-zero mean for uniform sphere samples, got %v", mean)
	}

	var sumAbsX, sumAbsY float64
	random = rand.New(rand.NewSource(1))
	for i := 0; i < n; i++ {
		point, _, _ := sphere.SampleArea(random)
		sumAbsX += math.Abs(point.X)
		sumAbsY += math.Abs(point.Y)
	}
	// Both tangential axes must carry comparable spread
	if math.Abs(sumAbsX-sumAbsY)/n > 0.05 {
		t.Errorf("Axis spread mismatch: |x| mean %f vs |y| mean %f", sumAbsX/n, sumAbsY/n)
	}
}

func TestLightSphere_IsLight(t *testing.T) {
	light := NewLightSphere(core.NewVec3(0, 0, 0), 1)
	radiance, ok := light.Light()
	if !ok {
		t.Fatal("Expected light sphere to be a light")
	}
	if !radiance.Equals(material.LightColor) {
		t.Errorf("Expected default light color, got %v", radiance)
	}

	diffuse := NewSphere(core.Vec3{}, 1, testDiffuse())
	if _, ok := diffuse.Light(); ok {
		t.Error("Expected diffuse sphere not to be a light")
	}
}
