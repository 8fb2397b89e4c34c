package geometry

import (
	"math/rand"

	"github.com/ReinierMaas/PathTracer/pkg/core"
	"github.com/ReinierMaas/PathTracer/pkg/material"
)

type shapeKind uint8

const (
	sphereKind shapeKind = iota
	triangleKind
)

// Intersection describes a ray-surface hit. The normal always points out of
// the surface; the integrator flips it for inside hits.
type Intersection struct {
	Normal core.Vec3
	Inside bool
	Mat    *material.Material
}

// Primitive is a closed tagged variant over spheres and triangles. Keeping
// the variants in one value keeps the BVH object array homogeneous.
type Primitive struct {
	kind shapeKind

	// sphere
	Center core.Vec3
	Radius float64

	// triangle vertices and per-vertex shading normals
	P0, P1, P2 core.Vec3
	N0, N1, N2 core.Vec3

	Mat *material.Material
}

// Bounds returns the axis-aligned bounding box of the primitive
func (p *Primitive) Bounds() core.AABB {
	if p.kind == sphereKind {
		return p.sphereBounds()
	}
	return p.triangleBounds()
}

// Centroid returns the center point used for BVH partitioning
func (p *Primitive) Centroid() core.Vec3 {
	if p.kind == sphereKind {
		return p.Center
	}
	return p.P0.Add(p.P1).Add(p.P2).Multiply(1.0 / 3.0)
}

// Intersect tests the ray against the primitive. On a hit the ray's Distance
// is shortened to the new closest t and the hit data is returned.
func (p *Primitive) Intersect(ray *core.Ray) (Intersection, bool) {
	if p.kind == sphereKind {
		return p.intersectSphere(ray)
	}
	return p.intersectTriangle(ray)
}

// Light returns the emitted radiance when the primitive is a light source
func (p *Primitive) Light() (core.Vec3, bool) {
	if p.Mat.Kind == material.Emissive {
		return p.Mat.Radiance, true
	}
	return core.Vec3{}, false
}

// SampleArea draws a uniform point on the primitive's surface, returning the
// point, the surface normal there, and the total surface area. Only used for
// emissive primitives during next-event estimation.
func (p *Primitive) SampleArea(random *rand.Rand) (point, normal core.Vec3, area float64) {
	if p.kind == sphereKind {
		return p.sampleSphereArea(random)
	}
	return p.sampleTriangleArea(random)
}
