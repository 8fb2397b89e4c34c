package geometry

import (
	"math"
	"math/rand"

	"github.com/ReinierMaas/PathTracer/pkg/core"
	"github.com/ReinierMaas/PathTracer/pkg/material"
)

// NewTriangle creates a triangle primitive whose shading normals all equal
// the geometric normal
func NewTriangle(p0, p1, p2 core.Vec3, mat *material.Material) Primitive {
	normal := p1.Subtract(p0).Cross(p2.Subtract(p0)).Normalize()
	return NewTriangleWithNormals(p0, p1, p2, normal, normal, normal, mat)
}

// NewTriangleWithNormals creates a triangle primitive with per-vertex
// shading normals
func NewTriangleWithNormals(p0, p1, p2, n0, n1, n2 core.Vec3, mat *material.Material) Primitive {
	return Primitive{
		kind: triangleKind,
		P0:   p0, P1: p1, P2: p2,
		N0: n0, N1: n1, N2: n2,
		Mat: mat,
	}
}

func (p *Primitive) triangleBounds() core.AABB {
	return core.EmptyAABB().Extent(p.P0).Extent(p.P1).Extent(p.P2)
}

// intersectTriangle implements the Möller-Trumbore algorithm. The shading
// normal is interpolated from the vertex normals by barycentrics.
func (p *Primitive) intersectTriangle(ray *core.Ray) (Intersection, bool) {
	const epsilon = 1e-8

	edge1 := p.P1.Subtract(p.P0)
	edge2 := p.P2.Subtract(p.P0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return Intersection{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(p.P0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return Intersection{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return Intersection{}, false
	}

	t := f * edge2.Dot(q)
	if t < 0 || t >= ray.Distance {
		return Intersection{}, false
	}

	ray.Distance = t
	normal := p.N0.Multiply(1 - u - v).
		Add(p.N1.Multiply(u)).
		Add(p.N2.Multiply(v)).
		Normalize()

	// A negative determinant means the ray approaches from the back face.
	return Intersection{Normal: normal, Inside: a < 0, Mat: p.Mat}, true
}

// TriangleArea returns the surface area of the triangle
func (p *Primitive) TriangleArea() float64 {
	edge1 := p.P1.Subtract(p.P0)
	edge2 := p.P2.Subtract(p.P0)
	return 0.5 * edge1.Cross(edge2).Length()
}

// sampleTriangleArea draws a uniform point on the triangle via the
// square-root warp of barycentric coordinates
func (p *Primitive) sampleTriangleArea(random *rand.Rand) (core.Vec3, core.Vec3, float64) {
	sqrtR1 := math.Sqrt(random.Float64())
	r2 := random.Float64()

	point := p.P0.Multiply(1 - sqrtR1).
		Add(p.P1.Multiply(sqrtR1 * (1 - r2))).
		Add(p.P2.Multiply(sqrtR1 * r2))

	normal := p.P1.Subtract(p.P0).Cross(p.P2.Subtract(p.P0)).Normalize()

	return point, normal, p.TriangleArea()
}
