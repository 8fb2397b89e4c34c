package geometry

import (
	"math"
	"math/rand"

	"github.com/ReinierMaas/PathTracer/pkg/core"
	"github.com/ReinierMaas/PathTracer/pkg/material"
)

// NewSphere creates a sphere primitive
func NewSphere(center core.Vec3, radius float64, mat *material.Material) Primitive {
	return Primitive{
		kind:   sphereKind,
		Center: center,
		Radius: radius,
		Mat:    mat,
	}
}

// NewLightSphere creates an emissive sphere with the default light color
func NewLightSphere(center core.Vec3, radius float64) Primitive {
	return NewSphere(center, radius, material.NewEmissive(material.LightColor))
}

func (p *Primitive) sphereBounds() core.AABB {
	radius := core.NewVec3(p.Radius, p.Radius, p.Radius)
	return core.NewAABB(p.Center.Subtract(radius), p.Center.Add(radius))
}

// intersectSphere solves the quadratic for both roots. A valid near root is
// an outside hit; falling through to the far root means the ray starts
// inside the sphere. The normal points outward in both cases.
func (p *Primitive) intersectSphere(ray *core.Ray) (Intersection, bool) {
	oc := ray.Origin.Subtract(p.Center)

	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - p.Radius*p.Radius

	discriminant := halfB*halfB - c
	if discriminant < 0 {
		return Intersection{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	t0 := -halfB - sqrtD
	t1 := -halfB + sqrtD

	var t float64
	var inside bool
	switch {
	case t0 >= 0 && t0 < ray.Distance:
		t, inside = t0, false
	case t1 >= 0 && t1 < ray.Distance:
		t, inside = t1, true
	default:
		return Intersection{}, false
	}

	ray.Distance = t
	normal := ray.At(t).Subtract(p.Center).Multiply(1.0 / p.Radius)

	return Intersection{Normal: normal, Inside: inside, Mat: p.Mat}, true
}

// sampleSphereArea draws a uniform point on the full sphere surface
func (p *Primitive) sampleSphereArea(random *rand.Rand) (core.Vec3, core.Vec3, float64) {
	phi := 2 * math.Pi * random.Float64()
	cosTheta := 2*random.Float64() - 1
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))

	normal := core.Vec3{
		X: sinTheta * math.Cos(phi),
		Y: sinTheta * math.Sin(phi),
		Z: cosTheta,
	}
	point := p.Center.Add(normal.Multiply(p.Radius))
	area := 4 * math.Pi * p.Radius * p.Radius

	return point, normal, area
}
