package integrator

import (
	"math"
	"math/rand"

	"github.com/ReinierMaas/PathTracer/pkg/core"
	"github.com/ReinierMaas/PathTracer/pkg/geometry"
	"github.com/ReinierMaas/PathTracer/pkg/material"
	"github.com/ReinierMaas/PathTracer/pkg/scene"
)

// DefaultMaxBounces is the standard bounce budget per path
const DefaultMaxBounces = 32

// PathTracer estimates radiance along camera rays with unidirectional path
// tracing: next-event estimation at diffuse bounces combined with BSDF
// sampling through a summed-pdf weight, Russian roulette termination, and
// Beer-Lambert absorption inside dielectrics.
type PathTracer struct {
	scene       *scene.Scene
	MaxBounces  int
	SkyboxScale float64
}

// NewPathTracer creates a path tracer over the given scene
func NewPathTracer(sc *scene.Scene) *PathTracer {
	return &PathTracer{
		scene:       sc,
		MaxBounces:  DefaultMaxBounces,
		SkyboxScale: 0.01,
	}
}

// Li returns the radiance estimate for a single camera ray. The traversal
// state belongs to the calling worker and is reused across rays.
func (pt *PathTracer) Li(ray core.Ray, random *rand.Rand, tr *geometry.Traversal) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)
	accumulated := core.Vec3{}
	lastBounceDiffuse := false

	for bounce := 0; bounce < pt.MaxBounces; bounce++ {
		hit, found := pt.scene.Intersect(&ray, tr)
		if !found {
			sky := pt.scene.SampleSkybox(ray.Direction).Multiply(pt.SkyboxScale)
			accumulated = accumulated.Add(throughput.MultiplyVec(sky))
			break
		}

		if hit.Mat.Kind == material.Emissive {
			// Direct light sampling already accounted for this light
			// when the previous bounce was diffuse.
			if !lastBounceDiffuse {
				accumulated = accumulated.Add(throughput.MultiplyVec(hit.Mat.Radiance))
			}
			break
		}

		point := ray.IntersectionPoint()

		if hit.Mat.Kind == material.Diffuse {
			if hit.Inside {
				break
			}

			accumulated = accumulated.Add(
				throughput.MultiplyVec(pt.sampleDirectLight(point, hit.Normal, hit.Mat, random, tr)))

			if random.Float64() < hit.Mat.SpecularProb {
				// Mirror bounce
				throughput = throughput.MultiplyVec(hit.Mat.Color)
				lastBounceDiffuse = false
				ray.Reset(point, material.Reflect(ray.Direction, hit.Normal))
				continue
			}

			survival := math.Max(0.1, throughput.MaxComponent())
			if random.Float64() > survival {
				break
			}
			throughput = throughput.Multiply(1 / survival)

			direction := core.CosineSampleHemisphere(hit.Normal, random)
			// cosine-weighted pdf cancels against the cosine factor,
			// leaving the bare albedo
			throughput = throughput.MultiplyVec(hit.Mat.Color)
			lastBounceDiffuse = true
			ray.Reset(point, direction)
			continue
		}

		// Dielectric
		lastBounceDiffuse = false
		normal := hit.Normal
		eta := hit.Mat.N1 / hit.Mat.N2
		if hit.Inside {
			normal = normal.Negate()
			eta = hit.Mat.N2 / hit.Mat.N1
			absorption := hit.Mat.Color.Subtract(core.NewVec3(1, 1, 1)).Multiply(ray.Distance)
			throughput = throughput.MultiplyVec(absorption.Exp())
		}

		var direction core.Vec3
		if refracted, ok := material.Refract(ray.Direction, normal, eta); !ok {
			// Total internal reflection
			direction = material.Reflect(ray.Direction, normal)
		} else {
			cosTheta := math.Min(-ray.Direction.Dot(normal), 1.0)
			if random.Float64() < material.Reflectance(cosTheta, eta) {
				direction = material.Reflect(ray.Direction, normal)
				if !hit.Inside {
					throughput = throughput.MultiplyVec(hit.Mat.Color)
				}
			} else {
				direction = refracted
			}
		}
		ray.Reset(point, direction)
	}

	return accumulated
}

// sampleDirectLight performs next-event estimation at a diffuse bounce:
// sample a point on one light chosen uniformly, shadow-test it, and weight
// the contribution by the summed light and hemisphere pdfs.
func (pt *PathTracer) sampleDirectLight(point, normal core.Vec3, mat *material.Material, random *rand.Rand, tr *geometry.Traversal) core.Vec3 {
	nrLights, light, ok := pt.scene.RandomLight(random)
	if !ok {
		return core.Vec3{}
	}

	lightPoint, lightNormal, area := light.SampleArea(random)
	toLight := lightPoint.Subtract(point)
	distance := toLight.Length()
	if distance <= core.RayEpsilon {
		return core.Vec3{}
	}
	omega := toLight.Multiply(1 / distance)

	cosSurface := normal.Dot(omega)
	cosLight := -lightNormal.Dot(omega)
	if cosSurface <= 0 || cosLight <= 0 {
		return core.Vec3{}
	}

	// Stop the shadow ray just short of the light so its own surface
	// does not occlude it.
	shadowRay := core.NewRay(point.Add(omega.Multiply(core.RayEpsilon)), omega)
	shadowRay.Distance = distance - 2*core.RayEpsilon
	if _, blocked := pt.scene.IntersectAny(&shadowRay, tr); blocked {
		return core.Vec3{}
	}

	radiance, _ := light.Light()
	brdf := mat.Color.Multiply(1 / math.Pi)
	solidAngle := cosLight * area / (distance * distance)
	lightPdf := 1 / solidAngle
	hemispherePdf := cosSurface / math.Pi
	pdf := lightPdf + hemispherePdf

	return radiance.MultiplyVec(brdf).Multiply(float64(nrLights) * cosSurface / pdf)
}
