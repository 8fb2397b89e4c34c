package material

import (
	"math"

	"github.com/ReinierMaas/PathTracer/pkg/core"
)

// Kind selects the scattering model of a material
type Kind int

const (
	// Diffuse surfaces are Lambertian with a probability of mirror reflection
	Diffuse Kind = iota
	// Dielectric surfaces reflect and refract at a smooth interface
	Dielectric
	// Emissive surfaces are pure light sources and terminate paths
	Emissive
)

// Material is a closed tagged variant. The integrator switches on Kind; only
// the fields of the active variant are meaningful.
type Material struct {
	Kind Kind

	// Diffuse
	SpecularProb float64 // probability of a mirror bounce instead of a diffuse one
	Color        core.Vec3

	// Dielectric: refraction indices on either side of the interface.
	// Color tints reflections and drives Beer-Lambert absorption inside.
	N1, N2 float64

	// Emissive
	Radiance core.Vec3
}

// LightColor is the default radiance of light sources
var LightColor = core.NewVec3(8.5, 8.5, 7.0)

// NewDiffuse creates a diffuse material with the given specular probability
// and albedo
func NewDiffuse(specularProb float64, color core.Vec3) *Material {
	return &Material{Kind: Diffuse, SpecularProb: specularProb, Color: color}
}

// NewDielectric creates a dielectric material with refraction indices n1
// (outside) and n2 (inside) and an absorption/tint color
func NewDielectric(n1, n2 float64, color core.Vec3) *Material {
	return &Material{Kind: Dielectric, N1: n1, N2: n2, Color: color}
}

// NewEmissive creates an emissive material with the given radiance
func NewEmissive(radiance core.Vec3) *Material {
	return &Material{Kind: Emissive, Radiance: radiance}
}

// IsLight returns true for emissive materials
func (m *Material) IsLight() bool {
	return m.Kind == Emissive
}

// Reflect calculates the mirror reflection of v off a surface with normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract calculates the refraction of a unit vector using Snell's law.
// etaiOverEtat is the ratio of refraction indices ni/nt. Returns false on
// total internal reflection.
func Refract(uv, n core.Vec3, etaiOverEtat float64) (core.Vec3, bool) {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	sinTheta2 := 1.0 - cosTheta*cosTheta
	if etaiOverEtat*etaiOverEtat*sinTheta2 > 1.0 {
		return core.Vec3{}, false
	}
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel), true
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
