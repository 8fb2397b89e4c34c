package scene

import (
	"math/rand"

	"github.com/ReinierMaas/PathTracer/pkg/core"
	"github.com/ReinierMaas/PathTracer/pkg/geometry"
	"github.com/ReinierMaas/PathTracer/pkg/loaders"
)

// Scene owns the acceleration structure and the environment map
type Scene struct {
	BVH    *geometry.BVH
	Skybox *loaders.Skybox // may be nil; a nil skybox samples black
}

// New creates a scene over the given primitives
func New(objects []geometry.Primitive, skybox *loaders.Skybox) *Scene {
	return &Scene{
		BVH:    geometry.NewBVH(objects),
		Skybox: skybox,
	}
}

// Intersect returns the nearest hit along the ray
func (s *Scene) Intersect(ray *core.Ray, tr *geometry.Traversal) (geometry.Intersection, bool) {
	return s.BVH.IntersectClosest(ray, tr)
}

// IntersectAny returns the first hit discovered; used for shadow rays
func (s *Scene) IntersectAny(ray *core.Ray, tr *geometry.Traversal) (geometry.Intersection, bool) {
	return s.BVH.IntersectAny(ray, tr)
}

// SampleSkybox returns the environment radiance for a unit direction
func (s *Scene) SampleSkybox(direction core.Vec3) core.Vec3 {
	if s.Skybox == nil {
		return core.Vec3{}
	}
	return s.Skybox.Sample(direction)
}

// RandomLight picks a light source uniformly, returning the light count and
// the chosen primitive
func (s *Scene) RandomLight(random *rand.Rand) (int, *geometry.Primitive, bool) {
	return s.BVH.RandomLight(random)
}
