package scene

import (
	"github.com/ReinierMaas/PathTracer/pkg/core"
	"github.com/ReinierMaas/PathTracer/pkg/geometry"
	"github.com/ReinierMaas/PathTracer/pkg/loaders"
	"github.com/ReinierMaas/PathTracer/pkg/material"
)

// DefaultPrimitives returns the built-in sphere scene: one light, a red and
// a blue glossy sphere flanking a glass sphere, on three white floor spheres.
func DefaultPrimitives() []geometry.Primitive {
	return []geometry.Primitive{
		geometry.NewLightSphere(core.NewVec3(2.7, 1.7, -0.5), 0.3),

		geometry.NewSphere(core.NewVec3(-0.8, 0, -2), 0.3,
			material.NewDiffuse(0.8, core.NewVec3(1, 0.2, 0.2))),
		geometry.NewSphere(core.NewVec3(0, 0, -2), 0.3,
			material.NewDielectric(1.0, 1.3, core.NewVec3(0.1, 1, 0.1))),
		geometry.NewSphere(core.NewVec3(0.8, 0, -2), 0.3,
			material.NewDiffuse(0.8, core.NewVec3(0.2, 0.2, 1))),

		geometry.NewSphere(core.NewVec3(-0.8, -0.8, -2), 0.5,
			material.NewDiffuse(0, core.NewVec3(1, 1, 1))),
		geometry.NewSphere(core.NewVec3(0, -0.8, -2), 0.5,
			material.NewDiffuse(0, core.NewVec3(1, 1, 1))),
		geometry.NewSphere(core.NewVec3(0.8, -0.8, -2), 0.5,
			material.NewDiffuse(0, core.NewVec3(1, 1, 1))),
	}
}

// NewDefaultScene creates the built-in sphere scene
func NewDefaultScene(skybox *loaders.Skybox) *Scene {
	return New(DefaultPrimitives(), skybox)
}

// NewMeshScene loads an OBJ mesh and dresses it with an area light above and
// a large two-triangle floor below.
func NewMeshScene(path string, skybox *loaders.Skybox, logger core.Logger) (*Scene, error) {
	triangles, err := loaders.LoadOBJ(path, logger)
	if err != nil {
		return nil, err
	}

	down := core.NewVec3(0, -1, 0)
	up := core.NewVec3(0, 1, 0)
	white := material.NewDiffuse(0, core.NewVec3(0.9, 0.9, 0.9))

	triangles = append(triangles,
		geometry.NewTriangleWithNormals(
			core.NewVec3(2, 2, 2), core.NewVec3(1, 2, 2), core.NewVec3(2, 2, 1),
			down, down, down,
			material.NewEmissive(material.LightColor)),
		geometry.NewTriangleWithNormals(
			core.NewVec3(200, -0.3, 200), core.NewVec3(200, -0.3, -200), core.NewVec3(-200, -0.3, 200),
			up, up, up, white),
		geometry.NewTriangleWithNormals(
			core.NewVec3(-200, -0.3, -200), core.NewVec3(-200, -0.3, 200), core.NewVec3(200, -0.3, -200),
			up, up, up, white),
	)

	return New(triangles, skybox), nil
}
