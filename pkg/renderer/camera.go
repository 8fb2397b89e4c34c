package renderer

import (
	"math"
	"math/rand"

	"github.com/ReinierMaas/PathTracer/pkg/core"
	"github.com/ReinierMaas/PathTracer/pkg/geometry"
	"github.com/ReinierMaas/PathTracer/pkg/material"
	"github.com/ReinierMaas/PathTracer/pkg/scene"
)

const (
	// MaxFocalDistance clamps the autofocus distance
	MaxFocalDistance = 20.0
	// DefaultLensSize is the side length of the square thin-lens aperture
	DefaultLensSize = 0.04

	autofocusBounces = 5
	moveStep         = 0.1
	jumpStep         = 10.0
)

// Camera is a thin-lens camera. The screen plane is rebuilt on every motion
// and the focal distance re-derived by tracing a focus ray through mirrors
// and glass.
type Camera struct {
	Origin core.Vec3
	Target core.Vec3

	LensSize float64

	direction core.Vec3
	up        core.Vec3
	right     core.Vec3

	focalDistance float64

	// screen plane corners: top-left, top-right, bottom-left
	p1, p2, p3 core.Vec3

	width  int
	height int

	scene     *scene.Scene
	traversal *geometry.Traversal
}

// NewCamera creates a camera with the default pose
func NewCamera(width, height int, sc *scene.Scene) *Camera {
	camera := &Camera{
		Origin:    core.NewVec3(-0.94, -0.037, -3.342),
		Target:    core.NewVec3(-0.418, -0.026, -2.435),
		LensSize:  DefaultLensSize,
		width:     width,
		height:    height,
		scene:     sc,
		traversal: sc.BVH.NewTraversal(),
	}
	camera.Update()
	return camera
}

// NewCameraAt creates a camera with an explicit pose
func NewCameraAt(origin, target core.Vec3, width, height int, sc *scene.Scene) *Camera {
	camera := NewCamera(width, height, sc)
	camera.Origin = origin
	camera.Target = target
	camera.Update()
	return camera
}

// Update rebuilds the camera basis, re-runs autofocus and reconstructs the
// screen plane. Must be called after any change to Origin or Target.
func (c *Camera) Update() {
	c.direction = c.Target.Subtract(c.Origin).Normalize()
	c.right = core.NewVec3(0, 1, 0).Cross(c.direction).Normalize()
	c.up = c.direction.Cross(c.right)

	c.focalDistance = math.Min(MaxFocalDistance, c.autofocus())

	center := c.Origin.Add(c.direction.Multiply(c.focalDistance))
	aspect := float64(c.width) / float64(c.height)
	halfWidth := 0.5 * c.focalDistance * aspect
	halfHeight := 0.5 * c.focalDistance

	c.p1 = center.Subtract(c.right.Multiply(halfWidth)).Add(c.up.Multiply(halfHeight))
	c.p2 = center.Add(c.right.Multiply(halfWidth)).Add(c.up.Multiply(halfHeight))
	c.p3 = center.Subtract(c.right.Multiply(halfWidth)).Subtract(c.up.Multiply(halfHeight))
}

// autofocus traces a ray through the screen center, following mirror
// reflections and dielectric interfaces, and returns the accumulated path
// length to the first surface that would appear sharp. An escaping ray
// focuses at the clamp distance.
func (c *Camera) autofocus() float64 {
	ray := core.NewRay(c.Origin, c.direction)
	length := 0.0

	for bounce := 0; bounce < autofocusBounces; bounce++ {
		hit, found := c.scene.Intersect(&ray, c.traversal)
		if !found {
			return MaxFocalDistance
		}
		length += ray.Distance
		point := ray.IntersectionPoint()

		switch hit.Mat.Kind {
		case material.Diffuse:
			if hit.Mat.SpecularProb > 0.5 {
				ray.Reset(point, material.Reflect(ray.Direction, hit.Normal))
				continue
			}
			return length
		case material.Dielectric:
			normal := hit.Normal
			eta := hit.Mat.N1 / hit.Mat.N2
			if hit.Inside {
				normal = normal.Negate()
				eta = hit.Mat.N2 / hit.Mat.N1
			}
			refracted, ok := material.Refract(ray.Direction, normal, eta)
			if !ok {
				ray.Reset(point, material.Reflect(ray.Direction, normal))
				continue
			}
			cosTheta := math.Min(-ray.Direction.Dot(normal), 1.0)
			if material.Reflectance(cosTheta, eta) > 0.5 {
				ray.Reset(point, material.Reflect(ray.Direction, normal))
			} else {
				ray.Reset(point, refracted)
			}
		default:
			return length
		}
	}
	return length
}

// GenerateRay creates a primary ray through pixel (x, y) with sub-pixel
// jitter and a thin-lens origin offset
func (c *Camera) GenerateRay(x, y int, random *rand.Rand) core.Ray {
	r0 := random.Float64()
	r1 := random.Float64()
	r2 := random.Float64() - 0.5
	r3 := random.Float64() - 0.5

	u := (float64(x) + r0) / float64(c.width)
	v := (float64(y) + r1) / float64(c.height)
	target := c.p1.
		Add(c.p2.Subtract(c.p1).Multiply(u)).
		Add(c.p3.Subtract(c.p1).Multiply(v))

	lens := c.right.Multiply(r2).Add(c.up.Multiply(r3)).Multiply(c.LensSize)
	origin := c.Origin.Add(lens)

	return core.NewRay(origin, target.Subtract(origin).Normalize())
}

// FocalDistance returns the current autofocus distance
func (c *Camera) FocalDistance() float64 {
	return c.focalDistance
}

// Direction returns the current view direction
func (c *Camera) Direction() core.Vec3 {
	return c.direction
}

// HandleInput applies movement deltas for the currently held keys. Returns
// true when the camera moved, which obliges the caller to reset the frame
// accumulator.
func (c *Camera) HandleInput(keys KeySet) bool {
	// Re-anchor the target one unit ahead so dolly steps cannot push the
	// origin past it.
	c.Target = c.Origin.Add(c.direction)

	changed := false
	move := func(originDelta, targetDelta core.Vec3) {
		c.Origin = c.Origin.Add(originDelta)
		c.Target = c.Target.Add(targetDelta)
		changed = true
	}

	if keys[KeyA] {
		delta := c.right.Multiply(-moveStep)
		move(delta, delta)
	}
	if keys[KeyD] {
		delta := c.right.Multiply(moveStep)
		move(delta, delta)
	}
	if keys[KeyW] {
		move(c.direction.Multiply(moveStep), core.Vec3{})
	}
	if keys[KeyS] {
		move(c.direction.Multiply(-moveStep), core.Vec3{})
	}
	if keys[KeyR] {
		delta := c.up.Multiply(moveStep)
		move(delta, delta)
	}
	if keys[KeyF] {
		delta := c.up.Multiply(-moveStep)
		move(delta, delta)
	}
	if keys[KeyQ] {
		delta := c.direction.Multiply(jumpStep)
		move(delta, delta)
	}
	if keys[KeyE] {
		delta := c.direction.Multiply(-jumpStep)
		move(delta, delta)
	}
	if keys[KeyUp] {
		move(core.Vec3{}, c.up.Multiply(-moveStep))
	}
	if keys[KeyDown] {
		move(core.Vec3{}, c.up.Multiply(moveStep))
	}
	if keys[KeyLeft] {
		move(core.Vec3{}, c.right.Multiply(-moveStep))
	}
	if keys[KeyRight] {
		move(core.Vec3{}, c.right.Multiply(moveStep))
	}

	if changed {
		c.Update()
	}
	return changed
}
