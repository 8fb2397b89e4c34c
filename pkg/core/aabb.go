package core

import "math"

// AABB represents an axis-aligned bounding box. The empty box has min=+Inf
// and max=-Inf so that Extent and Union work without special cases.
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns the empty box
func EmptyAABB() AABB {
	return AABB{
		Min: Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
}

// Extent returns the box grown to contain the given point
func (aabb AABB) Extent(p Vec3) AABB {
	return AABB{
		Min: Vec3{
			X: math.Min(aabb.Min.X, p.X),
			Y: math.Min(aabb.Min.Y, p.Y),
			Z: math.Min(aabb.Min.Z, p.Z),
		},
		Max: Vec3{
			X: math.Max(aabb.Max.X, p.X),
			Y: math.Max(aabb.Max.Y, p.Y),
			Z: math.Max(aabb.Max.Z, p.Z),
		},
	}
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec3{
			X: math.Min(aabb.Min.X, other.Min.X),
			Y: math.Min(aabb.Min.Y, other.Min.Y),
			Z: math.Min(aabb.Min.Z, other.Min.Z),
		},
		Max: Vec3{
			X: math.Max(aabb.Max.X, other.Max.X),
			Y: math.Max(aabb.Max.Y, other.Max.Y),
			Z: math.Max(aabb.Max.Z, other.Max.Z),
		},
	}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// SurfaceArea returns the surface area of the AABB.
// Negative dimensions count as zero, so the empty box has area 0.
func (aabb AABB) SurfaceArea() float64 {
	size := aabb.Size()
	dx := math.Max(0, size.X)
	dy := math.Max(0, size.Y)
	dz := math.Max(0, size.Z)
	return 2.0 * (dx*dy + dy*dz + dz*dx)
}

// Intersect tests the ray against the box using the branchless slab method.
// Returns the entry and exit distances. A negative tmin means the ray
// originates inside the box; callers use tmin only for ordering.
func (aabb AABB) Intersect(ray Ray) (tmin, tmax float64, hit bool) {
	tmin = math.Inf(-1)
	tmax = math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		invDir := 1.0 / ray.Direction.Axis(axis)
		t1 := (aabb.Min.Axis(axis) - ray.Origin.Axis(axis)) * invDir
		t2 := (aabb.Max.Axis(axis) - ray.Origin.Axis(axis)) * invDir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		// Plain comparisons skip NaN slabs from 0 * Inf, which a
		// parallel ray produces when it starts on a slab plane.
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < 0 || tmax < tmin {
		return 0, 0, false
	}
	return tmin, tmax, true
}
