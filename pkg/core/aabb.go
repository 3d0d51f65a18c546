package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// UnitBounds returns the canonical [0,1]³ box that local space maps to
func UnitBounds() AABB {
	return AABB{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
}

// Intersect computes the entry and exit parameters of a ray against the box
// using the slab method. Returns false if the ray misses the box entirely.
// The ray direction is not required to be normalized; t0 and t1 are in the
// ray's own parameterization.
func (aabb AABB) Intersect(ray Ray) (t0, t1 float64, hit bool) {
	t0 = math.Inf(-1)
	t1 = math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		slabMin := aabb.Min.Component(axis)
		slabMax := aabb.Max.Component(axis)
		origin := ray.Origin.Component(axis)
		direction := ray.Direction.Component(axis)

		// Ray parallel to this slab: inside or miss, no constraint either way
		if math.Abs(direction) < 1e-8 {
			if origin < slabMin || origin > slabMax {
				return 0, 0, false
			}
			continue
		}

		invDirection := 1.0 / direction
		tNear := (slabMin - origin) * invDirection
		tFar := (slabMax - origin) * invDirection
		if tNear > tFar {
			tNear, tFar = tFar, tNear
		}

		t0 = math.Max(t0, tNear)
		t1 = math.Min(t1, tFar)
		if t0 > t1 {
			return 0, 0, false
		}
	}

	return t0, t1, true
}

// Contains reports whether the point lies inside the box (inclusive)
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// Corners returns the eight corners of the box. Corner i has X from Max when
// bit 0 of i is set, Y from Max when bit 1 is set, Z from Max when bit 2 is set.
func (aabb AABB) Corners() [8]Vec3 {
	var corners [8]Vec3
	for i := 0; i < 8; i++ {
		corners[i] = Vec3{
			X: aabb.Min.X,
			Y: aabb.Min.Y,
			Z: aabb.Min.Z,
		}
		if i&1 != 0 {
			corners[i].X = aabb.Max.X
		}
		if i&2 != 0 {
			corners[i].Y = aabb.Max.Y
		}
		if i&4 != 0 {
			corners[i].Z = aabb.Max.Z
		}
	}
	return corners
}
