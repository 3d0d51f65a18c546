package volume

import (
	"math"

	"github.com/df07/go-voxel-volume/pkg/core"
	"github.com/df07/go-voxel-volume/pkg/mapping"
)

// IntersectionHandler computes the marching intervals over which a world-space
// ray traverses a volume's defined domain. Handlers are built once per mapping
// when a buffer is attached and are safe for unlimited concurrent use.
type IntersectionHandler interface {
	Intersect(wsRay core.Ray, time float64) []core.Interval
}

// marchInterval builds the single marching interval for a ray segment. The
// step length is derived from voxel-space distance rather than world-space
// distance, so sampling density follows the local voxel resolution regardless
// of how the buffer is scaled into the scene. Degenerate segments where the
// voxel-space travel rounds to nothing are clamped to a minimum of one sample
// so the step stays finite and positive.
func marchInterval(m mapping.Mapping, wsRay core.Ray, t0, t1 float64) []core.Interval {
	if t1 <= t0 {
		return nil
	}
	vsNear := m.WorldToVoxel(wsRay.At(t0))
	vsFar := m.WorldToVoxel(wsRay.At(t1))
	numSamples := vsFar.Distance(vsNear)
	if numSamples < 1 {
		numSamples = 1
	}
	return []core.Interval{core.NewInterval(t0, t1, (t1-t0)/numSamples)}
}

// UniformMappingIntersection intersects rays against a uniformly mapped
// buffer by transforming them into local space and slab-testing the unit cube
type UniformMappingIntersection struct {
	mapping *mapping.UniformMapping
}

// NewUniformMappingIntersection creates an intersection handler for a
// uniform mapping
func NewUniformMappingIntersection(m *mapping.UniformMapping) *UniformMappingIntersection {
	return &UniformMappingIntersection{mapping: m}
}

// Intersect returns the marching interval for a world-space ray, or an empty
// list if the ray misses the volume
func (u *UniformMappingIntersection) Intersect(wsRay core.Ray, time float64) []core.Interval {
	// Points transform with translation, directions without. Because the
	// transform is affine and applied to both ray and box consistently, the
	// local-space parameters t0/t1 are valid in the world parameterization.
	lsRay := core.NewRay(
		u.mapping.WorldToLocal(wsRay.Origin),
		u.mapping.WorldToLocalDir(wsRay.Direction),
	)
	t0, t1, hit := core.UnitBounds().Intersect(lsRay)
	if !hit {
		return nil
	}
	return marchInterval(u.mapping, wsRay, t0, t1)
}

// FrustumMappingIntersection intersects rays against a frustum-mapped buffer
// by clipping them against the six world-space bounding planes of the frustum
type FrustumMappingIntersection struct {
	mapping *mapping.FrustumMapping
	planes  [6]Plane
}

// NewFrustumMappingIntersection creates an intersection handler for a frustum
// mapping, precomputing the six bounding planes from the world-space corners
// of the local unit cube
func NewFrustumMappingIntersection(m *mapping.FrustumMapping) *FrustumMappingIntersection {
	lsCorners := core.UnitBounds().Corners()
	var ws [8]core.Vec3
	var centroid core.Vec3
	for i, lsP := range lsCorners {
		ws[i] = m.LocalToWorld(lsP)
		centroid = centroid.Add(ws[i])
	}
	centroid = centroid.Multiply(1.0 / 8.0)

	// One plane per face of the truncated pyramid, normals oriented outward
	// against the centroid so the near/far classification below holds for
	// either handedness of the camera transform
	h := &FrustumMappingIntersection{mapping: m}
	h.planes[0] = NewPlaneFromPoints(ws[4], ws[0], ws[6]).FacingAway(centroid)
	h.planes[1] = NewPlaneFromPoints(ws[1], ws[5], ws[3]).FacingAway(centroid)
	h.planes[2] = NewPlaneFromPoints(ws[4], ws[5], ws[0]).FacingAway(centroid)
	h.planes[3] = NewPlaneFromPoints(ws[2], ws[3], ws[6]).FacingAway(centroid)
	h.planes[4] = NewPlaneFromPoints(ws[0], ws[1], ws[2]).FacingAway(centroid)
	h.planes[5] = NewPlaneFromPoints(ws[5], ws[4], ws[7]).FacingAway(centroid)
	return h
}

// Intersect returns the marching interval for a world-space ray, or an empty
// list if the ray misses the frustum
func (f *FrustumMappingIntersection) Intersect(wsRay core.Ray, time float64) []core.Interval {
	t0 := math.Inf(-1)
	t1 := math.Inf(1)
	for _, p := range f.planes {
		t, ok := p.IntersectT(wsRay)
		if !ok {
			// Parallel planes contribute no constraint
			continue
		}
		if wsRay.Direction.Dot(p.Normal) > 0 {
			// Crossing from inside to outside: far constraint
			t1 = math.Min(t1, t)
		} else {
			// Crossing from outside to inside: near constraint
			t0 = math.Max(t0, t)
		}
	}
	if t0 >= t1 {
		return nil
	}
	// Ignore any part of the frustum behind the ray origin
	t0 = math.Max(t0, 0)
	return marchInterval(f.mapping, wsRay, t0, t1)
}
