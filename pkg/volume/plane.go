package volume

import (
	"math"

	"github.com/df07/go-voxel-volume/pkg/core"
)

// Plane is an infinite plane defined by a point and normal, used as a
// bounding face of a frustum
type Plane struct {
	Point  core.Vec3 // A point on the plane
	Normal core.Vec3 // Normal vector (normalized)
}

// NewPlane creates a plane from a point and a normal
func NewPlane(point, normal core.Vec3) Plane {
	return Plane{Point: point, Normal: normal.Normalize()}
}

// NewPlaneFromPoints creates the plane through three points, with the normal
// following the right-hand rule on (b-a)×(c-a)
func NewPlaneFromPoints(a, b, c core.Vec3) Plane {
	return NewPlane(a, b.Subtract(a).Cross(c.Subtract(a)))
}

// IntersectT computes the ray parameter at which the ray crosses the plane.
// Returns false for rays parallel to the plane.
func (p Plane) IntersectT(ray core.Ray) (float64, bool) {
	denominator := ray.Direction.Dot(p.Normal)
	if math.Abs(denominator) < 1e-12 {
		return 0, false
	}
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	return t, true
}

// FacingAway returns a copy of the plane whose normal points away from the
// given reference point
func (p Plane) FacingAway(reference core.Vec3) Plane {
	if p.Normal.Dot(reference.Subtract(p.Point)) > 0 {
		return Plane{Point: p.Point, Normal: p.Normal.Negate()}
	}
	return p
}
