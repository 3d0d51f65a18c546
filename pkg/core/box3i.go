package core

// V3i represents a 3D point with integer components, used for voxel indices
type V3i struct {
	X, Y, Z int
}

// NewV3i creates a new V3i
func NewV3i(x, y, z int) V3i {
	return V3i{X: x, Y: y, Z: z}
}

// Box3i is an inclusive integer bounding box. A voxel buffer's data window is
// a Box3i: both Min and Max index valid voxels.
type Box3i struct {
	Min V3i
	Max V3i
}

// NewBox3i creates a new inclusive integer box
func NewBox3i(min, max V3i) Box3i {
	return Box3i{Min: min, Max: max}
}

// NewBox3iRes creates a box spanning [0, nx-1] x [0, ny-1] x [0, nz-1]
func NewBox3iRes(nx, ny, nz int) Box3i {
	return Box3i{Min: V3i{0, 0, 0}, Max: V3i{nx - 1, ny - 1, nz - 1}}
}

// Size returns the number of voxels along each axis
func (b Box3i) Size() V3i {
	return V3i{
		X: b.Max.X - b.Min.X + 1,
		Y: b.Max.Y - b.Min.Y + 1,
		Z: b.Max.Z - b.Min.Z + 1,
	}
}

// NumVoxels returns the total voxel count of the box
func (b Box3i) NumVoxels() int {
	size := b.Size()
	return size.X * size.Y * size.Z
}

// IsValid returns true if Min <= Max on all axes
func (b Box3i) IsValid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// ContainsPoint checks a continuous voxel-space coordinate against the
// discrete window bounds, inclusive on both ends
func (b Box3i) ContainsPoint(p Vec3) bool {
	return p.X >= float64(b.Min.X) && p.X <= float64(b.Max.X) &&
		p.Y >= float64(b.Min.Y) && p.Y <= float64(b.Max.Y) &&
		p.Z >= float64(b.Min.Z) && p.Z <= float64(b.Max.Z)
}

// ContainsIndex reports whether the discrete index lies inside the window
func (b Box3i) ContainsIndex(i, j, k int) bool {
	return i >= b.Min.X && i <= b.Max.X &&
		j >= b.Min.Y && j <= b.Max.Y &&
		k >= b.Min.Z && k <= b.Max.Z
}

// ClampIndex clamps a discrete index to the window, replicating edge voxels
// for lookups past the boundary
func (b Box3i) ClampIndex(i, j, k int) (int, int, int) {
	return max(b.Min.X, min(i, b.Max.X)),
		max(b.Min.Y, min(j, b.Max.Y)),
		max(b.Min.Z, min(k, b.Max.Z))
}
