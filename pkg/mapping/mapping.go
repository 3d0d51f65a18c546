// Package mapping relates the three coordinate frames of a voxel buffer:
// world space (the scene), local space (the canonical [0,1]³ cube), and
// continuous voxel space (grid indices, voxel centers at +0.5).
package mapping

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-voxel-volume/pkg/core"
)

// Mapping is the transform family a voxel buffer is embedded in a scene with.
// LocalToWorld and WorldToLocal are mutual inverses: exact for the affine
// Uniform variant, exact as a projective inverse for the Frustum variant.
// WorldToVoxel composes the mapping with the buffer's voxel window.
//
// A buffer's mapping never changes variant over the buffer's lifetime;
// intersection handlers are built once per mapping and reused across rays.
type Mapping interface {
	LocalToWorld(p core.Vec3) core.Vec3
	WorldToLocal(p core.Vec3) core.Vec3
	WorldToVoxel(p core.Vec3) core.Vec3
	VoxelToWorld(p core.Vec3) core.Vec3

	// SetVoxelWindow wires the buffer's data window into the local↔voxel
	// leg of the transform. Called by the buffer when the mapping is attached.
	SetVoxelWindow(window core.Box3i)
	VoxelWindow() core.Box3i
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v.X(), v.Y(), v.Z())
}

// localToVoxelMatrix maps the unit cube onto the continuous extent of the
// data window: local (0,0,0) lands on the window's min corner, (1,1,1) one
// past the max corner, so voxel centers sit at integer+0.5 coordinates.
func localToVoxelMatrix(window core.Box3i) mgl64.Mat4 {
	size := window.Size()
	translate := mgl64.Translate3D(float64(window.Min.X), float64(window.Min.Y), float64(window.Min.Z))
	scale := mgl64.Scale3D(float64(size.X), float64(size.Y), float64(size.Z))
	return translate.Mul4(scale)
}

func voxelToLocalMatrix(window core.Box3i) mgl64.Mat4 {
	size := window.Size()
	scale := mgl64.Scale3D(1/float64(size.X), 1/float64(size.Y), 1/float64(size.Z))
	translate := mgl64.Translate3D(-float64(window.Min.X), -float64(window.Min.Y), -float64(window.Min.Z))
	return scale.Mul4(translate)
}
