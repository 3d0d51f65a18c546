package mapping

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-voxel-volume/pkg/core"
)

// UniformMapping places the local unit cube in the world with a single
// invertible affine transform. The inverse and the composed world↔voxel
// matrices are precomputed at construction.
type UniformMapping struct {
	localToWorld mgl64.Mat4
	worldToLocal mgl64.Mat4
	window       core.Box3i
	worldToVoxel mgl64.Mat4
	voxelToWorld mgl64.Mat4
}

// NewIdentityMapping creates a uniform mapping whose local cube coincides
// with the world-space unit cube
func NewIdentityMapping() *UniformMapping {
	m, _ := NewUniformMapping(mgl64.Ident4())
	return m
}

// NewUniformMapping creates a uniform mapping from a local-to-world matrix.
// Returns an error if the matrix is not invertible.
func NewUniformMapping(localToWorld mgl64.Mat4) (*UniformMapping, error) {
	if math.Abs(localToWorld.Det()) < 1e-12 {
		return nil, fmt.Errorf("uniform mapping requires an invertible transform (det=%g)", localToWorld.Det())
	}
	m := &UniformMapping{
		localToWorld: localToWorld,
		worldToLocal: localToWorld.Inv(),
	}
	m.SetVoxelWindow(core.NewBox3iRes(1, 1, 1))
	return m, nil
}

// NewUniformMappingBounds creates a uniform mapping that places the local
// unit cube on the axis-aligned world-space box [min, max], the common case
// for axis-aligned buffers
func NewUniformMappingBounds(min, max core.Vec3) (*UniformMapping, error) {
	size := max.Subtract(min)
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, fmt.Errorf("uniform mapping bounds must have positive extent, got %v", size)
	}
	translate := mgl64.Translate3D(min.X, min.Y, min.Z)
	scale := mgl64.Scale3D(size.X, size.Y, size.Z)
	return NewUniformMapping(translate.Mul4(scale))
}

// SetVoxelWindow recomputes the composed world↔voxel matrices for a buffer's
// data window
func (m *UniformMapping) SetVoxelWindow(window core.Box3i) {
	m.window = window
	m.worldToVoxel = localToVoxelMatrix(window).Mul4(m.worldToLocal)
	m.voxelToWorld = m.localToWorld.Mul4(voxelToLocalMatrix(window))
}

// VoxelWindow returns the data window the voxel leg is built for
func (m *UniformMapping) VoxelWindow() core.Box3i {
	return m.window
}

// LocalToWorld transforms a local-space point to world space
func (m *UniformMapping) LocalToWorld(p core.Vec3) core.Vec3 {
	return fromMgl(mgl64.TransformCoordinate(toMgl(p), m.localToWorld))
}

// WorldToLocal transforms a world-space point to local space
func (m *UniformMapping) WorldToLocal(p core.Vec3) core.Vec3 {
	return fromMgl(mgl64.TransformCoordinate(toMgl(p), m.worldToLocal))
}

// WorldToLocalDir transforms a world-space direction to local space,
// applying the linear part of the transform without translation
func (m *UniformMapping) WorldToLocalDir(d core.Vec3) core.Vec3 {
	return fromMgl(mgl64.TransformNormal(toMgl(d), m.worldToLocal))
}

// WorldToVoxel transforms a world-space point to continuous voxel space
func (m *UniformMapping) WorldToVoxel(p core.Vec3) core.Vec3 {
	return fromMgl(mgl64.TransformCoordinate(toMgl(p), m.worldToVoxel))
}

// VoxelToWorld transforms a continuous voxel-space point to world space
func (m *UniformMapping) VoxelToWorld(p core.Vec3) core.Vec3 {
	return fromMgl(mgl64.TransformCoordinate(toMgl(p), m.voxelToWorld))
}

// LocalToWorldMatrix returns the affine placement matrix
func (m *UniformMapping) LocalToWorldMatrix() mgl64.Mat4 {
	return m.localToWorld
}
