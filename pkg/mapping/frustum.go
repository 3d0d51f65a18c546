package mapping

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-voxel-volume/pkg/core"
)

// FrustumMapping places the local unit cube in the world with a projective
// camera transform: the cube maps to a truncated pyramid. Local X and Y span
// the camera's field of view, local Z spans [near, far] along the view axis
// (the camera looks down its -Z axis, as mgl64.Perspective assumes).
//
// The composed local-to-world matrix is
//
//	cameraToWorld · Perspective⁻¹ · (ndc ← local)
//
// and every point transform goes through a homogeneous divide, so the
// world↔local round trip is exact as a projective inverse.
type FrustumMapping struct {
	camToWorld mgl64.Mat4
	fovY       float64
	aspect     float64
	near       float64
	far        float64

	localToWorld mgl64.Mat4
	worldToLocal mgl64.Mat4
	window       core.Box3i
	worldToVoxel mgl64.Mat4
	voxelToWorld mgl64.Mat4
}

// NewFrustumMapping creates a frustum mapping from a camera-to-world
// transform and perspective parameters. fovY is the vertical field of view
// in radians; near and far are the clip distances bounding the cube's Z axis.
func NewFrustumMapping(camToWorld mgl64.Mat4, fovY, aspect, near, far float64) (*FrustumMapping, error) {
	if fovY <= 0 || fovY >= math.Pi {
		return nil, fmt.Errorf("frustum mapping fov must be in (0, pi), got %g", fovY)
	}
	if aspect <= 0 {
		return nil, fmt.Errorf("frustum mapping aspect must be positive, got %g", aspect)
	}
	if near <= 0 || far <= near {
		return nil, fmt.Errorf("frustum mapping requires 0 < near < far, got near=%g far=%g", near, far)
	}
	if math.Abs(camToWorld.Det()) < 1e-12 {
		return nil, fmt.Errorf("frustum mapping camera transform is not invertible (det=%g)", camToWorld.Det())
	}

	proj := mgl64.Perspective(fovY, aspect, near, far)
	ndcFromLocal := mgl64.Translate3D(-1, -1, -1).Mul4(mgl64.Scale3D(2, 2, 2))

	m := &FrustumMapping{
		camToWorld: camToWorld,
		fovY:       fovY,
		aspect:     aspect,
		near:       near,
		far:        far,
	}
	m.localToWorld = camToWorld.Mul4(proj.Inv()).Mul4(ndcFromLocal)
	m.worldToLocal = m.localToWorld.Inv()
	m.SetVoxelWindow(core.NewBox3iRes(1, 1, 1))
	return m, nil
}

// NewFrustumMappingLookAt creates a frustum mapping for a camera at eye
// looking at target
func NewFrustumMappingLookAt(eye, target, up core.Vec3, fovY, aspect, near, far float64) (*FrustumMapping, error) {
	worldToCam := mgl64.LookAtV(toMgl(eye), toMgl(target), toMgl(up))
	return NewFrustumMapping(worldToCam.Inv(), fovY, aspect, near, far)
}

// SetVoxelWindow recomputes the composed world↔voxel matrices for a buffer's
// data window
func (m *FrustumMapping) SetVoxelWindow(window core.Box3i) {
	m.window = window
	m.worldToVoxel = localToVoxelMatrix(window).Mul4(m.worldToLocal)
	m.voxelToWorld = m.localToWorld.Mul4(voxelToLocalMatrix(window))
}

// VoxelWindow returns the data window the voxel leg is built for
func (m *FrustumMapping) VoxelWindow() core.Box3i {
	return m.window
}

// LocalToWorld transforms a local-space point to world space, including the
// projective divide
func (m *FrustumMapping) LocalToWorld(p core.Vec3) core.Vec3 {
	return fromMgl(mgl64.TransformCoordinate(toMgl(p), m.localToWorld))
}

// WorldToLocal transforms a world-space point to local space
func (m *FrustumMapping) WorldToLocal(p core.Vec3) core.Vec3 {
	return fromMgl(mgl64.TransformCoordinate(toMgl(p), m.worldToLocal))
}

// WorldToVoxel transforms a world-space point to continuous voxel space
func (m *FrustumMapping) WorldToVoxel(p core.Vec3) core.Vec3 {
	return fromMgl(mgl64.TransformCoordinate(toMgl(p), m.worldToVoxel))
}

// VoxelToWorld transforms a continuous voxel-space point to world space
func (m *FrustumMapping) VoxelToWorld(p core.Vec3) core.Vec3 {
	return fromMgl(mgl64.TransformCoordinate(toMgl(p), m.voxelToWorld))
}

// CameraToWorld returns the camera placement transform
func (m *FrustumMapping) CameraToWorld() mgl64.Mat4 { return m.camToWorld }

// FOV returns the vertical field of view in radians
func (m *FrustumMapping) FOV() float64 { return m.fovY }

// Aspect returns the horizontal/vertical aspect ratio
func (m *FrustumMapping) Aspect() float64 { return m.aspect }

// Near returns the near clip distance
func (m *FrustumMapping) Near() float64 { return m.near }

// Far returns the far clip distance
func (m *FrustumMapping) Far() float64 { return m.far }
