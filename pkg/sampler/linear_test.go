package sampler

import (
	"math"
	"testing"

	"github.com/df07/go-voxel-volume/pkg/buffer"
	"github.com/df07/go-voxel-volume/pkg/core"
)

func constantBuffer(value core.Color, res int) *buffer.DenseBuffer {
	buf := buffer.NewDenseBuffer("density", core.NewBox3iRes(res, res, res), nil)
	for k := 0; k < res; k++ {
		for j := 0; j < res; j++ {
			for i := 0; i < res; i++ {
				buf.SetValue(i, j, k, value)
			}
		}
	}
	return buf
}

func colorNear(t *testing.T, got, expected core.Color, tolerance float64, label string) {
	t.Helper()
	if math.Abs(got.X-expected.X) > tolerance ||
		math.Abs(got.Y-expected.Y) > tolerance ||
		math.Abs(got.Z-expected.Z) > tolerance {
		t.Errorf("%s: expected %v, got %v", label, expected, got)
	}
}

func TestLinearSampler_ConstantField(t *testing.T) {
	value := core.NewVec3(0.25, 0.5, 0.75)
	buf := constantBuffer(value, 8)
	s := NewLinearSampler()

	points := []core.Vec3{
		{X: 4, Y: 4, Z: 4},
		{X: 0.5, Y: 0.5, Z: 0.5},
		{X: 7.3, Y: 1.1, Z: 6.9},
		{X: 0, Y: 0, Z: 0}, // boundary, taps clamp to the edge
	}
	for _, p := range points {
		colorNear(t, s.Sample(buf, p), value, 1e-12, "constant field")
	}
}

func TestLinearSampler_VoxelCenters(t *testing.T) {
	buf := buffer.NewDenseBuffer("density", core.NewBox3iRes(4, 4, 4), nil)
	buf.SetValue(1, 2, 3, core.NewVec3(1, 0, 0))
	s := NewLinearSampler()

	// Sampling exactly at a voxel center returns that voxel's value
	colorNear(t, s.Sample(buf, core.NewVec3(1.5, 2.5, 3.5)), core.NewVec3(1, 0, 0), 1e-12, "at center")
	colorNear(t, s.Sample(buf, core.NewVec3(0.5, 0.5, 0.5)), core.ZeroColor(), 1e-12, "at other center")
}

func TestLinearSampler_Midpoint(t *testing.T) {
	buf := buffer.NewDenseBuffer("density", core.NewBox3iRes(4, 1, 1), nil)
	buf.SetValue(1, 0, 0, core.NewVec3(0.2, 0.4, 0.6))
	buf.SetValue(2, 0, 0, core.NewVec3(0.6, 0.8, 1.0))
	s := NewLinearSampler()

	// Halfway between the centers of voxels 1 and 2 along X
	expected := core.NewVec3(0.4, 0.6, 0.8)
	colorNear(t, s.Sample(buf, core.NewVec3(2.0, 0.5, 0.5)), expected, 1e-12, "midpoint")

	// Quarter of the way
	expected = core.NewVec3(0.3, 0.5, 0.7)
	colorNear(t, s.Sample(buf, core.NewVec3(1.75, 0.5, 0.5)), expected, 1e-12, "quarter point")
}

func TestLinearSampler_SparseMatchesDense(t *testing.T) {
	window := core.NewBox3iRes(8, 8, 8)
	dense := buffer.NewDenseBuffer("density", window, nil)
	sparse := buffer.NewSparseBuffer("density", window, nil)
	for _, p := range []core.V3i{{X: 2, Y: 3, Z: 4}, {X: 3, Y: 3, Z: 4}, {X: 7, Y: 7, Z: 7}} {
		v := core.NewVec3(float64(p.X), float64(p.Y), float64(p.Z))
		dense.SetValue(p.X, p.Y, p.Z, v)
		sparse.SetValue(p.X, p.Y, p.Z, v)
	}

	s := NewLinearSampler()
	for _, p := range []core.Vec3{{X: 2.7, Y: 3.4, Z: 4.1}, {X: 7.9, Y: 7.9, Z: 7.9}, {X: 1, Y: 1, Z: 1}} {
		colorNear(t, s.Sample(sparse, p), s.Sample(dense, p), 1e-12, "sparse vs dense")
	}
}
