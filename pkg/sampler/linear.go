package sampler

import (
	"math"

	"github.com/df07/go-voxel-volume/pkg/buffer"
	"github.com/df07/go-voxel-volume/pkg/core"
)

// LinearSampler reconstructs values by trilinear interpolation of the eight
// voxels surrounding the sample point
type LinearSampler struct{}

// NewLinearSampler creates a new trilinear sampler
func NewLinearSampler() *LinearSampler {
	return &LinearSampler{}
}

// Sample interpolates the buffer at a continuous voxel-space point
func (s *LinearSampler) Sample(buf buffer.Buffer, vsP core.Vec3) core.Color {
	// Shift so voxel centers land on integer coordinates
	px := vsP.X - 0.5
	py := vsP.Y - 0.5
	pz := vsP.Z - 0.5

	i0 := int(math.Floor(px))
	j0 := int(math.Floor(py))
	k0 := int(math.Floor(pz))

	fx := px - float64(i0)
	fy := py - float64(j0)
	fz := pz - float64(k0)

	window := buf.DataWindow()
	value := func(i, j, k int) core.Color {
		ic, jc, kc := window.ClampIndex(i, j, k)
		return buf.Value(ic, jc, kc)
	}

	// Interpolate along X, then Y, then Z
	c00 := lerp(value(i0, j0, k0), value(i0+1, j0, k0), fx)
	c10 := lerp(value(i0, j0+1, k0), value(i0+1, j0+1, k0), fx)
	c01 := lerp(value(i0, j0, k0+1), value(i0+1, j0, k0+1), fx)
	c11 := lerp(value(i0, j0+1, k0+1), value(i0+1, j0+1, k0+1), fx)

	c0 := lerp(c00, c10, fy)
	c1 := lerp(c01, c11, fy)

	return lerp(c0, c1, fz)
}

func lerp(a, b core.Color, t float64) core.Color {
	return a.Multiply(1 - t).Add(b.Multiply(t))
}
