package sampler

import (
	"math"

	"github.com/df07/go-voxel-volume/pkg/buffer"
	"github.com/df07/go-voxel-volume/pkg/core"
)

// GaussianSampler reconstructs values with a separable truncated Gaussian
// over the 4×4×4 voxel neighborhood of the sample point. The kernel
//
//	eval(x) = max(0, exp(-alpha·x²) - exp(-alpha·width²))
//
// subtracts its own value at the truncation radius so it reaches zero there
// exactly instead of cutting off with a discontinuity.
type GaussianSampler struct {
	alpha   float64
	width   float64
	expTerm float64 // exp(-alpha·width²), precomputed
}

// NewGaussianSampler creates a Gaussian sampler with the standard kernel
// parameters alpha=2, width=2
func NewGaussianSampler() *GaussianSampler {
	return NewGaussianSamplerParams(2.0, 2.0)
}

// NewGaussianSamplerParams creates a Gaussian sampler with explicit falloff
// and truncation radius
func NewGaussianSamplerParams(alpha, width float64) *GaussianSampler {
	return &GaussianSampler{
		alpha:   alpha,
		width:   width,
		expTerm: math.Exp(-alpha * width * width),
	}
}

func (s *GaussianSampler) eval(x float64) float64 {
	return math.Max(0, math.Exp(-s.alpha*x*x)-s.expTerm)
}

// Sample filters the buffer around a continuous voxel-space point
func (s *GaussianSampler) Sample(buf buffer.Buffer, vsP core.Vec3) core.Color {
	// Voxel centers are at +0.5 coordinates; clamp so the neighborhood stays
	// in representable space near the lower boundary
	clamped := core.NewVec3(math.Max(0.5, vsP.X), math.Max(0.5, vsP.Y), math.Max(0.5, vsP.Z))
	p := clamped.Subtract(core.NewVec3(0.5, 0.5, 0.5))

	// Lower corner of the 4×4×4 neighborhood
	cx := int(math.Floor(p.X)) - 1
	cy := int(math.Floor(p.Y)) - 1
	cz := int(math.Floor(p.Z)) - 1

	window := buf.DataWindow()

	var value core.Color
	var normalization float64
	for k := cz; k < cz+4; k++ {
		wz := s.eval(discToCont(k) - clamped.Z)
		for j := cy; j < cy+4; j++ {
			wy := s.eval(discToCont(j) - clamped.Y)
			for i := cx; i < cx+4; i++ {
				weight := s.eval(discToCont(i)-clamped.X) * wy * wz
				ic, jc, kc := window.ClampIndex(i, j, k)
				value = value.Add(buf.Value(ic, jc, kc).Multiply(weight))
				normalization += weight
			}
		}
	}

	// All taps can fall outside the kernel support for points far from any
	// data; return the background value rather than dividing by zero
	if normalization == 0 {
		return core.ZeroColor()
	}
	return value.Multiply(1 / normalization)
}

// discToCont converts a discrete voxel index to the continuous coordinate of
// its center
func discToCont(i int) float64 {
	return float64(i) + 0.5
}
