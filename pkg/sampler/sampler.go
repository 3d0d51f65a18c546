// Package sampler reconstructs continuous-domain attribute values from the
// discrete voxels of a buffer. All samplers use the voxel-center convention:
// the voxel at integer index i is centered at continuous coordinate i + 0.5.
package sampler

import (
	"github.com/df07/go-voxel-volume/pkg/buffer"
	"github.com/df07/go-voxel-volume/pkg/core"
)

// Sampler is a reconstruction filter over a voxel buffer. Sample takes a
// continuous voxel-space point; bounds checking against the data window is
// the caller's responsibility, taps past the window replicate edge voxels.
// Samplers are stateless and safe for concurrent use.
type Sampler interface {
	Sample(buf buffer.Buffer, vsP core.Vec3) core.Color
}
