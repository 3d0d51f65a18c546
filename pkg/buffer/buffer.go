// Package buffer holds voxel grids: a 3D field of attribute values over an
// inclusive integer data window, with one named attribute and one spatial
// mapping per buffer.
package buffer

import (
	"github.com/df07/go-voxel-volume/pkg/core"
	"github.com/df07/go-voxel-volume/pkg/mapping"
)

// Buffer is the in-memory voxel buffer abstraction consumed by samplers and
// volumes. Value lookups on a fully built buffer are safe for unlimited
// concurrent readers; SetValue is load-time only and must not race with reads.
type Buffer interface {
	// Value returns the voxel at the given discrete index, or the zero value
	// for indices outside the data window
	Value(i, j, k int) core.Color
	// SetValue stores a voxel. Indices outside the data window are ignored.
	SetValue(i, j, k int, v core.Color)

	DataWindow() core.Box3i
	Attribute() string
	Mapping() mapping.Mapping
	SetMapping(m mapping.Mapping)
}
