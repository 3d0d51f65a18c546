package buffer

import (
	"github.com/df07/go-voxel-volume/pkg/core"
	"github.com/df07/go-voxel-volume/pkg/mapping"
)

// DenseBuffer stores every voxel of its data window in a flat slice,
// X-major within Y within Z
type DenseBuffer struct {
	attribute string
	window    core.Box3i
	mapping   mapping.Mapping
	data      []core.Color
}

// NewDenseBuffer creates a zero-filled dense buffer over the given data
// window. The mapping may be nil and attached later with SetMapping.
func NewDenseBuffer(attribute string, window core.Box3i, m mapping.Mapping) *DenseBuffer {
	b := &DenseBuffer{
		attribute: attribute,
		window:    window,
		data:      make([]core.Color, window.NumVoxels()),
	}
	b.SetMapping(m)
	return b
}

// Value returns the voxel at the given index, or zero outside the window
func (b *DenseBuffer) Value(i, j, k int) core.Color {
	if !b.window.ContainsIndex(i, j, k) {
		return core.ZeroColor()
	}
	return b.data[b.offset(i, j, k)]
}

// SetValue stores a voxel; indices outside the window are ignored
func (b *DenseBuffer) SetValue(i, j, k int, v core.Color) {
	if !b.window.ContainsIndex(i, j, k) {
		return
	}
	b.data[b.offset(i, j, k)] = v
}

func (b *DenseBuffer) offset(i, j, k int) int {
	size := b.window.Size()
	return ((k-b.window.Min.Z)*size.Y+(j-b.window.Min.Y))*size.X + (i - b.window.Min.X)
}

// DataWindow returns the inclusive index range of stored voxels
func (b *DenseBuffer) DataWindow() core.Box3i {
	return b.window
}

// Attribute returns the buffer's attribute name
func (b *DenseBuffer) Attribute() string {
	return b.attribute
}

// Mapping returns the buffer's spatial mapping, or nil if none is attached
func (b *DenseBuffer) Mapping() mapping.Mapping {
	return b.mapping
}

// SetMapping attaches a spatial mapping and syncs its voxel window to this
// buffer's data window
func (b *DenseBuffer) SetMapping(m mapping.Mapping) {
	b.mapping = m
	if m != nil {
		m.SetVoxelWindow(b.window)
	}
}
