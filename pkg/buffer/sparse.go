package buffer

import (
	"github.com/df07/go-voxel-volume/pkg/core"
	"github.com/df07/go-voxel-volume/pkg/mapping"
)

// Sparse storage divides voxel space into 16³ blocks allocated on first
// write. Blocks that were never written read back as the zero value.
const (
	blockBits = 4
	blockSize = 1 << blockBits
	blockMask = blockSize - 1
)

type blockKey struct {
	X, Y, Z int
}

type block struct {
	values [blockSize * blockSize * blockSize]core.Color
}

// SparseBuffer stores voxels in sparsely allocated blocks, suitable for data
// windows that are mostly empty
type SparseBuffer struct {
	attribute string
	window    core.Box3i
	mapping   mapping.Mapping
	blocks    map[blockKey]*block
}

// NewSparseBuffer creates an empty sparse buffer over the given data window.
// The mapping may be nil and attached later with SetMapping.
func NewSparseBuffer(attribute string, window core.Box3i, m mapping.Mapping) *SparseBuffer {
	b := &SparseBuffer{
		attribute: attribute,
		window:    window,
		blocks:    make(map[blockKey]*block),
	}
	b.SetMapping(m)
	return b
}

// Arithmetic shift keeps block coordinates correct for negative voxel indices
func blockCoords(i, j, k int) (blockKey, int) {
	key := blockKey{X: i >> blockBits, Y: j >> blockBits, Z: k >> blockBits}
	offset := ((k&blockMask)*blockSize+(j&blockMask))*blockSize + (i & blockMask)
	return key, offset
}

// Value returns the voxel at the given index; unallocated blocks and indices
// outside the window read as zero
func (b *SparseBuffer) Value(i, j, k int) core.Color {
	if !b.window.ContainsIndex(i, j, k) {
		return core.ZeroColor()
	}
	key, offset := blockCoords(i, j, k)
	blk, ok := b.blocks[key]
	if !ok {
		return core.ZeroColor()
	}
	return blk.values[offset]
}

// SetValue stores a voxel, allocating its block on first use; indices outside
// the window are ignored
func (b *SparseBuffer) SetValue(i, j, k int, v core.Color) {
	if !b.window.ContainsIndex(i, j, k) {
		return
	}
	key, offset := blockCoords(i, j, k)
	blk, ok := b.blocks[key]
	if !ok {
		blk = &block{}
		b.blocks[key] = blk
	}
	blk.values[offset] = v
}

// DataWindow returns the inclusive index range of stored voxels
func (b *SparseBuffer) DataWindow() core.Box3i {
	return b.window
}

// Attribute returns the buffer's attribute name
func (b *SparseBuffer) Attribute() string {
	return b.attribute
}

// Mapping returns the buffer's spatial mapping, or nil if none is attached
func (b *SparseBuffer) Mapping() mapping.Mapping {
	return b.mapping
}

// SetMapping attaches a spatial mapping and syncs its voxel window to this
// buffer's data window
func (b *SparseBuffer) SetMapping(m mapping.Mapping) {
	b.mapping = m
	if m != nil {
		m.SetVoxelWindow(b.window)
	}
}

// NumAllocatedBlocks returns how many 16³ blocks have been allocated
func (b *SparseBuffer) NumAllocatedBlocks() int {
	return len(b.blocks)
}
