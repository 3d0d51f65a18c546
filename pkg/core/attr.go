package core

import "sync/atomic"

// Attribute index resolution states. Valid indices are >= 0.
const (
	AttrIndexNotSet  = -1 // Name not yet resolved against a buffer
	AttrIndexInvalid = -2 // Name resolved but not found in the buffer
)

// VolumeAttr binds an attribute name to a per-volume index. Resolution is
// lazy: the first Sample call resolves the name against the buffer and caches
// the result. The cache is the only shared mutable state on the sampling path,
// so it is held in an atomic; resolution is a pure function of immutable
// buffer metadata, so concurrent first callers converge to the same answer.
type VolumeAttr struct {
	name  string
	index atomic.Int32
}

// NewVolumeAttr creates an unresolved attribute reference
func NewVolumeAttr(name string) *VolumeAttr {
	a := &VolumeAttr{name: name}
	a.index.Store(AttrIndexNotSet)
	return a
}

// Name returns the attribute name
func (a *VolumeAttr) Name() string {
	return a.name
}

// Index returns the cached resolution state: a valid index, AttrIndexNotSet,
// or AttrIndexInvalid
func (a *VolumeAttr) Index() int {
	return int(a.index.Load())
}

// SetIndex records the resolution result. The first writer wins; later calls
// with the same answer are no-ops, so redundant resolution is harmless.
func (a *VolumeAttr) SetIndex(index int) {
	a.index.CompareAndSwap(AttrIndexNotSet, int32(index))
}

// Reset returns the attribute to the unresolved state. Only safe while no
// concurrent sampling is in flight, e.g. when rebinding to a new buffer.
func (a *VolumeAttr) Reset() {
	a.index.Store(AttrIndexNotSet)
}
