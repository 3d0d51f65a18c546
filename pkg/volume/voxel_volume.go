// Package volume wraps a voxel buffer and its spatial mapping behind the
// Volume contract: attribute lookup, continuous sampling, and ray
// intersection into marching intervals.
package volume

import (
	"errors"
	"fmt"

	"github.com/df07/go-voxel-volume/pkg/buffer"
	"github.com/df07/go-voxel-volume/pkg/core"
	"github.com/df07/go-voxel-volume/pkg/loaders"
	"github.com/df07/go-voxel-volume/pkg/mapping"
	"github.com/df07/go-voxel-volume/pkg/sampler"
)

// Configuration errors reported when an intersection handler cannot be built.
// These are structural: the volume stays unusable for intersection until the
// configuration is corrected.
var (
	ErrMissingBuffer      = errors.New("voxel volume has no buffer")
	ErrMissingMapping     = errors.New("voxel buffer has no mapping")
	ErrUnsupportedMapping = errors.New("unsupported mapping variant")
)

// VoxelVolume owns a voxel buffer and dispatches sampling and intersection
// queries against it. Sample and Intersect are safe for unlimited concurrent
// readers on a fully built volume; SetBuffer and Load are exclusive and must
// not overlap with in-flight queries.
type VoxelVolume struct {
	buffer  buffer.Buffer
	handler IntersectionHandler
	sampler sampler.Sampler
	logger  core.Logger
}

// NewVoxelVolume creates an empty voxel volume. A nil logger falls back to
// the default stdout logger. The volume samples with the trilinear filter
// until SetSampler is called.
func NewVoxelVolume(logger core.Logger) *VoxelVolume {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &VoxelVolume{
		sampler: sampler.NewLinearSampler(),
		logger:  logger,
	}
}

// AttributeNames returns the single attribute name owned by the wrapped
// buffer, or nothing when no buffer is set
func (v *VoxelVolume) AttributeNames() []string {
	if v.buffer == nil {
		return nil
	}
	return []string{v.buffer.Attribute()}
}

// Sample reconstructs the attribute value at a world-space position. Unknown
// attributes and positions outside the data window are not errors: they
// contribute the zero color, since a renderer has to tolerate partial volume
// coverage across a scene.
func (v *VoxelVolume) Sample(state core.SampleState, attr *core.VolumeAttr) core.Color {
	if attr.Index() == core.AttrIndexNotSet {
		v.resolveAttr(attr)
	}
	if attr.Index() == core.AttrIndexInvalid {
		return core.ZeroColor()
	}

	if v.buffer == nil || v.buffer.Mapping() == nil {
		return core.ZeroColor()
	}

	vsP := v.buffer.Mapping().WorldToVoxel(state.WorldP)
	if !v.buffer.DataWindow().ContainsPoint(vsP) {
		return core.ZeroColor()
	}

	return v.sampler.Sample(v.buffer, vsP)
}

// resolveAttr binds the attribute against this buffer's single attribute
// name. Resolution is a pure function of the buffer metadata, so concurrent
// first callers all write the same answer.
func (v *VoxelVolume) resolveAttr(attr *core.VolumeAttr) {
	if v.buffer != nil && attr.Name() == v.buffer.Attribute() {
		attr.SetIndex(0)
	} else {
		attr.SetIndex(core.AttrIndexInvalid)
	}
}

// Intersect returns the marching intervals for a world-space ray. Requires a
// previously built intersection handler; without one the ray reports no
// intersection.
func (v *VoxelVolume) Intersect(state core.RenderState) []core.Interval {
	if v.handler == nil {
		return nil
	}
	return v.handler.Intersect(state.WorldRay, state.Time)
}

// SetSampler selects the reconstruction filter used by Sample. A nil sampler
// restores the trilinear default.
func (v *VoxelVolume) SetSampler(s sampler.Sampler) {
	if s == nil {
		s = sampler.NewLinearSampler()
	}
	v.sampler = s
}

// SetBuffer replaces the wrapped buffer and rebuilds the intersection handler
func (v *VoxelVolume) SetBuffer(buf buffer.Buffer) error {
	v.buffer = buf
	return v.UpdateIntersectionHandler()
}

// Buffer returns the wrapped buffer, or nil when none is set
func (v *VoxelVolume) Buffer() buffer.Buffer {
	return v.buffer
}

// Load reads a voxel buffer file and wraps it. Failures are logged as
// warnings and absorbed: the volume keeps its previous state rather than
// crashing the render over a missing file.
func (v *VoxelVolume) Load(path string) {
	v.logger.Printf("Loading voxel buffer: %s\n", path)
	buf, err := loaders.ReadVoxelFile(path)
	if err != nil {
		v.logger.Printf("Warning: couldn't load %s: %v\n", path, err)
		return
	}
	if err := v.SetBuffer(buf); err != nil {
		v.logger.Printf("Warning: loaded %s but %v\n", path, err)
	}
}

// UpdateIntersectionHandler inspects the buffer's mapping variant and builds
// the matching intersection handler. Fails on structural misconfiguration:
// missing buffer, missing mapping, or a mapping variant this volume cannot
// intersect.
func (v *VoxelVolume) UpdateIntersectionHandler() error {
	if v.buffer == nil {
		return ErrMissingBuffer
	}
	m := v.buffer.Mapping()
	if m == nil {
		return ErrMissingMapping
	}
	switch mt := m.(type) {
	case *mapping.UniformMapping:
		v.handler = NewUniformMappingIntersection(mt)
	case *mapping.FrustumMapping:
		v.handler = NewFrustumMappingIntersection(mt)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedMapping, m)
	}
	return nil
}
