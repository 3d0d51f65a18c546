package volume

import (
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/df07/go-voxel-volume/pkg/buffer"
	"github.com/df07/go-voxel-volume/pkg/core"
	"github.com/df07/go-voxel-volume/pkg/loaders"
	"github.com/df07/go-voxel-volume/pkg/mapping"
	"github.com/df07/go-voxel-volume/pkg/sampler"
)

type testLogger struct {
	messages []string
}

func (l *testLogger) Printf(format string, args ...interface{}) {
	l.messages = append(l.messages, format)
}

// unitDensityVolume builds a volume over [0,1]³ with a constant density value
func unitDensityVolume(t *testing.T, value core.Color) (*VoxelVolume, *buffer.DenseBuffer) {
	t.Helper()
	m := mapping.NewIdentityMapping()
	buf := buffer.NewDenseBuffer("density", core.NewBox3iRes(8, 8, 8), m)
	for k := 0; k < 8; k++ {
		for j := 0; j < 8; j++ {
			for i := 0; i < 8; i++ {
				buf.SetValue(i, j, k, value)
			}
		}
	}

	vol := NewVoxelVolume(&testLogger{})
	if err := vol.SetBuffer(buf); err != nil {
		t.Fatalf("SetBuffer failed: %v", err)
	}
	return vol, buf
}

func TestVoxelVolume_AttributeNames(t *testing.T) {
	vol := NewVoxelVolume(&testLogger{})
	if names := vol.AttributeNames(); len(names) != 0 {
		t.Errorf("Empty volume should have no attributes, got %v", names)
	}

	vol, buf := unitDensityVolume(t, core.NewVec3(1, 1, 1))
	names := vol.AttributeNames()
	if len(names) != 1 || names[0] != buf.Attribute() {
		t.Errorf("Expected [%q], got %v", buf.Attribute(), names)
	}
}

func TestVoxelVolume_Sample(t *testing.T) {
	value := core.NewVec3(0.2, 0.4, 0.8)
	vol, _ := unitDensityVolume(t, value)

	tests := []struct {
		name     string
		attr     *core.VolumeAttr
		worldP   core.Vec3
		expected core.Color
	}{
		{
			name:     "inside with matching attribute",
			attr:     core.NewVolumeAttr("density"),
			worldP:   core.NewVec3(0.5, 0.5, 0.5),
			expected: value,
		},
		{
			name:     "unknown attribute is silent zero",
			attr:     core.NewVolumeAttr("temperature"),
			worldP:   core.NewVec3(0.5, 0.5, 0.5),
			expected: core.ZeroColor(),
		},
		{
			name:     "outside data window is silent zero",
			attr:     core.NewVolumeAttr("density"),
			worldP:   core.NewVec3(5, 5, 5),
			expected: core.ZeroColor(),
		},
		{
			name:     "just outside unit cube",
			attr:     core.NewVolumeAttr("density"),
			worldP:   core.NewVec3(1.01, 0.5, 0.5),
			expected: core.ZeroColor(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vol.Sample(core.SampleState{WorldP: tt.worldP}, tt.attr)
			if math.Abs(got.X-tt.expected.X) > 1e-9 ||
				math.Abs(got.Y-tt.expected.Y) > 1e-9 ||
				math.Abs(got.Z-tt.expected.Z) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestVoxelVolume_AttrResolutionCaches(t *testing.T) {
	vol, _ := unitDensityVolume(t, core.NewVec3(1, 1, 1))

	attr := core.NewVolumeAttr("density")
	if attr.Index() != core.AttrIndexNotSet {
		t.Fatalf("Attr should start unresolved")
	}
	vol.Sample(core.SampleState{WorldP: core.NewVec3(0.5, 0.5, 0.5)}, attr)
	if attr.Index() != 0 {
		t.Errorf("Expected cached index 0 after first sample, got %d", attr.Index())
	}

	missing := core.NewVolumeAttr("fuel")
	vol.Sample(core.SampleState{WorldP: core.NewVec3(0.5, 0.5, 0.5)}, missing)
	if missing.Index() != core.AttrIndexInvalid {
		t.Errorf("Expected invalid index for missing attribute, got %d", missing.Index())
	}
}

func TestVoxelVolume_Intersect(t *testing.T) {
	vol, _ := unitDensityVolume(t, core.NewVec3(1, 1, 1))

	ray := core.NewRay(core.NewVec3(0.5, 0.5, -1), core.NewVec3(0, 0, 1))
	intervals := vol.Intersect(core.RenderState{WorldRay: ray})
	if len(intervals) != 1 {
		t.Fatalf("Expected 1 interval, got %d", len(intervals))
	}
	if math.Abs(intervals[0].T0-1) > 1e-9 || math.Abs(intervals[0].T1-2) > 1e-9 {
		t.Errorf("Expected interval [1,2], got %v", intervals[0])
	}

	// Without a handler there is no intersection
	empty := NewVoxelVolume(&testLogger{})
	if got := empty.Intersect(core.RenderState{WorldRay: ray}); got != nil {
		t.Errorf("Expected nil intervals without a handler, got %v", got)
	}
}

type unsupportedMapping struct{}

func (unsupportedMapping) LocalToWorld(p core.Vec3) core.Vec3 { return p }
func (unsupportedMapping) WorldToLocal(p core.Vec3) core.Vec3 { return p }
func (unsupportedMapping) WorldToVoxel(p core.Vec3) core.Vec3 { return p }
func (unsupportedMapping) VoxelToWorld(p core.Vec3) core.Vec3 { return p }
func (unsupportedMapping) SetVoxelWindow(core.Box3i)          {}
func (unsupportedMapping) VoxelWindow() core.Box3i            { return core.Box3i{} }

func TestVoxelVolume_UpdateIntersectionHandlerErrors(t *testing.T) {
	vol := NewVoxelVolume(&testLogger{})

	if err := vol.UpdateIntersectionHandler(); !errors.Is(err, ErrMissingBuffer) {
		t.Errorf("Expected ErrMissingBuffer, got %v", err)
	}

	noMapping := buffer.NewDenseBuffer("density", core.NewBox3iRes(2, 2, 2), nil)
	if err := vol.SetBuffer(noMapping); !errors.Is(err, ErrMissingMapping) {
		t.Errorf("Expected ErrMissingMapping, got %v", err)
	}

	odd := buffer.NewDenseBuffer("density", core.NewBox3iRes(2, 2, 2), unsupportedMapping{})
	if err := vol.SetBuffer(odd); !errors.Is(err, ErrUnsupportedMapping) {
		t.Errorf("Expected ErrUnsupportedMapping, got %v", err)
	}
}

func TestVoxelVolume_HandlerVariants(t *testing.T) {
	vol := NewVoxelVolume(&testLogger{})

	uniform := buffer.NewDenseBuffer("density", core.NewBox3iRes(2, 2, 2), mapping.NewIdentityMapping())
	if err := vol.SetBuffer(uniform); err != nil {
		t.Fatalf("SetBuffer(uniform) failed: %v", err)
	}
	if _, ok := vol.handler.(*UniformMappingIntersection); !ok {
		t.Errorf("Expected uniform handler, got %T", vol.handler)
	}

	fm, err := mapping.NewFrustumMappingLookAt(
		core.NewVec3(0, 0, 3), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0),
		math.Pi/2, 1.0, 2.0, 4.0)
	if err != nil {
		t.Fatalf("NewFrustumMappingLookAt failed: %v", err)
	}
	frustum := buffer.NewDenseBuffer("density", core.NewBox3iRes(2, 2, 2), fm)
	if err := vol.SetBuffer(frustum); err != nil {
		t.Fatalf("SetBuffer(frustum) failed: %v", err)
	}
	if _, ok := vol.handler.(*FrustumMappingIntersection); !ok {
		t.Errorf("Expected frustum handler, got %T", vol.handler)
	}
}

func TestVoxelVolume_LoadMissingFile(t *testing.T) {
	logger := &testLogger{}
	vol := NewVoxelVolume(logger)

	vol.Load(filepath.Join(t.TempDir(), "does_not_exist.gvox"))

	if names := vol.AttributeNames(); len(names) != 0 {
		t.Errorf("Failed load should leave the volume empty, got attributes %v", names)
	}
	ray := core.NewRay(core.NewVec3(0.5, 0.5, -1), core.NewVec3(0, 0, 1))
	if intervals := vol.Intersect(core.RenderState{WorldRay: ray}); len(intervals) != 0 {
		t.Errorf("Intersect should not be callable after failed load, got %v", intervals)
	}
	if len(logger.messages) < 2 {
		t.Errorf("Expected a load message and a warning, got %v", logger.messages)
	}
}

func TestVoxelVolume_LoadNoUsableAttribute(t *testing.T) {
	// A file whose attribute name is empty has no usable field; the volume
	// keeps its previous (empty) state
	path := filepath.Join(t.TempDir(), "empty_attr.gvox")
	nameless := buffer.NewDenseBuffer("", core.NewBox3iRes(2, 2, 2), mapping.NewIdentityMapping())
	if err := loaders.WriteVoxelFile(path, nameless); err != nil {
		t.Fatalf("WriteVoxelFile failed: %v", err)
	}

	vol := NewVoxelVolume(&testLogger{})
	vol.Load(path)
	if names := vol.AttributeNames(); len(names) != 0 {
		t.Errorf("Load of unusable file should leave the volume empty, got %v", names)
	}
}

func TestVoxelVolume_LoadRoundTrip(t *testing.T) {
	m, err := mapping.NewUniformMappingBounds(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))
	if err != nil {
		t.Fatalf("NewUniformMappingBounds failed: %v", err)
	}
	buf := buffer.NewDenseBuffer("density", core.NewBox3iRes(4, 4, 4), m)
	value := core.NewVec3(0.5, 0.25, 0.125)
	for k := 0; k < 4; k++ {
		for j := 0; j < 4; j++ {
			for i := 0; i < 4; i++ {
				buf.SetValue(i, j, k, value)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "volume.gvox")
	if err := loaders.WriteVoxelFile(path, buf); err != nil {
		t.Fatalf("WriteVoxelFile failed: %v", err)
	}

	vol := NewVoxelVolume(&testLogger{})
	vol.Load(path)

	if names := vol.AttributeNames(); len(names) != 1 || names[0] != "density" {
		t.Fatalf("Expected [density] after load, got %v", names)
	}
	attr := core.NewVolumeAttr("density")
	got := vol.Sample(core.SampleState{WorldP: core.NewVec3(0, 0, 0)}, attr)
	if math.Abs(got.X-value.X) > 1e-6 || math.Abs(got.Y-value.Y) > 1e-6 || math.Abs(got.Z-value.Z) > 1e-6 {
		t.Errorf("Expected %v at center after load, got %v", value, got)
	}

	ray := core.NewRay(core.NewVec3(0, 0, -2), core.NewVec3(0, 0, 1))
	if intervals := vol.Intersect(core.RenderState{WorldRay: ray}); len(intervals) != 1 {
		t.Errorf("Expected 1 interval after load, got %v", intervals)
	}
}

func TestVoxelVolume_SetSampler(t *testing.T) {
	m := mapping.NewIdentityMapping()
	buf := buffer.NewDenseBuffer("density", core.NewBox3iRes(8, 8, 8), m)
	buf.SetValue(4, 4, 4, core.NewVec3(1, 1, 1))

	vol := NewVoxelVolume(&testLogger{})
	if err := vol.SetBuffer(buf); err != nil {
		t.Fatalf("SetBuffer failed: %v", err)
	}

	attr := core.NewVolumeAttr("density")
	// Sample at the exact center of the lit voxel: continuous voxel
	// coordinate (4.5, 4.5, 4.5), world (0.5625, ...) under an 8³ identity
	// placement over [0,1]³
	state := core.SampleState{WorldP: core.NewVec3(4.5/8, 4.5/8, 4.5/8)}

	linear := vol.Sample(state, attr)
	if math.Abs(linear.X-1) > 1e-9 {
		t.Errorf("Linear sample at voxel center should be 1, got %v", linear)
	}

	vol.SetSampler(sampler.NewGaussianSampler())
	gaussian := vol.Sample(state, attr)
	if gaussian.X >= 1 || gaussian.X <= 0.5 {
		t.Errorf("Gaussian impulse response should be in (0.5, 1), got %v", gaussian)
	}
}

func TestVoxelVolume_ConcurrentSampling(t *testing.T) {
	value := core.NewVec3(0.4, 0.4, 0.4)
	vol, _ := unitDensityVolume(t, value)

	// Many readers share one lazily-resolved attribute; every sample must see
	// the same converged result
	attr := core.NewVolumeAttr("density")
	ray := core.NewRay(core.NewVec3(0.5, 0.5, -1), core.NewVec3(0, 0, 1))

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 500; n++ {
				got := vol.Sample(core.SampleState{WorldP: core.NewVec3(0.5, 0.5, 0.5)}, attr)
				if math.Abs(got.X-value.X) > 1e-9 {
					t.Errorf("Concurrent sample mismatch: %v", got)
					return
				}
				if intervals := vol.Intersect(core.RenderState{WorldRay: ray}); len(intervals) != 1 {
					t.Errorf("Concurrent intersect mismatch: %v", intervals)
					return
				}
			}
		}()
	}
	wg.Wait()
}
