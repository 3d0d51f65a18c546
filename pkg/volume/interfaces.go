package volume

import (
	"fmt"

	"github.com/df07/go-voxel-volume/pkg/core"
)

// Volume is the contract a volume exposes to the integrator/raymarcher:
// enumerate attributes, reconstruct a value at a world-space position, and
// compute the marching intervals for a world-space ray
type Volume interface {
	AttributeNames() []string
	Sample(state core.SampleState, attr *core.VolumeAttr) core.Color
	Intersect(state core.RenderState) []core.Interval
}

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}
