package core

// Interval is a ray-parameter segment over which a volume should be marched,
// with a recommended sampling step in parameter units. StepLength is strictly
// positive whenever T1 > T0; how many samples are actually taken is up to the
// integrator.
type Interval struct {
	T0         float64
	T1         float64
	StepLength float64
}

// NewInterval creates a new marching interval
func NewInterval(t0, t1, stepLength float64) Interval {
	return Interval{T0: t0, T1: t1, StepLength: stepLength}
}

// SampleState carries the inputs to a volume sample query
type SampleState struct {
	WorldP Vec3    // World-space sample position
	Time   float64 // Shutter time; unused by static buffers but part of the contract
}

// RenderState carries the inputs to a volume intersection query
type RenderState struct {
	WorldRay Ray     // World-space ray
	Time     float64 // Shutter time
}
