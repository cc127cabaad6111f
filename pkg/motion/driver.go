// Package motion owns the two animated scalars of a scene: the gather
// progress and the group yaw. Both chase their targets with exponential
// smoothing, so the motion does not depend on the frame rate.
package motion

import (
	"math"

	"github.com/taigrr/tannenbaum/pkg/control"
)

// Default rates, in 1/s.
const (
	DefaultProgressRate = 2.5
	DefaultRotationRate = 5.0
)

// DefaultMaxStep caps a single frame's time step, so a stalled terminal does
// not snap the tree into place when it resumes.
const DefaultMaxStep = 0.1

// State is a snapshot of the animated scalars, handed to every updater.
type State struct {
	// Progress is 0 for the scattered cloud and 1 for the assembled tree.
	Progress float64
	// Rotation is the smoothed group yaw in radians.
	Rotation float64
}

// Driver smooths a control.Signal into a State. It is owned by the frame loop
// and must only be updated from there.
//
// Each step moves a value by (target-x)*(1-exp(-rate*dt)). For small steps
// this matches a plain lerp by rate*dt; at the 0.1s cap with rate 5 the
// exponential form moves 39% of the way where the lerp would move 50%.
type Driver struct {
	ProgressRate float64
	RotationRate float64
	MaxStep      float64

	state State
}

// NewDriver returns a driver at rest in the scattered state with the default
// rates.
func NewDriver() *Driver {
	return &Driver{
		ProgressRate: DefaultProgressRate,
		RotationRate: DefaultRotationRate,
		MaxStep:      DefaultMaxStep,
	}
}

// Progress returns the current gather progress in [0, 1].
func (d *Driver) Progress() float64 { return d.state.Progress }

// Rotation returns the current smoothed yaw.
func (d *Driver) Rotation() float64 { return d.state.Rotation }

// State returns both values.
func (d *Driver) State() State { return d.state }

// Update advances the driver by dt seconds towards sig. Negative or NaN steps
// are treated as zero and steps above MaxStep are clamped.
func (d *Driver) Update(dt float64, sig control.Signal) State {
	dt = d.clampStep(dt)
	if dt == 0 {
		return d.state
	}

	target := 0.0
	if sig.Gathered {
		target = 1
	}

	d.state.Progress = approach(d.state.Progress, target, d.ProgressRate, dt)
	d.state.Rotation = approach(d.state.Rotation, sig.Rotation, d.RotationRate, dt)

	// guard the [0, 1] contract against rounding
	d.state.Progress = min(max(d.state.Progress, 0), 1)
	return d.state
}

// MaxStepDelta is the largest change in progress a single Update with this dt
// can produce.
func (d *Driver) MaxStepDelta(dt float64) float64 {
	return smoothing(d.ProgressRate, d.clampStep(dt))
}

func (d *Driver) clampStep(dt float64) float64 {
	if !(dt > 0) {
		return 0
	}
	if d.MaxStep > 0 && dt > d.MaxStep {
		return d.MaxStep
	}
	return dt
}

func approach(x, target, rate, dt float64) float64 {
	return x + (target-x)*smoothing(rate, dt)
}

// smoothing is the fraction of the remaining distance covered in dt.
func smoothing(rate, dt float64) float64 {
	if !(rate > 0) {
		return 0
	}
	return -math.Expm1(-rate * dt)
}
