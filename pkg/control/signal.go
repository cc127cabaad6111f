// Package control carries user intent from the input sources to the frame
// loop. Input goroutines write the latest intent into a Cell; the frame loop
// copies it out once per frame. There is no queue: stale input is never read.
package control

import (
	"math"
	"sync/atomic"
)

// Signal is one snapshot of user intent.
type Signal struct {
	// Gathered asks for the assembled tree; false asks for the scattered cloud.
	Gathered bool
	// Rotation is the desired yaw of the whole scene in radians.
	Rotation float64
}

// Cell holds the current Signal. Writers and the reader may run on different
// goroutines; the last write wins. The zero value is scattered with no yaw.
type Cell struct {
	gathered atomic.Bool
	rotation atomic.Uint64
}

// Load copies out the current intent.
func (c *Cell) Load() Signal {
	return Signal{
		Gathered: c.gathered.Load(),
		Rotation: math.Float64frombits(c.rotation.Load()),
	}
}

// Store replaces both values.
func (c *Cell) Store(s Signal) {
	c.gathered.Store(s.Gathered)
	c.rotation.Store(math.Float64bits(s.Rotation))
}

// SetGathered replaces the gather intent.
func (c *Cell) SetGathered(v bool) {
	c.gathered.Store(v)
}

// SetRotation replaces the rotation target.
func (c *Cell) SetRotation(r float64) {
	c.rotation.Store(math.Float64bits(r))
}
