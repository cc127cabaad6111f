// Package field holds the element populations of the scene and the per-frame
// updaters that move them between the scattered and assembled layouts.
//
// Every population is built once from a geometry.Sampler. Its records never
// change afterwards; each frame only the interpolation fraction and the clock
// move. Updates write into buffers allocated at construction.
package field

import (
	"github.com/taigrr/tannenbaum/pkg/math3d"
	"github.com/taigrr/tannenbaum/pkg/motion"
)

// TumbleCutoff is the progress above which scattered bodies stop spinning.
const TumbleCutoff = 0.9

// Record is the fixed description of one element, drawn once at creation.
type Record struct {
	ScatterPosition      math3d.Vec3
	ScatterOrientation   math3d.Quat
	AssembledPosition    math3d.Vec3
	AssembledOrientation math3d.Quat

	Scale      float64
	ColorIndex int

	// Phase desynchronizes per-element oscillation.
	Phase float64

	// Speed is the sway frequency of hanging bodies.
	Speed float64
}

// Instance is the transform of one element for the current frame.
type Instance struct {
	Position    math3d.Vec3
	Orientation math3d.Quat
	Scale       float64

	// Lift is a vertical offset on top of Position (ornament bobbing).
	Lift float64
}

// Matrix composes the model matrix of the instance.
func (in Instance) Matrix() math3d.Mat4 {
	pos := in.Position
	pos.Y += in.Lift
	return math3d.TRS(pos, in.Orientation, in.Scale)
}

// Updater advances a population to the given driver state. elapsed is the
// scene clock in seconds.
type Updater interface {
	Update(st motion.State, elapsed float64)
	Len() int
}

// population is the storage shared by the instanced body fields.
type population struct {
	records   []Record
	instances []Instance
	matrices  []math3d.Mat4
}

func newPopulation(n int) population {
	n = max(n, 0)
	return population{
		records:   make([]Record, n),
		instances: make([]Instance, n),
		matrices:  make([]math3d.Mat4, n),
	}
}

// Len returns the number of elements.
func (p *population) Len() int { return len(p.records) }

// Record returns a copy of element i's fixed description.
func (p *population) Record(i int) Record { return p.records[i] }

// Instance returns element i's transform for the current frame.
func (p *population) Instance(i int) Instance { return p.instances[i] }

// Matrix returns element i's model matrix for the current frame.
func (p *population) Matrix(i int) math3d.Mat4 { return p.matrices[i] }

func (p *population) set(i int, in Instance) {
	p.instances[i] = in
	p.matrices[i] = in.Matrix()
}

// settle places every element at its scatter pose, for use before the first
// Update.
func (p *population) settle() {
	for i, r := range p.records {
		p.set(i, Instance{
			Position:    r.ScatterPosition,
			Orientation: r.ScatterOrientation,
			Scale:       r.Scale,
		})
	}
}
