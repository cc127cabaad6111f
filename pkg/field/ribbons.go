package field

import (
	"math"

	"github.com/taigrr/tannenbaum/pkg/geometry"
	"github.com/taigrr/tannenbaum/pkg/math3d"
	"github.com/taigrr/tannenbaum/pkg/motion"
)

// Ribbon defaults: six ribbons of a hundred segments, three turns each.
const (
	DefaultRibbons        = 6
	DefaultRibbonSegments = 100
	RibbonLoops           = 3
)

// RibbonField is the population of velvet ribbon segments. Scattered, the
// segments drift like confetti; assembled, they line up along spirals wound
// around the cone.
type RibbonField struct {
	population
}

// NewRibbonField creates ribbons × segments pieces. Ribbons start at evenly
// spaced angles.
func NewRibbonField(s *geometry.Sampler, tree geometry.Tree, ribbons, segments int) *RibbonField {
	ribbons, segments = max(ribbons, 0), max(segments, 0)
	f := &RibbonField{population: newPopulation(ribbons * segments)}

	for r := range ribbons {
		offset := float64(r) / float64(ribbons) * 2 * math.Pi
		for seg := range segments {
			t := float64(seg) / float64(segments)
			pos, rot := geometry.SpiralPath(tree.Height, tree.BaseRadius, t, RibbonLoops, offset)

			f.records[r*segments+seg] = Record{
				ScatterPosition:      s.ScatterSphere(tree.ScatterRadius),
				ScatterOrientation:   math3d.QuatEuler(s.Range(0, math.Pi), s.Range(0, math.Pi), 0),
				AssembledPosition:    pos,
				AssembledOrientation: rot,
				Scale:                s.Range(0.5, 1.0),
				Phase:                t,
			}
		}
	}
	f.settle()
	return f
}

// Update recomputes every segment for the given state.
func (f *RibbonField) Update(st motion.State, _ float64) {
	p := st.Progress
	for i := range f.records {
		r := &f.records[i]
		f.set(i, Instance{
			Position:    r.ScatterPosition.Lerp(r.AssembledPosition, p),
			Orientation: math3d.Slerp(r.ScatterOrientation, r.AssembledOrientation, p),
			Scale:       r.Scale,
		})
	}
}
