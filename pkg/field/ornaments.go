package field

import (
	"image/color"
	"math"

	"github.com/taigrr/tannenbaum/pkg/geometry"
	"github.com/taigrr/tannenbaum/pkg/math3d"
	"github.com/taigrr/tannenbaum/pkg/motion"
)

// DefaultOrnaments is the number of baubles.
const DefaultOrnaments = 400

// ornamentInset keeps baubles inside the needle cloud.
const ornamentInset = 0.9

// OrnamentField is the population of coloured baubles. They bob gently while
// scattered and grow as the tree forms.
type OrnamentField struct {
	population
}

// NewOrnamentField creates n baubles.
func NewOrnamentField(s *geometry.Sampler, tree geometry.Tree, n int) *OrnamentField {
	f := &OrnamentField{population: newPopulation(n)}
	for i := range f.records {
		f.records[i] = Record{
			ScatterPosition:      s.ScatterSphere(tree.ScatterRadius),
			ScatterOrientation:   math3d.QuatEuler(s.Range(0, math.Pi), s.Range(0, math.Pi), 0),
			AssembledPosition:    s.AssembledVolume(tree.Height, tree.BaseRadius*ornamentInset),
			AssembledOrientation: math3d.QuatEuler(0, s.Angle(), 0),
			Scale:                s.Range(0.1, 0.25),
			ColorIndex:           s.IntN(len(OrnamentPalette)),
			Phase:                s.Angle(),
		}
	}
	f.settle()
	return f
}

// Color returns bauble i's palette colour.
func (f *OrnamentField) Color(i int) color.RGBA {
	return OrnamentPalette.RGBA(f.records[i].ColorIndex)
}

// Update recomputes every bauble for the given state.
func (f *OrnamentField) Update(st motion.State, elapsed float64) {
	p, t := st.Progress, elapsed

	for i := range f.records {
		r := &f.records[i]

		tumble := r.ScatterOrientation
		if p < TumbleCutoff {
			tumble = tumble.Mul(math3d.QuatEuler(0.2*t+r.Phase, 0.1*t, 0))
		}

		f.set(i, Instance{
			Position:    r.ScatterPosition.Lerp(r.AssembledPosition, p),
			Orientation: math3d.Slerp(tumble, r.AssembledOrientation, p),
			Scale:       r.Scale * (0.5 + 0.5*p),
			Lift:        math.Sin(t+r.Phase) * 0.1 * (1 - p),
		})
	}
}
