package field

import (
	"math"

	"github.com/taigrr/tannenbaum/pkg/geometry"
	"github.com/taigrr/tannenbaum/pkg/math3d"
	"github.com/taigrr/tannenbaum/pkg/motion"
)

// FrameSlots is the fixed number of photo plaques.
const FrameSlots = 10

// goldenRatio spreads the plaques around the trunk without lining them up.
const goldenRatio = 1.618

// frameScatterReach places plaques further out than the rest of the cloud.
const frameScatterReach = 1.5

// FrameField is the population of photo plaques hung on the cone surface.
// Slot n shows the n-th bound image; unbound slots show a placeholder.
type FrameField struct {
	population
	bound int
}

// NewFrameField creates the plaques, wound up the tree from the base.
func NewFrameField(s *geometry.Sampler, tree geometry.Tree) *FrameField {
	f := &FrameField{population: newPopulation(FrameSlots)}
	for i := range f.records {
		nh := (float64(i) + 0.5) / FrameSlots
		angle := float64(i) * 2 * math.Pi / goldenRatio
		pos, rot := geometry.TreeSurface(tree.Height, tree.BaseRadius, nh, angle)

		f.records[i] = Record{
			ScatterPosition:      s.ScatterSphere(tree.ScatterRadius * frameScatterReach),
			ScatterOrientation:   math3d.QuatIdentity(),
			AssembledPosition:    pos,
			AssembledOrientation: rot,
			Scale:                1,
		}
	}
	f.settle()
	return f
}

// Bind attaches count images to the first slots in order and reports how
// many were bound. Images beyond the slot count are dropped.
func (f *FrameField) Bind(count int) int {
	f.bound = min(max(count, 0), len(f.records))
	return f.bound
}

// Slot returns the image index shown by plaque i, or false when the plaque
// shows the placeholder.
func (f *FrameField) Slot(i int) (int, bool) {
	if i < 0 || i >= f.bound {
		return -1, false
	}
	return i, true
}

// Bound returns the number of plaques showing an image.
func (f *FrameField) Bound() int { return f.bound }

// Update recomputes every plaque for the given state.
func (f *FrameField) Update(st motion.State, elapsed float64) {
	p, t := st.Progress, elapsed
	spin := math3d.QuatEuler(0.2*t, 0.3*t, 0)

	for i := range f.records {
		r := &f.records[i]
		tumble := r.ScatterOrientation.Mul(spin)

		f.set(i, Instance{
			Position:    r.ScatterPosition.Lerp(r.AssembledPosition, p),
			Orientation: math3d.Slerp(tumble, r.AssembledOrientation, p),
			Scale:       r.Scale * (1 + 0.5*p),
		})
	}
}
