package field

import (
	"image/color"
	"math"

	"github.com/taigrr/tannenbaum/pkg/geometry"
	"github.com/taigrr/tannenbaum/pkg/math3d"
	"github.com/taigrr/tannenbaum/pkg/motion"
)

// DefaultGifts is the number of gift boxes.
const DefaultGifts = 35

// GiftBodies is the number of meshes drawn per gift: the box and two crossed
// bands. All of them share the gift's single matrix.
const GiftBodies = 3

// swayAmplitude is the largest pendulum angle of a hanging gift, in radians.
const swayAmplitude = 0.15

// GiftField is the population of gift boxes hung from the branches. A gift's
// pivot is the top of its box, so in the tree it swings like a pendulum.
type GiftField struct {
	population
}

// NewGiftField creates n gifts.
func NewGiftField(s *geometry.Sampler, tree geometry.Tree, n int) *GiftField {
	f := &GiftField{population: newPopulation(n)}
	for i := range f.records {
		tumble := math3d.QuatEuler(s.Range(0, math.Pi), s.Range(0, math.Pi), s.Range(0, math.Pi))
		// hanging straight down, turned to a random side
		hang := math3d.QuatEuler(0, s.Angle(), 0)

		f.records[i] = Record{
			ScatterPosition:      s.ScatterSphere(tree.ScatterRadius),
			ScatterOrientation:   tumble,
			AssembledPosition:    s.AssembledVolume(tree.Height, tree.BaseRadius*ornamentInset),
			AssembledOrientation: hang,
			Scale:                s.Range(0.6, 1.0),
			ColorIndex:           s.IntN(len(GiftPalette)),
			Phase:                s.Range(0, 100),
			Speed:                s.Range(1, 2),
		}
	}
	f.settle()
	return f
}

// Color returns gift i's wrapping colour. Bands are always gold.
func (f *GiftField) Color(i int) color.RGBA {
	return GiftPalette.RGBA(f.records[i].ColorIndex)
}

// Update recomputes every gift for the given state.
func (f *GiftField) Update(st motion.State, elapsed float64) {
	p, t := st.Progress, elapsed

	for i := range f.records {
		r := &f.records[i]

		tumble := r.ScatterOrientation
		if p < TumbleCutoff {
			tumble = tumble.Mul(math3d.QuatAxisAngle(math3d.Right(), 0.5*t))
		}

		// Euler(sway, yaw, sway/2) in XYZ order
		sway := math.Sin(t*r.Speed+r.Phase) * swayAmplitude
		hang := math3d.QuatAxisAngle(math3d.Right(), sway).
			Mul(r.AssembledOrientation).
			Mul(math3d.QuatAxisAngle(math3d.V3(0, 0, 1), 0.5*sway))

		f.set(i, Instance{
			Position:    r.ScatterPosition.Lerp(r.AssembledPosition, p),
			Orientation: math3d.Slerp(tumble, hang, p),
			Scale:       r.Scale * (0.8 + 0.2*p),
		})
	}
}
