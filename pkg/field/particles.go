package field

import (
	"math"

	"github.com/tanema/gween/ease"

	"github.com/taigrr/tannenbaum/pkg/geometry"
	"github.com/taigrr/tannenbaum/pkg/math3d"
	"github.com/taigrr/tannenbaum/pkg/motion"
)

// DefaultParticles is the size of the needle cloud.
const DefaultParticles = 8500

// Particle look.
const (
	// ParticleSize is the splat size at the reference depth.
	ParticleSize = 6.0
	// SizeReference is the view depth at which a splat has its base size
	// scaled by one.
	SizeReference = 20.0

	breathAmplitude = 0.1
	windLift        = 0.5
	windDrift       = 0.3
)

// ParticleGradient runs from the splat centre to its rim.
var ParticleGradient = Gradient(EmeraldLight, EmeraldDeep, 8)

// ParticleField is the diffuse needle cloud. Unlike the instanced bodies, its
// interpolation fraction is eased, so the tree settles softly.
//
// Each needle's position is a function of the shared progress, the clock and
// the needle's own phase only.
type ParticleField struct {
	records   []Record
	positions []math3d.Vec3
	alpha     []float64
	ease      float64
}

// NewParticleField scatters n needles in the ball and fills the cone with
// their assembled positions.
func NewParticleField(s *geometry.Sampler, tree geometry.Tree, n int) *ParticleField {
	n = max(n, 0)
	f := &ParticleField{
		records:   make([]Record, n),
		positions: make([]math3d.Vec3, n),
		alpha:     make([]float64, n),
	}
	for i := range f.records {
		f.records[i] = Record{
			ScatterPosition:      s.ScatterSphere(tree.ScatterRadius),
			ScatterOrientation:   math3d.QuatIdentity(),
			AssembledPosition:    s.AssembledVolume(tree.Height, tree.BaseRadius),
			AssembledOrientation: math3d.QuatIdentity(),
			Scale:                1,
			Phase:                s.Float64(),
		}
		f.positions[i] = f.records[i].ScatterPosition
		f.alpha[i] = 1
	}
	return f
}

// Ease maps linear progress onto the cubic ease-out 1-(1-p)^3.
func Ease(progress float64) float64 {
	p := min(max(progress, 0), 1)
	// gween works in float32, so the result carries about 1e-7 of rounding
	return float64(ease.OutCubic(float32(p), 0, 1, 1))
}

// AttenuatedSize scales a splat size by perspective: size halves when the
// view depth doubles. Points at or behind the eye get no size.
func AttenuatedSize(base, depth float64) float64 {
	if !(depth > 0) {
		return 0
	}
	return base * SizeReference / depth
}

// Update recomputes every needle for the given state.
func (f *ParticleField) Update(st motion.State, elapsed float64) {
	e := Ease(st.Progress)
	calm := 1 - e
	windy := st.Progress < TumbleCutoff
	t := elapsed

	f.ease = e
	for i := range f.records {
		r := &f.records[i]
		pos := r.ScatterPosition.Lerp(r.AssembledPosition, e)

		// breathe along the needle's own direction from the centre
		breath := math.Sin(2*t+10*r.Phase) * breathAmplitude * calm
		pos = pos.Add(pos.Normalize().Scale(breath))

		if windy {
			pos.Y += math.Sin(t+100*r.Phase) * windLift * calm
			pos.X += math.Cos(0.5*t+50*r.Phase) * windDrift * calm
		}

		f.positions[i] = pos
		f.alpha[i] = 0.6 + 0.4*math.Sin(3*t+20*r.Phase)
	}
}

// Len returns the number of needles.
func (f *ParticleField) Len() int { return len(f.records) }

// Record returns a copy of needle i's fixed description.
func (f *ParticleField) Record(i int) Record { return f.records[i] }

// Positions returns the positions written by the last Update. The slice is
// reused; callers must not keep or modify it.
func (f *ParticleField) Positions() []math3d.Vec3 { return f.positions }

// Alpha returns needle i's opacity for the current frame.
func (f *ParticleField) Alpha(i int) float64 { return f.alpha[i] }

// CurrentEase returns the eased fraction used by the last Update.
func (f *ParticleField) CurrentEase() float64 { return f.ease }
