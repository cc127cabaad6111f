// Package geometry places scene elements in the two canonical layouts: the
// scattered cloud (a ball) and the assembled tree (an upright cone with its
// apex at +Y).
//
// Every function here is total. Zero, negative or NaN dimensions collapse the
// result towards the origin instead of failing.
package geometry

import (
	"math"
	"math/rand/v2"

	"github.com/taigrr/tannenbaum/pkg/math3d"
)

// Tree describes the assembled cone and the scatter ball around it.
type Tree struct {
	Height        float64
	BaseRadius    float64
	ScatterRadius float64
}

// DefaultTree returns the standard proportions: a 12 unit tall tree with a
// 4.5 unit base inside a 15 unit scatter ball.
func DefaultTree() Tree {
	return Tree{
		Height:        12,
		BaseRadius:    4.5,
		ScatterRadius: 15,
	}
}

// Sampler draws random layout positions. It is not safe for concurrent use;
// layouts are built once at scene construction.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler wraps an existing random source.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// NewSeeded returns a sampler whose sequence is fully determined by seed.
func NewSeeded(seed uint64) *Sampler {
	return NewSampler(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewSessionSampler returns a sampler seeded from the runtime, so every
// session gets a different layout.
func NewSessionSampler() *Sampler {
	return NewSampler(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// Float64 returns a uniform value in [0, 1).
func (s *Sampler) Float64() float64 {
	return s.rng.Float64()
}

// Range returns a uniform value in [lo, hi).
func (s *Sampler) Range(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Angle returns a uniform angle in [0, 2π).
func (s *Sampler) Angle() float64 {
	return s.rng.Float64() * 2 * math.Pi
}

// IntN returns a uniform index in [0, n). n <= 0 yields 0.
func (s *Sampler) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.IntN(n)
}

// ScatterSphere returns a point uniformly distributed through the volume of a
// ball of the given radius centred on the origin.
func (s *Sampler) ScatterSphere(radius float64) math3d.Vec3 {
	if !(radius > 0) {
		return math3d.Vec3{}
	}

	theta := 2 * math.Pi * s.rng.Float64()
	// acos keeps the polar angle from clustering at the poles
	phi := math.Acos(2*s.rng.Float64() - 1)
	r := math.Cbrt(s.rng.Float64()) * radius

	sinPhi, cosPhi := math.Sincos(phi)
	sinTheta, cosTheta := math.Sincos(theta)
	return math3d.V3(
		r*sinPhi*cosTheta,
		r*sinPhi*sinTheta,
		r*cosPhi,
	)
}

// AssembledVolume returns a point inside the cone of the given height and
// base radius. The height is uniform over [-height/2, height/2]; the radial
// distance is area-uniform within the disc bounded by the cone at that height.
func (s *Sampler) AssembledVolume(height, maxRadius float64) math3d.Vec3 {
	height, maxRadius = nonNeg(height), nonNeg(maxRadius)

	u := s.rng.Float64()
	y := (u - 0.5) * height
	// 0.5 - y/height, written so that a zero height is still defined
	bound := maxRadius * (1 - u)

	r := math.Sqrt(s.rng.Float64()) * bound
	sin, cos := math.Sincos(s.Angle())
	return math3d.V3(r*cos, y, r*sin)
}

func nonNeg(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v >= 0:
		return v
	default:
		// negative or NaN
		return 0
	}
}
