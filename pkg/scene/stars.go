package scene

import (
	"math"

	"github.com/taigrr/tannenbaum/pkg/geometry"
	"github.com/taigrr/tannenbaum/pkg/math3d"
	"github.com/taigrr/tannenbaum/pkg/render"
)

// Starfield is a fixed shell of twinkling points far behind the tree. It is
// not part of the tree group and does not rotate with it.
type Starfield struct {
	positions []math3d.Vec3
	phase     []float64
	size      []float64
}

// starDepth is the thickness of the shell as a fraction of its radius.
const starDepth = 0.5

// NewStarfield scatters n stars between radius and 1.5 × radius.
func NewStarfield(s *geometry.Sampler, n int, radius float64) *Starfield {
	n = max(n, 0)
	sf := &Starfield{
		positions: make([]math3d.Vec3, n),
		phase:     make([]float64, n),
		size:      make([]float64, n),
	}
	for i := range n {
		// uniform direction on the unit sphere
		z := 2*s.Float64() - 1
		ring := math.Sqrt(1 - z*z)
		sin, cos := math.Sincos(s.Angle())
		dir := math3d.V3(ring*cos, z, ring*sin)

		sf.positions[i] = dir.Scale(radius * (1 + starDepth*s.Float64()))
		sf.phase[i] = s.Angle()
		sf.size[i] = s.Range(0.4, 1)
	}
	return sf
}

// Len returns the number of stars.
func (sf *Starfield) Len() int { return len(sf.positions) }

// Brightness returns star i's opacity at time t.
func (sf *Starfield) Brightness(i int, t float64) float64 {
	return 0.55 + 0.45*math.Sin(t+sf.phase[i])
}

// Draw splats every star.
func (sf *Starfield) Draw(r *render.Rasterizer, t float64) {
	white := render.RGB(255, 255, 255)
	for i, p := range sf.positions {
		r.DrawPoint(p, sf.size[i], white, white, sf.Brightness(i, t))
	}
}
