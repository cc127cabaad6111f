package geometry

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/tannenbaum/pkg/math3d"
)

func TestScatterSphereUniformVolume(t *testing.T) {
	const (
		n      = 20000
		radius = 15.0
	)
	s := NewSeeded(1)

	cubes := make([]float64, n)
	for i := range cubes {
		p := s.ScatterSphere(radius)
		l := p.Len()
		require.LessOrEqual(t, l, radius+1e-9, "sample %d outside the ball", i)
		cubes[i] = l * l * l / (radius * radius * radius)
	}

	// Kolmogorov-Smirnov against U(0,1); 1.95/sqrt(n) is the 0.1% critical value.
	sort.Float64s(cubes)
	var d float64
	for i, c := range cubes {
		d = math.Max(d, math.Max(float64(i+1)/n-c, c-float64(i)/n))
	}
	assert.Less(t, d, 1.95/math.Sqrt(n), "‖p‖³ is not uniform over [0, r³]")
}

func TestScatterSphereNoPoleClustering(t *testing.T) {
	const n = 20000
	s := NewSeeded(2)

	// a uniform direction has z/|p| uniform on [-1, 1]; check the polar caps
	var caps int
	for range n {
		p := s.ScatterSphere(1)
		if math.Abs(p.Z/p.Len()) > 0.9 {
			caps++
		}
	}
	assert.InDelta(t, 0.1, float64(caps)/n, 0.015)
}

func TestAssembledVolumeInsideCone(t *testing.T) {
	tests := []struct {
		name      string
		height    float64
		maxRadius float64
	}{
		{"default tree", 12, 4.5},
		{"ornament inset", 12, 4.5 * 0.9},
		{"squat", 1, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSeeded(3)
			for range 10000 {
				p := s.AssembledVolume(tc.height, tc.maxRadius)
				require.LessOrEqual(t, math.Abs(p.Y), tc.height/2+1e-9)

				bound := tc.maxRadius * (0.5 - p.Y/tc.height)
				radial := math.Hypot(p.X, p.Z)
				require.LessOrEqual(t, radial, bound+1e-9, "point %v escapes the cone", p)
			}
		})
	}
}

func TestSamplersAreTotal(t *testing.T) {
	s := NewSeeded(4)
	for _, v := range []float64{0, -1, math.NaN()} {
		assert.Equal(t, math3d.Vec3{}, s.ScatterSphere(v))
		assert.Equal(t, math3d.Vec3{}, s.AssembledVolume(v, v))

		pos, rot := TreeSurface(v, v, 0.5, 1)
		assert.Equal(t, math3d.Vec3{}, pos)
		assert.InDelta(t, 1, rot.Len(), 1e-9)

		pos, rot = SpiralPath(v, v, 0.5, 3, 0)
		assert.Equal(t, math3d.Vec3{}, pos)
		assert.InDelta(t, 1, rot.Len(), 1e-9)
	}

	// zero radius keeps the height
	p := s.AssembledVolume(12, 0)
	assert.Zero(t, p.X)
	assert.Zero(t, p.Z)
}

func TestSeededSamplersRepeat(t *testing.T) {
	a, b := NewSeeded(42), NewSeeded(42)
	for range 100 {
		assert.Equal(t, a.ScatterSphere(15), b.ScatterSphere(15))
		assert.Equal(t, a.AssembledVolume(12, 4.5), b.AssembledVolume(12, 4.5))
	}

	c := NewSeeded(43)
	assert.NotEqual(t, NewSeeded(42).ScatterSphere(15), c.ScatterSphere(15))
}

func TestSamplerHelpers(t *testing.T) {
	s := NewSessionSampler()
	for range 1000 {
		v := s.Range(0.1, 0.25)
		assert.GreaterOrEqual(t, v, 0.1)
		assert.Less(t, v, 0.25)

		a := s.Angle()
		assert.GreaterOrEqual(t, a, 0.0)
		assert.Less(t, a, 2*math.Pi)

		i := s.IntN(4)
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 4)
	}
	assert.Zero(t, s.IntN(0))
}

func BenchmarkScatterSphere(b *testing.B) {
	s := NewSeeded(1)
	for b.Loop() {
		_ = s.ScatterSphere(15)
	}
}

func BenchmarkAssembledVolume(b *testing.B) {
	s := NewSeeded(1)
	for b.Loop() {
		_ = s.AssembledVolume(12, 4.5)
	}
}
