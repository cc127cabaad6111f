package render

import (
	"math"

	"github.com/taigrr/tannenbaum/pkg/math3d"
)

// Material describes how a surface responds to light.
type Material struct {
	Color    Color
	Emissive Color

	// Metalness in [0, 1] tints highlights with Color and dims diffuse light.
	Metalness float64

	// Roughness in [0, 1] widens the highlight.
	Roughness float64
}

// PointLight is an omnidirectional light without distance falloff.
type PointLight struct {
	Position  math3d.Vec3
	Color     Color
	Intensity float64
}

// Lighting is the static light rig of a scene.
type Lighting struct {
	Ambient float64
	Points  []PointLight
}

// DefaultLighting returns a warm key light, a cool fill light and a dim
// ambient term.
func DefaultLighting() *Lighting {
	return &Lighting{
		Ambient: 0.2,
		Points: []PointLight{
			{Position: math3d.V3(10, 10, 10), Color: RGB(0xff, 0xee, 0xbb), Intensity: 1},
			{Position: math3d.V3(-10, 5, -10), Color: RGB(0xcc, 0xff, 0xcc), Intensity: 0.5},
		},
	}
}

// Shade returns the color of a surface point at pos with unit normal seen
// from eye.
func (l *Lighting) Shade(pos, normal, eye math3d.Vec3, m Material) Color {
	base := [3]float64{float64(m.Color.R) / 255, float64(m.Color.G) / 255, float64(m.Color.B) / 255}
	var out [3]float64
	for i := range out {
		out[i] = l.Ambient * base[i]
	}

	metal := math.Max(0, math.Min(1, m.Metalness))
	diffuseWeight := 1 - 0.6*metal
	shininess := 4 + (1-math.Max(0, math.Min(1, m.Roughness)))*60
	view := eye.Sub(pos).Normalize()

	for _, p := range l.Points {
		dir := p.Position.Sub(pos).Normalize()
		ndl := normal.Dot(dir)
		if ndl <= 0 {
			continue
		}
		light := [3]float64{
			float64(p.Color.R) / 255 * p.Intensity,
			float64(p.Color.G) / 255 * p.Intensity,
			float64(p.Color.B) / 255 * p.Intensity,
		}

		spec := 0.0
		if h := dir.Add(view).Normalize(); h.LenSq() > 0 {
			spec = math.Pow(math.Max(0, normal.Dot(h)), shininess) * (0.04 + 0.96*metal)
		}
		for i := range out {
			tint := 1 + (base[i]-1)*metal
			out[i] += light[i] * (base[i]*ndl*diffuseWeight + spec*tint)
		}
	}

	return Color{
		R: toChannel(out[0] + float64(m.Emissive.R)/255),
		G: toChannel(out[1] + float64(m.Emissive.G)/255),
		B: toChannel(out[2] + float64(m.Emissive.B)/255),
		A: 255,
	}
}

func toChannel(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
