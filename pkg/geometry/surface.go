package geometry

import (
	"math"

	"github.com/taigrr/tannenbaum/pkg/math3d"
)

// SurfaceInset pulls surface placements slightly inside the cone so flat
// elements sit among the foliage rather than floating on it.
const SurfaceInset = 0.9

// SpiralOutset pushes spiral placements slightly outside the foliage.
const SpiralOutset = 1.05

// SpiralLookahead is the parameter step used to find the spiral tangent.
const SpiralLookahead = 0.01

// TreeSurface places an element near the lateral surface of the cone.
// normalizedHeight 0 is the base and 1 the apex. The returned orientation
// turns the element's +Z axis away from the trunk.
func TreeSurface(height, maxRadius, normalizedHeight, angle float64) (math3d.Vec3, math3d.Quat) {
	height, maxRadius = nonNeg(height), nonNeg(maxRadius)
	nh := clamp01(normalizedHeight)

	y := (nh - 0.5) * height
	r := maxRadius * (1 - nh) * SurfaceInset
	sin, cos := math.Sincos(angle)
	pos := math3d.V3(r*cos, y, r*sin)

	// face the trunk, then turn around
	towardAxis := math3d.V3(0, y, 0).Sub(pos)
	rot := math3d.QuatLookRotation(towardAxis, math3d.Up()).
		Mul(math3d.QuatAxisAngle(math3d.Up(), math.Pi))

	return pos, rot
}

// SpiralPath places an element on a helix wound around the cone, from the
// apex (t=0) to the base (t=1). The orientation points the element's +Z axis
// along the path towards the base.
func SpiralPath(height, maxRadius, t, loops, angleOffset float64) (math3d.Vec3, math3d.Quat) {
	height, maxRadius = nonNeg(height), nonNeg(maxRadius)
	t = clamp01(t)

	pos := spiralPoint(height, maxRadius, t, loops, angleOffset)

	if t+SpiralLookahead <= 1 {
		next := spiralPoint(height, maxRadius, t+SpiralLookahead, loops, angleOffset)
		return pos, math3d.QuatLookRotation(next.Sub(pos), math3d.Up())
	}

	// past the end of the path: look back and reverse
	prev := spiralPoint(height, maxRadius, t-SpiralLookahead, loops, angleOffset)
	return pos, math3d.QuatLookRotation(pos.Sub(prev), math3d.Up())
}

func spiralPoint(height, maxRadius, t, loops, angleOffset float64) math3d.Vec3 {
	y := (0.5 - t) * height
	r := maxRadius * t * SpiralOutset
	sin, cos := math.Sincos(t*2*math.Pi*loops + angleOffset)
	return math3d.V3(r*cos, y, r*sin)
}
