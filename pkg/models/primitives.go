package models

import (
	"math"

	"github.com/taigrr/tannenbaum/pkg/math3d"
)

// UVSphere builds a latitude/longitude sphere centred on the origin. The seam
// column is duplicated so texture coordinates wrap cleanly.
func UVSphere(radius float64, segments, rings int) *Mesh {
	segments = max(segments, 3)
	rings = max(rings, 2)

	m := NewMesh("sphere")
	m.Vertices = make([]MeshVertex, 0, (rings+1)*(segments+1))
	for i := 0; i <= rings; i++ {
		theta := float64(i) / float64(rings) * math.Pi
		sinT, cosT := math.Sincos(theta)
		for j := 0; j <= segments; j++ {
			phi := float64(j) / float64(segments) * 2 * math.Pi
			sinP, cosP := math.Sincos(phi)
			n := math3d.V3(sinT*cosP, cosT, sinT*sinP)
			uv := math3d.V2(float64(j)/float64(segments), 1-float64(i)/float64(rings))
			m.addVertex(n.Scale(radius), n, uv)
		}
	}

	stride := segments + 1
	for i := range rings {
		for j := range segments {
			a := i*stride + j
			b := a + stride
			c := b + 1
			d := a + 1
			if i > 0 {
				m.addTriangle(a, d, b)
			}
			if i < rings-1 {
				m.addTriangle(d, c, b)
			}
		}
	}

	m.CalculateBounds()
	return m
}

type boxFace struct {
	n, u, v math3d.Vec3
}

// u x v = n, so corners walked -u-v, +u-v, +u+v, -u+v are counter-clockwise
// seen from outside.
var boxFaces = [6]boxFace{
	{math3d.V3(1, 0, 0), math3d.V3(0, 0, -1), math3d.V3(0, 1, 0)},
	{math3d.V3(-1, 0, 0), math3d.V3(0, 0, 1), math3d.V3(0, 1, 0)},
	{math3d.V3(0, 1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, -1)},
	{math3d.V3(0, -1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, 1)},
	{math3d.V3(0, 0, 1), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
	{math3d.V3(0, 0, -1), math3d.V3(-1, 0, 0), math3d.V3(0, 1, 0)},
}

// Box builds an axis-aligned box with the given dimensions centred on offset.
// Each face has its own vertices so normals stay flat.
func Box(size, offset math3d.Vec3) *Mesh {
	half := size.Scale(0.5)

	m := NewMesh("box")
	m.Vertices = make([]MeshVertex, 0, 24)
	m.Faces = make([]Face, 0, 12)
	for _, f := range boxFaces {
		centre := offset.Add(f.n.Mul(half))
		u := f.u.Mul(half)
		v := f.v.Mul(half)

		base := m.addVertex(centre.Sub(u).Sub(v), f.n, math3d.V2(0, 0))
		m.addVertex(centre.Add(u).Sub(v), f.n, math3d.V2(1, 0))
		m.addVertex(centre.Add(u).Add(v), f.n, math3d.V2(1, 1))
		m.addVertex(centre.Sub(u).Add(v), f.n, math3d.V2(0, 1))

		m.addTriangle(base, base+1, base+2)
		m.addTriangle(base, base+2, base+3)
	}

	m.CalculateBounds()
	return m
}

// Quad builds a w by h rectangle in the XY plane facing +Z, with texture
// coordinates spanning the whole image.
func Quad(w, h float64) *Mesh {
	hw, hh := w/2, h/2
	n := math3d.V3(0, 0, 1)

	m := NewMesh("quad")
	m.addVertex(math3d.V3(-hw, -hh, 0), n, math3d.V2(0, 0))
	m.addVertex(math3d.V3(hw, -hh, 0), n, math3d.V2(1, 0))
	m.addVertex(math3d.V3(hw, hh, 0), n, math3d.V2(1, 1))
	m.addVertex(math3d.V3(-hw, hh, 0), n, math3d.V2(0, 1))
	m.addTriangle(0, 1, 2)
	m.addTriangle(0, 2, 3)

	m.CalculateBounds()
	return m
}
