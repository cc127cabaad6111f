package render

import (
	"math"

	"github.com/taigrr/tannenbaum/pkg/math3d"
)

// Vertex represents a vertex with all attributes needed for rasterization.
type Vertex struct {
	Position math3d.Vec3 // World position
	Normal   math3d.Vec3 // Normal vector (for lighting)
	UV       math3d.Vec2 // Texture coordinates
	Color    Color       // Lit vertex color
}

// Triangle represents a triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// MeshRenderer is the mesh surface the rasterizer draws. It lets the
// rasterizer draw meshes without importing the models package.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer extends MeshRenderer with bounding box support for
// frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// Rasterizer handles software triangle and point rasterization.
//
// Front faces wind clockwise as seen by the camera (screen Y points down).
type Rasterizer struct {
	camera       *Camera
	fb           *Framebuffer
	zbuffer      []float64 // Depth buffer (1D array, row-major)
	frustum      Frustum   // Cached frustum planes
	frustumDirty bool      // Whether frustum needs recalculation

	Lights                 *Lighting
	CullingStats           CullingStats // Statistics for debugging/benchmarking
	DisableBackfaceCulling bool         // If true, render both sides of triangles
}

// CullingStats tracks frustum culling performance.
type CullingStats struct {
	MeshesTested int // Total meshes tested for culling
	MeshesCulled int // Meshes culled (not rendered)
	MeshesDrawn  int // Meshes that passed culling
}

// NewRasterizer creates a rasterizer drawing into fb with the default lights.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:       camera,
		fb:           fb,
		frustumDirty: true,
		Lights:       DefaultLighting(),
	}
	r.Resize()
	return r
}

// Resize matches the depth buffer to the framebuffer. Call it after the
// framebuffer has been resized.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	n := r.fb.Width * r.fb.Height
	if cap(r.zbuffer) < n {
		r.zbuffer = make([]float64, n)
	}
	r.zbuffer = r.zbuffer[:n]
	r.frustumDirty = true
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// InvalidateFrustum marks the frustum as needing recalculation.
// Call this when the camera moves.
func (r *Rasterizer) InvalidateFrustum() {
	r.frustumDirty = true
}

// Frustum returns the current frustum (updating if needed).
func (r *Rasterizer) Frustum() Frustum {
	if r.frustumDirty {
		r.frustum = r.camera.Frustum()
		r.frustumDirty = false
	}
	return r.frustum
}

// ResetCullingStats resets the culling statistics (call once per frame).
func (r *Rasterizer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

// IsSphereVisible tests a world-space bounding sphere against the frustum.
func (r *Rasterizer) IsSphereVisible(center math3d.Vec3, radius float64) bool {
	return r.Frustum().IntersectsSphere(center, radius)
}

// tryFrustumCull reports whether the transformed bounds of mesh lie outside
// the frustum. Meshes without bounds are never culled.
func (r *Rasterizer) tryFrustumCull(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}

	r.CullingStats.MeshesTested++

	lo, hi := bounded.GetBounds()
	box := AABB{Min: lo, Max: hi}
	center := transform.MulVec3(box.Center())
	if !r.IsSphereVisible(center, box.Radius()*maxAxisScale(transform)) {
		r.CullingStats.MeshesCulled++
		return true
	}

	r.CullingStats.MeshesDrawn++
	return false
}

func maxAxisScale(m math3d.Mat4) float64 {
	sx := math3d.V3(m[0], m[1], m[2]).LenSq()
	sy := math3d.V3(m[4], m[5], m[6]).LenSq()
	sz := math3d.V3(m[8], m[9], m[10]).LenSq()
	return math.Sqrt(max(sx, sy, sz))
}

// DrawMesh renders a mesh with per-vertex lighting. It returns false when the
// mesh was culled.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, mat Material) bool {
	return r.drawMesh(mesh, transform, nil, mat)
}

// DrawMeshTextured renders a mesh with texture mapping modulated by
// per-vertex lighting of mat. It returns false when the mesh was culled.
func (r *Rasterizer) DrawMeshTextured(mesh MeshRenderer, transform math3d.Mat4, tex *Texture, mat Material) bool {
	if tex == nil {
		return r.DrawMesh(mesh, transform, mat)
	}
	return r.drawMesh(mesh, transform, tex, mat)
}

func (r *Rasterizer) drawMesh(mesh MeshRenderer, transform math3d.Mat4, tex *Texture, mat Material) bool {
	if r.tryFrustumCull(mesh, transform) {
		return false
	}

	lights := r.Lights
	if lights == nil {
		lights = &Lighting{Ambient: 1}
	}
	eye := r.camera.Position()

	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)

		var tri Triangle
		for k := range 3 {
			p, n, uv := mesh.GetVertex(face[k])
			wp := transform.MulVec3(p)
			wn := transform.MulVec3Dir(n).Normalize()
			tri.V[k] = Vertex{
				Position: wp,
				Normal:   wn,
				UV:       uv,
				Color:    lights.Shade(wp, wn, eye, mat),
			}
		}
		r.DrawTriangle(tri, tex)
	}
	return true
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y float64 // Screen coordinates
	Z    float64 // Depth (for Z-buffer)
	InvW float64 // 1/W (for perspective-correct interpolation)
	R    float64
	G    float64
	B    float64
	UV   math3d.Vec2
}

// edgeCoeffs returns A, B, C for edge(x,y) = A*x + B*y + C, positive to the
// left of the edge from (x0,y0) to (x1,y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1 // dy
	B = x1 - x0 // -dx
	C = x0*y1 - x1*y0
	return
}

// DrawTriangle rasterizes a triangle with interpolated vertex colors using
// incremental edge functions. When tex is not nil the texture is sampled with
// perspective-correct UVs and modulated by the vertex colors. Triangles with a
// vertex behind the camera are skipped.
func (r *Rasterizer) DrawTriangle(tri Triangle, tex *Texture) {
	width, height := r.Width(), r.Height()
	if width == 0 || height == 0 {
		return
	}

	viewProj := r.camera.ViewProjectionMatrix()
	var sv [3]screenVertex
	for i := range 3 {
		clip := viewProj.MulVec4(math3d.Point4(tri.V[i].Position))
		if clip.W <= 0 {
			return
		}
		invW := 1 / clip.W
		c := tri.V[i].Color
		sv[i] = screenVertex{
			X:    (clip.X*invW + 1) * 0.5 * float64(width),
			Y:    (1 - clip.Y*invW) * 0.5 * float64(height),
			Z:    clip.Z * invW,
			InvW: invW,
			R:    float64(c.R),
			G:    float64(c.G),
			B:    float64(c.B),
			UV:   tri.V[i].UV,
		}
	}

	// Backface culling
	cross := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if cross < 0 {
		if !r.DisableBackfaceCulling {
			return
		}
		sv[1], sv[2] = sv[2], sv[1]
		cross = -cross
	}
	if cross == 0 {
		return
	}

	// Bounding box (clamped to screen)
	minX := max(0, int(math.Floor(min(sv[0].X, sv[1].X, sv[2].X))))
	maxX := min(width-1, int(math.Ceil(max(sv[0].X, sv[1].X, sv[2].X))))
	minY := max(0, int(math.Floor(min(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := min(height-1, int(math.Ceil(max(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	A0, B0, C0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	A1, B1, C1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	A2, B2, C2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)
	invArea := 1 / cross

	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := A0*px + B0*py + C0
	w1Row := A1*px + B1*py + C1
	w2Row := A2*px + B2*py + C2

	zbuffer := r.zbuffer
	pixels := r.fb.Pixels

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		rowOffset := y * width

		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				bc0 := w0 * invArea
				bc1 := w1 * invArea
				bc2 := w2 * invArea

				z := bc0*sv[0].Z + bc1*sv[1].Z + bc2*sv[2].Z
				idx := rowOffset + x
				if z < zbuffer[idx] {
					// Perspective-correct weights
					pw0 := bc0 * sv[0].InvW
					pw1 := bc1 * sv[1].InvW
					pw2 := bc2 * sv[2].InvW
					norm := 1 / (pw0 + pw1 + pw2)
					pw0, pw1, pw2 = pw0*norm, pw1*norm, pw2*norm

					cr := pw0*sv[0].R + pw1*sv[1].R + pw2*sv[2].R
					cg := pw0*sv[0].G + pw1*sv[1].G + pw2*sv[2].G
					cb := pw0*sv[0].B + pw1*sv[1].B + pw2*sv[2].B

					if tex != nil {
						u := pw0*sv[0].UV.X + pw1*sv[1].UV.X + pw2*sv[2].UV.X
						v := pw0*sv[0].UV.Y + pw1*sv[1].UV.Y + pw2*sv[2].UV.Y
						texel := tex.Sample(u, v)
						cr = cr * float64(texel.R) / 255
						cg = cg * float64(texel.G) / 255
						cb = cb * float64(texel.B) / 255
					}

					zbuffer[idx] = z
					pixels[idx] = Color{R: uint8(cr + 0.5), G: uint8(cg + 0.5), B: uint8(cb + 0.5), A: 255}
				}
			}

			w0 += A0
			w1 += A1
			w2 += A2
		}

		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
}

// DrawPoint draws a round splat centred on pos with the given diameter in
// pixels. The color runs from inner at the centre to outer at the rim and is
// blended additively with weight alpha. Splats are depth-tested but never
// write depth. Splats smaller than a pixel cover one pixel with their alpha
// scaled by the covered area.
func (r *Rasterizer) DrawPoint(pos math3d.Vec3, diameter float64, inner, outer Color, alpha float64) {
	if alpha <= 0 || !(diameter > 0) {
		return
	}
	sx, sy, z, ok := r.camera.WorldToScreen(pos, r.Width(), r.Height())
	if !ok {
		return
	}

	if diameter <= 1 {
		x, y := int(sx), int(sy)
		if x >= r.Width() || y >= r.Height() || z >= r.zbuffer[y*r.Width()+x] {
			return
		}
		r.fb.AddPixel(x, y, inner, alpha*diameter*diameter)
		return
	}

	radius := diameter / 2
	minX := max(0, int(math.Floor(sx-radius)))
	maxX := min(r.Width()-1, int(math.Ceil(sx+radius)))
	minY := max(0, int(math.Floor(sy-radius)))
	maxY := min(r.Height()-1, int(math.Ceil(sy+radius)))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - sx
			dy := float64(y) + 0.5 - sy
			d := math.Sqrt(dx*dx+dy*dy) / radius
			if d > 1 || z >= r.zbuffer[y*r.Width()+x] {
				continue
			}
			r.fb.AddPixel(x, y, lerpColor(inner, outer, d), alpha*(1-d))
		}
	}
}
