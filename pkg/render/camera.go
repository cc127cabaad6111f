package render

import (
	"math"

	"github.com/taigrr/tannenbaum/pkg/math3d"
)

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	position math3d.Vec3
	target   math3d.Vec3
	up       math3d.Vec3

	fov    float64 // vertical, radians
	aspect float64 // width / height
	near   float64
	far    float64

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	viewProjDirty  bool
}

// NewCamera creates a camera at (0, 0, 18) looking at the origin with a 50°
// vertical field of view.
func NewCamera() *Camera {
	return &Camera{
		position:      math3d.V3(0, 0, 18),
		up:            math3d.Up(),
		fov:           50 * math.Pi / 180,
		aspect:        16.0 / 9.0,
		near:          0.1,
		far:           1000,
		viewDirty:     true,
		projDirty:     true,
		viewProjDirty: true,
	}
}

// Position returns the camera position.
func (c *Camera) Position() math3d.Vec3 { return c.position }

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.position = pos
	c.viewDirty, c.viewProjDirty = true, true
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.target = target
	c.viewDirty, c.viewProjDirty = true, true
}

// SetFOV sets the vertical field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.fov = fov
	c.projDirty, c.viewProjDirty = true, true
}

// SetAspectRatio sets the aspect ratio. Non-positive values are ignored.
func (c *Camera) SetAspectRatio(aspect float64) {
	if !(aspect > 0) {
		return
	}
	c.aspect = aspect
	c.projDirty, c.viewProjDirty = true, true
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.position, c.target, c.up)
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.fov, c.aspect, c.near, c.far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewProjDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.viewProjDirty = false
	}
	return c.viewProjMatrix
}

// ViewDepth returns how far p lies in front of the camera along its view
// direction. Points behind the camera give a non-positive depth.
func (c *Camera) ViewDepth(p math3d.Vec3) float64 {
	return -c.ViewMatrix().MulVec3(p).Z
}

// WorldToScreen projects a world point to pixel coordinates on a
// width x height target. depth is the NDC depth used by the z-buffer.
// visible is false for points behind the camera or outside the frustum.
func (c *Camera) WorldToScreen(p math3d.Vec3, width, height int) (x, y, depth float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.Point4(p))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clip.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(width)
	y = (1 - ndc.Y) * 0.5 * float64(height) // Y is flipped
	return x, y, ndc.Z, true
}

// Frustum returns the current view frustum.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}
