// Package scene composes the tree: it owns the progress driver and every
// element population, advances them once per frame and draws them.
package scene

import (
	"image"
	"log/slog"
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/tannenbaum/pkg/assets"
	"github.com/taigrr/tannenbaum/pkg/config"
	"github.com/taigrr/tannenbaum/pkg/control"
	"github.com/taigrr/tannenbaum/pkg/field"
	"github.com/taigrr/tannenbaum/pkg/geometry"
	"github.com/taigrr/tannenbaum/pkg/math3d"
	"github.com/taigrr/tannenbaum/pkg/models"
	"github.com/taigrr/tannenbaum/pkg/motion"
	"github.com/taigrr/tannenbaum/pkg/render"
)

// ReferenceHeight is the framebuffer height at which particle sizes are
// taken literally. Smaller framebuffers shrink the splats in proportion.
const ReferenceHeight = 1000.0

// Body dimensions.
const (
	giftBand      = 1.02
	giftBandWidth = 0.15
	photoWidth    = 0.6
	photoHeight   = 0.78
	photoOffset   = 0.01
)

var (
	frameBorder    = math3d.V3(0.72, 0.9, 0.05)
	frameBorderOff = math3d.V3(0, 0, -0.05)
	ribbonSegment  = math3d.V3(0.15, 0.02, 0.4)
)

// Surface looks.
var (
	goldMetal = render.Material{
		Color:     field.RGBA(field.Gold),
		Emissive:  render.MultiplyColor(field.RGBA(field.Gold), 0.2),
		Metalness: 1,
		Roughness: 0.2,
	}
	frameGold = render.Material{
		Color:     field.RGBA(field.Gold),
		Metalness: 1,
		Roughness: 0.1,
	}
	velvet = render.Material{
		Color:     field.RGBA(field.RedVelvet),
		Emissive:  render.MultiplyColor(field.RGBA(field.RedVelvet), 0.2),
		Metalness: 0.1,
		Roughness: 0.4,
	}
	// unlit shows a texture as it is
	unlit = render.Material{Emissive: render.RGB(255, 255, 255)}
)

// Options configures a Composer.
type Options struct {
	Config config.Config

	// Sampler draws the layout. Nil uses a per-session random source, or
	// Config.Seed when it is set.
	Sampler *geometry.Sampler

	// OrnamentMesh replaces the sphere body of the ornaments.
	OrnamentMesh *models.Mesh

	// Photos are bound to the plaques in order. Nil entries show the
	// placeholder.
	Photos []*image.RGBA

	Logger *slog.Logger
}

// Stats summarizes the scene for the HUD.
type Stats struct {
	State     motion.State
	Particles int
	Ornaments int
	Gifts     int
	Frames    int
	Photos    int
	Ribbons   int
	Stars     int
}

// Composer owns the scene. Step and Draw must be called from one goroutine.
type Composer struct {
	cfg config.Config

	driver    *motion.Driver
	particles *field.ParticleField
	ornaments *field.OrnamentField
	gifts     *field.GiftField
	frames    *field.FrameField
	ribbons   *field.RibbonField
	updaters  []field.Updater
	stars     *Starfield
	elapsed   float64

	camera *render.Camera
	lights *render.Lighting
	post   *render.PostChain

	// PostEnabled runs the post chain after each frame.
	PostEnabled bool

	ornamentMesh *models.Mesh
	giftMeshes   [field.GiftBodies]*models.Mesh
	borderMesh   *models.Mesh
	photoMesh    *models.Mesh
	ribbonMesh   *models.Mesh

	photos      []*render.Texture
	placeholder *render.Texture

	// camera dolly; the spring is rebuilt when the frame step changes
	dolly     harmonica.Spring
	dollyStep float64
	distance  float64
	dollyVel  float64
	dollyGoal float64
}

// New builds the scene. Layout happens here, once; afterwards only the
// driver state and the clock change.
func New(opts Options) *Composer {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := opts.Sampler
	if s == nil {
		if cfg.Seed != 0 {
			s = geometry.NewSeeded(cfg.Seed)
		} else {
			s = geometry.NewSessionSampler()
		}
	}
	tree := cfg.GeometryTree()

	c := &Composer{
		cfg:       cfg,
		driver:    motion.NewDriver(),
		particles: field.NewParticleField(s, tree, cfg.Counts.Particles),
		ornaments: field.NewOrnamentField(s, tree, cfg.Counts.Ornaments),
		gifts:     field.NewGiftField(s, tree, cfg.Counts.Gifts),
		frames:    field.NewFrameField(s, tree),
		stars:     NewStarfield(s, cfg.Render.Stars, cfg.Render.StarRadius),
		camera:    render.NewCamera(),
		lights:    render.DefaultLighting(),
		post:      render.NewPostChain(uint64(s.IntN(math.MaxInt32))),
		distance:  cfg.Camera.Distance,
		dollyGoal: cfg.Camera.Distance,

		PostEnabled: cfg.Render.Post,
	}
	c.driver.ProgressRate = cfg.Motion.ProgressRate
	c.driver.RotationRate = cfg.Motion.RotationRate
	c.driver.MaxStep = cfg.Motion.MaxStep

	c.updaters = []field.Updater{c.particles, c.ornaments, c.gifts, c.frames}
	if cfg.Ribbons.Enabled {
		c.ribbons = field.NewRibbonField(s, tree, cfg.Ribbons.Count, cfg.Ribbons.Segments)
		c.updaters = append(c.updaters, c.ribbons)
	}

	c.post.Bloom = render.Bloom{
		Threshold: cfg.Render.BloomThreshold,
		Intensity: cfg.Render.BloomIntensity,
		Radius:    cfg.Render.BloomRadius,
	}
	c.post.Vignette = render.Vignette{Offset: cfg.Render.VignetteOffset, Darkness: cfg.Render.VignetteDarkness}
	c.post.Grain = render.Grain{Opacity: cfg.Render.GrainOpacity}

	c.camera.SetFOV(cfg.Camera.FOV * math.Pi / 180)
	c.camera.SetPosition(math3d.V3(0, 0, c.distance))
	c.camera.LookAt(math3d.Zero3())
	c.setDollyStep(harmonica.FPS(max(cfg.Render.FPS, 1)))

	c.ornamentMesh = opts.OrnamentMesh
	if c.ornamentMesh == nil {
		c.ornamentMesh = models.UVSphere(1, 12, 8)
	}
	// the box hangs from its top face
	hang := math3d.V3(0, -0.5, 0)
	c.giftMeshes = [field.GiftBodies]*models.Mesh{
		models.Box(math3d.V3(1, 1, 1), hang),
		models.Box(math3d.V3(giftBandWidth, giftBand, giftBand), hang),
		models.Box(math3d.V3(giftBand, giftBand, giftBandWidth), hang),
	}
	c.borderMesh = models.Box(frameBorder, frameBorderOff)
	c.photoMesh = models.Quad(photoWidth, photoHeight)
	c.photoMesh.Transform(math3d.Translate(math3d.V3(0, 0, photoOffset)))
	c.ribbonMesh = models.Box(ribbonSegment, math3d.Zero3())

	c.placeholder = render.TextureFromImage(assets.Placeholder())
	c.bindPhotos(opts.Photos)

	logger.Info("scene composed",
		"particles", c.particles.Len(),
		"ornaments", c.ornaments.Len(),
		"gifts", c.gifts.Len(),
		"photos", c.frames.Bound(),
		"ribbons", c.ribbonCount(),
		"stars", c.stars.Len(),
	)
	return c
}

func (c *Composer) bindPhotos(photos []*image.RGBA) {
	n := c.frames.Bind(len(photos))
	c.photos = make([]*render.Texture, n)
	for i := range n {
		if photos[i] != nil {
			c.photos[i] = render.TextureFromImage(photos[i])
		}
	}
}

func (c *Composer) ribbonCount() int {
	if c.ribbons == nil {
		return 0
	}
	return c.ribbons.Len()
}

// Camera returns the scene camera.
func (c *Composer) Camera() *render.Camera { return c.camera }

// Lights returns the static light rig.
func (c *Composer) Lights() *render.Lighting { return c.lights }

// Driver returns the progress driver.
func (c *Composer) Driver() *motion.Driver { return c.driver }

// Elapsed returns the scene clock in seconds.
func (c *Composer) Elapsed() float64 { return c.elapsed }

// Step advances the scene by dt seconds under the control signal read for
// this frame. The driver moves first; every population then sees the same
// state.
func (c *Composer) Step(dt float64, sig control.Signal) motion.State {
	st := c.driver.Update(dt, sig)

	var step float64
	if dt > 0 {
		step = min(dt, c.driver.MaxStep)
	}
	c.elapsed += step
	for _, u := range c.updaters {
		u.Update(st, c.elapsed)
	}

	if step > 0 {
		c.setDollyStep(step)
		c.distance, c.dollyVel = c.dolly.Update(c.distance, c.dollyVel, c.dollyGoal)
		c.camera.SetPosition(math3d.V3(0, 0, c.distance))
	}
	return st
}

func (c *Composer) setDollyStep(step float64) {
	if step != c.dollyStep {
		c.dolly = harmonica.NewSpring(step, 6.0, 1.0)
		c.dollyStep = step
	}
}

// Zoom moves the dolly target by delta units, within the configured range.
func (c *Composer) Zoom(delta float64) {
	c.dollyGoal = min(max(c.dollyGoal+delta, c.cfg.Camera.MinDistance), c.cfg.Camera.MaxDistance)
}

// Distance returns the current camera distance from the origin.
func (c *Composer) Distance() float64 { return c.distance }

// GroupMatrix is the yaw shared by every population of the tree.
func (c *Composer) GroupMatrix() math3d.Mat4 {
	return math3d.RotateY(c.driver.Rotation())
}

// Stats reports the current state and population sizes.
func (c *Composer) Stats() Stats {
	return Stats{
		State:     c.driver.State(),
		Particles: c.particles.Len(),
		Ornaments: c.ornaments.Len(),
		Gifts:     c.gifts.Len(),
		Frames:    c.frames.Len(),
		Photos:    c.frames.Bound(),
		Ribbons:   c.ribbonCount(),
		Stars:     c.stars.Len(),
	}
}

// Resize matches the camera to a framebuffer of the given size.
func (c *Composer) Resize(width, height int) {
	if width > 0 && height > 0 {
		c.camera.SetAspectRatio(float64(width) / float64(height))
	}
}

// NewRasterizer returns a rasterizer bound to the scene camera and lights.
func (c *Composer) NewRasterizer(fb *render.Framebuffer) *render.Rasterizer {
	r := render.NewRasterizer(c.camera, fb)
	r.Lights = c.lights
	return r
}

// Draw renders one frame into fb. Opaque bodies are drawn first so that the
// additive stars and needles are depth-tested against them.
func (c *Composer) Draw(r *render.Rasterizer, fb *render.Framebuffer) {
	fb.Clear(field.RGBA(field.Background))
	r.ClearDepth()
	r.InvalidateFrustum()
	r.ResetCullingStats()

	group := c.GroupMatrix()
	c.drawOrnaments(r, group)
	c.drawGifts(r, group)
	c.drawFrames(r, group)
	c.drawRibbons(r, group)

	c.stars.Draw(r, c.elapsed)
	c.drawParticles(r, fb, group)

	if c.PostEnabled {
		c.post.Apply(fb)
	}
}

func (c *Composer) drawParticles(r *render.Rasterizer, fb *render.Framebuffer, group math3d.Mat4) {
	inner := field.ParticleGradient[0]
	outer := field.ParticleGradient[len(field.ParticleGradient)-1]
	scale := float64(fb.Height) / ReferenceHeight

	for i, p := range c.particles.Positions() {
		world := group.MulVec3(p)
		size := field.AttenuatedSize(field.ParticleSize, c.camera.ViewDepth(world)) * scale
		r.DrawPoint(world, size, inner, outer, c.particles.Alpha(i))
	}
}

func (c *Composer) drawOrnaments(r *render.Rasterizer, group math3d.Mat4) {
	for i := range c.ornaments.Len() {
		mat := render.Material{Color: c.ornaments.Color(i), Metalness: 0.9, Roughness: 0.2}
		r.DrawMesh(c.ornamentMesh, group.Mul(c.ornaments.Matrix(i)), mat)
	}
}

func (c *Composer) drawGifts(r *render.Rasterizer, group math3d.Mat4) {
	for i := range c.gifts.Len() {
		m := group.Mul(c.gifts.Matrix(i))
		wrap := render.Material{Color: c.gifts.Color(i), Metalness: 0.1, Roughness: 0.3}
		r.DrawMesh(c.giftMeshes[0], m, wrap)
		for _, band := range c.giftMeshes[1:] {
			r.DrawMesh(band, m, goldMetal)
		}
	}
}

func (c *Composer) drawFrames(r *render.Rasterizer, group math3d.Mat4) {
	for i := range c.frames.Len() {
		m := group.Mul(c.frames.Matrix(i))
		r.DrawMesh(c.borderMesh, m, frameGold)
		r.DrawMeshTextured(c.photoMesh, m, c.PhotoTexture(i), unlit)
	}
}

// PhotoTexture returns the texture shown by plaque i: its photo, or the
// placeholder when the slot is unbound or its photo failed to load.
func (c *Composer) PhotoTexture(i int) *render.Texture {
	if idx, ok := c.frames.Slot(i); ok && c.photos[idx] != nil {
		return c.photos[idx]
	}
	return c.placeholder
}

func (c *Composer) drawRibbons(r *render.Rasterizer, group math3d.Mat4) {
	if c.ribbons == nil {
		return
	}
	for i := range c.ribbons.Len() {
		r.DrawMesh(c.ribbonMesh, group.Mul(c.ribbons.Matrix(i)), velvet)
	}
}
