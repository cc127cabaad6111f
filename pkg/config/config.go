// Package config holds the tunable parameters of the scene, their defaults and
// the TOML file format used to override them.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/taigrr/tannenbaum/pkg/field"
	"github.com/taigrr/tannenbaum/pkg/geometry"
	"github.com/taigrr/tannenbaum/pkg/motion"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the complete set of scene parameters.
type Config struct {
	// Seed fixes the layout when non-zero. Zero draws a new layout each run.
	Seed uint64 `toml:"seed"`

	// Photos are hung on the plaques in order.
	Photos []string `toml:"photos"`

	// OrnamentMesh replaces the ornament sphere with a glTF body.
	OrnamentMesh string `toml:"ornament_mesh"`

	// GestureFeed is a file or FIFO of hand landmark frames.
	GestureFeed string `toml:"gesture_feed"`

	Tree    Tree    `toml:"tree"`
	Counts  Counts  `toml:"counts"`
	Motion  Motion  `toml:"motion"`
	Camera  Camera  `toml:"camera"`
	Render  Render  `toml:"render"`
	Ribbons Ribbons `toml:"ribbons"`
}

// Tree is the shape of the assembled tree and the scatter cloud.
type Tree struct {
	Height        float64 `toml:"height"`
	BaseRadius    float64 `toml:"base_radius"`
	ScatterRadius float64 `toml:"scatter_radius"`
}

// Counts sizes the element populations.
type Counts struct {
	Particles int `toml:"particles"`
	Ornaments int `toml:"ornaments"`
	Gifts     int `toml:"gifts"`
}

// Motion tunes the progress driver.
type Motion struct {
	ProgressRate float64 `toml:"progress_rate"`
	RotationRate float64 `toml:"rotation_rate"`
	MaxStep      float64 `toml:"max_step"`
}

// Camera places the viewer. FOV is in degrees.
type Camera struct {
	Distance    float64 `toml:"distance"`
	MinDistance float64 `toml:"min_distance"`
	MaxDistance float64 `toml:"max_distance"`
	FOV         float64 `toml:"fov"`
}

// Render controls the frame loop and the post chain.
type Render struct {
	FPS        int     `toml:"fps"`
	Post       bool    `toml:"post"`
	Stars      int     `toml:"stars"`
	StarRadius float64 `toml:"star_radius"`

	BloomThreshold   float64 `toml:"bloom_threshold"`
	BloomIntensity   float64 `toml:"bloom_intensity"`
	BloomRadius      float64 `toml:"bloom_radius"`
	VignetteOffset   float64 `toml:"vignette_offset"`
	VignetteDarkness float64 `toml:"vignette_darkness"`
	GrainOpacity     float64 `toml:"grain_opacity"`
}

// Ribbons configures the optional spiral ribbons.
type Ribbons struct {
	Enabled  bool `toml:"enabled"`
	Count    int  `toml:"count"`
	Segments int  `toml:"segments"`
}

// Default returns the stock scene.
func Default() Config {
	tree := geometry.DefaultTree()
	return Config{
		Tree: Tree{
			Height:        tree.Height,
			BaseRadius:    tree.BaseRadius,
			ScatterRadius: tree.ScatterRadius,
		},
		Counts: Counts{
			Particles: field.DefaultParticles,
			Ornaments: field.DefaultOrnaments,
			Gifts:     field.DefaultGifts,
		},
		Motion: Motion{
			ProgressRate: motion.DefaultProgressRate,
			RotationRate: motion.DefaultRotationRate,
			MaxStep:      motion.DefaultMaxStep,
		},
		Camera: Camera{
			Distance:    18,
			MinDistance: 8,
			MaxDistance: 40,
			FOV:         50,
		},
		Render: Render{
			FPS:              30,
			Post:             true,
			Stars:            5000,
			StarRadius:       100,
			BloomThreshold:   0.8,
			BloomIntensity:   1.5,
			BloomRadius:      0.6,
			VignetteOffset:   0.1,
			VignetteDarkness: 1.1,
			GrainOpacity:     0.05,
		},
		Ribbons: Ribbons{
			Count:    field.DefaultRibbons,
			Segments: field.DefaultRibbonSegments,
		},
	}
}

// Load reads a TOML file over the defaults. Keys the file does not set keep
// their default values; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("decode config %s: %w\n%s", path, err, strict.String())
		}
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate reports every out-of-range value at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(finite(c.Tree.Height) && c.Tree.Height >= 0, "tree.height %v must not be negative", c.Tree.Height)
	check(finite(c.Tree.BaseRadius) && c.Tree.BaseRadius >= 0, "tree.base_radius %v must not be negative", c.Tree.BaseRadius)
	check(finite(c.Tree.ScatterRadius) && c.Tree.ScatterRadius >= 0, "tree.scatter_radius %v must not be negative", c.Tree.ScatterRadius)

	check(c.Counts.Particles >= 0, "counts.particles %d must not be negative", c.Counts.Particles)
	check(c.Counts.Ornaments >= 0, "counts.ornaments %d must not be negative", c.Counts.Ornaments)
	check(c.Counts.Gifts >= 0, "counts.gifts %d must not be negative", c.Counts.Gifts)

	check(finite(c.Motion.ProgressRate) && c.Motion.ProgressRate > 0, "motion.progress_rate %v must be positive", c.Motion.ProgressRate)
	check(finite(c.Motion.RotationRate) && c.Motion.RotationRate > 0, "motion.rotation_rate %v must be positive", c.Motion.RotationRate)
	check(finite(c.Motion.MaxStep) && c.Motion.MaxStep > 0, "motion.max_step %v must be positive", c.Motion.MaxStep)

	check(c.Camera.MinDistance > 0 && c.Camera.MinDistance <= c.Camera.MaxDistance,
		"camera.min_distance %v must be positive and at most max_distance %v", c.Camera.MinDistance, c.Camera.MaxDistance)
	check(c.Camera.Distance >= c.Camera.MinDistance && c.Camera.Distance <= c.Camera.MaxDistance,
		"camera.distance %v must lie in [%v, %v]", c.Camera.Distance, c.Camera.MinDistance, c.Camera.MaxDistance)
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov %v must lie in (0, 180)", c.Camera.FOV)

	check(c.Render.FPS > 0 && c.Render.FPS <= 240, "render.fps %d must lie in [1, 240]", c.Render.FPS)
	check(c.Render.Stars >= 0, "render.stars %d must not be negative", c.Render.Stars)
	check(finite(c.Render.StarRadius) && c.Render.StarRadius > 0, "render.star_radius %v must be positive", c.Render.StarRadius)
	check(c.Render.BloomThreshold >= 0 && c.Render.BloomThreshold < 1, "render.bloom_threshold %v must lie in [0, 1)", c.Render.BloomThreshold)
	check(c.Render.BloomIntensity >= 0, "render.bloom_intensity %v must not be negative", c.Render.BloomIntensity)
	check(c.Render.BloomRadius >= 0, "render.bloom_radius %v must not be negative", c.Render.BloomRadius)
	check(c.Render.VignetteDarkness >= 0, "render.vignette_darkness %v must not be negative", c.Render.VignetteDarkness)
	check(c.Render.GrainOpacity >= 0 && c.Render.GrainOpacity <= 1, "render.grain_opacity %v must lie in [0, 1]", c.Render.GrainOpacity)

	check(c.Ribbons.Count >= 0, "ribbons.count %d must not be negative", c.Ribbons.Count)
	check(c.Ribbons.Segments >= 0, "ribbons.segments %d must not be negative", c.Ribbons.Segments)

	return errors.Join(errs...)
}

// GeometryTree converts the tree section for the sampler.
func (c Config) GeometryTree() geometry.Tree {
	return geometry.Tree{
		Height:        c.Tree.Height,
		BaseRadius:    c.Tree.BaseRadius,
		ScatterRadius: c.Tree.ScatterRadius,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
