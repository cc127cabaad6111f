package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/tannenbaum/pkg/geometry"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tannenbaum.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, geometry.DefaultTree(), cfg.GeometryTree())
	assert.Equal(t, 8500, cfg.Counts.Particles)
	assert.False(t, cfg.Ribbons.Enabled)
	assert.Zero(t, cfg.Seed)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
seed = 42
photos = ["a.png", "b.jpg"]

[counts]
ornaments = 50

[ribbons]
enabled = true

[render]
fps = 24
post = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, []string{"a.png", "b.jpg"}, cfg.Photos)
	assert.Equal(t, 50, cfg.Counts.Ornaments)
	assert.Equal(t, 8500, cfg.Counts.Particles, "unset keys keep their defaults")
	assert.True(t, cfg.Ribbons.Enabled)
	assert.Equal(t, 100, cfg.Ribbons.Segments)
	assert.Equal(t, 24, cfg.Render.FPS)
	assert.False(t, cfg.Render.Post)
	assert.Equal(t, 1.5, cfg.Render.BloomIntensity)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "[tree]\nheigth = 10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "heigth")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadValidates(t *testing.T) {
	_, err := Load(writeConfig(t, "[motion]\nprogress_rate = -1\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"negative height", func(c *Config) { c.Tree.Height = -1 }, "tree.height"},
		{"negative particles", func(c *Config) { c.Counts.Particles = -5 }, "counts.particles"},
		{"zero rate", func(c *Config) { c.Motion.RotationRate = 0 }, "motion.rotation_rate"},
		{"distance out of range", func(c *Config) { c.Camera.Distance = 100 }, "camera.distance"},
		{"fov too wide", func(c *Config) { c.Camera.FOV = 180 }, "camera.fov"},
		{"zero fps", func(c *Config) { c.Render.FPS = 0 }, "render.fps"},
		{"bloom threshold", func(c *Config) { c.Render.BloomThreshold = 1 }, "render.bloom_threshold"},
		{"grain opacity", func(c *Config) { c.Render.GrainOpacity = 2 }, "render.grain_opacity"},
		{"ribbon segments", func(c *Config) { c.Ribbons.Segments = -1 }, "ribbons.segments"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Tree.Height = -1
	cfg.Counts.Gifts = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tree.height")
	assert.Contains(t, err.Error(), "counts.gifts")
}

func TestZeroSizedTreeIsAllowed(t *testing.T) {
	cfg := Default()
	cfg.Tree = Tree{}
	cfg.Counts = Counts{}
	assert.NoError(t, cfg.Validate())
}
