package main

import (
	"context"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/tannenbaum/pkg/config"
	"github.com/taigrr/tannenbaum/pkg/control"
	"github.com/taigrr/tannenbaum/pkg/scene"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"320x180", 320, 180, false},
		{"1x1", 1, 1, false},
		{"0x10", 0, 0, true},
		{"wide", 0, 0, true},
		{"320", 0, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			w, h, err := parseSize(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.w, w)
			assert.Equal(t, tc.h, h)
		})
	}
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte("seed = 5\n[render]\nfps = 20\n"), 0o644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--fps", "50", "--ribbons", "--no-post"}))

	var f flags
	f.configPath = path
	f.fps, _ = cmd.Flags().GetInt("fps")
	f.ribbons, _ = cmd.Flags().GetBool("ribbons")
	f.noPost, _ = cmd.Flags().GetBool("no-post")

	cfg, err := loadConfig(cmd, f)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), cfg.Seed, "file value kept when the flag is absent")
	assert.Equal(t, 50, cfg.Render.FPS)
	assert.True(t, cfg.Ribbons.Enabled)
	assert.False(t, cfg.Render.Post)
}

func TestNewLogger(t *testing.T) {
	logger, closeLog, err := newLogger("", "info")
	require.NoError(t, err)
	logger.Info("dropped")
	require.NoError(t, closeLog())

	path := filepath.Join(t.TempDir(), "run.log")
	logger, closeLog, err = newLogger(path, "debug")
	require.NoError(t, err)
	logger.Debug("frame", "n", 1)
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=frame")

	_, _, err = newLogger("", "loud")
	assert.Error(t, err)
}

func smallScene(t *testing.T) *scene.Composer {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 3
	cfg.Counts = config.Counts{Particles: 200, Ornaments: 10, Gifts: 3}
	cfg.Render.Stars = 20
	c, err := buildScene(cfg, discard())
	require.NoError(t, err)
	return c
}

func TestRunSnapshot(t *testing.T) {
	c := smallScene(t)
	path := filepath.Join(t.TempDir(), "tree.png")

	err := runSnapshot(c, snapshotOptions{path: path, width: 64, height: 40, frames: 30, fps: 30, gathered: true}, discard())
	require.NoError(t, err)
	assert.Greater(t, c.Driver().Progress(), 0.5)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())
}

func TestBuildSceneMissingMesh(t *testing.T) {
	cfg := config.Default()
	cfg.OrnamentMesh = filepath.Join(t.TempDir(), "missing.glb")
	_, err := buildScene(cfg, discard())
	assert.ErrorContains(t, err, "ornament mesh")
}

func TestGestureFeedFallsBackToPointer(t *testing.T) {
	arb := control.NewArbiter(&control.Cell{})

	path := filepath.Join(t.TempDir(), "hand.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("not json\n", 3)), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, runGestureFeed(ctx, path, arb, discard()))
	assert.Equal(t, control.SourcePointer, arb.Active())

	assert.NoError(t, runGestureFeed(ctx, filepath.Join(t.TempDir(), "none"), arb, discard()))
}

func TestHUDStatus(t *testing.T) {
	h := NewHUD()
	st := scene.Stats{Particles: 8500, Ornaments: 400, Gifts: 35, Frames: 10, Photos: 3}
	st.State.Progress = 0.5

	line := h.Status(st, control.SourceGesture, 18)
	for _, want := range []string{"50%", "gesture", "8500", "3/10", "18.0"} {
		assert.Contains(t, line, want)
	}
	assert.NotContains(t, line, "ribbons")
	assert.Contains(t, h.Hint(), "space")
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }
