package main

import (
	"fmt"
	"log/slog"

	"github.com/taigrr/tannenbaum/pkg/control"
	"github.com/taigrr/tannenbaum/pkg/render"
	"github.com/taigrr/tannenbaum/pkg/scene"
)

const defaultSnapshotFrames = 90

type snapshotOptions struct {
	path          string
	width, height int
	frames        int
	fps           int
	gathered      bool
}

// runSnapshot advances the scene at a fixed step without a terminal and
// writes the last frame as a PNG.
func runSnapshot(composer *scene.Composer, opts snapshotOptions, logger *slog.Logger) error {
	frames := opts.frames
	if frames <= 0 {
		frames = defaultSnapshotFrames
	}
	dt := 1 / float64(max(opts.fps, 1))

	fb := render.NewFramebuffer(opts.width, opts.height)
	composer.Resize(fb.Width, fb.Height)
	rasterizer := composer.NewRasterizer(fb)

	sig := control.Signal{Gathered: opts.gathered}
	for range frames {
		composer.Step(dt, sig)
	}
	composer.Draw(rasterizer, fb)

	if err := fb.SavePNG(opts.path); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	logger.Info("snapshot written",
		"path", opts.path,
		"frames", frames,
		"progress", composer.Driver().Progress(),
		"culled", rasterizer.CullingStats.MeshesCulled,
	)
	return nil
}
