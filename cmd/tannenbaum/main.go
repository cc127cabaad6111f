// tannenbaum - a holiday tree in the terminal.
// Thousands of needles, baubles, gifts and photo plaques drift in a loose
// cloud and fly together into a tree while the mouse button is held.
//
// Controls:
//
//	Mouse X      - Turn the tree
//	Mouse button - Hold to assemble, release to scatter
//	Space        - Toggle assembled/scattered
//	Scroll, +/-  - Dolly the camera
//	P            - Toggle post processing
//	?            - Toggle HUD overlay
//	Q, Esc       - Quit
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/tannenbaum/pkg/assets"
	"github.com/taigrr/tannenbaum/pkg/config"
	"github.com/taigrr/tannenbaum/pkg/models"
	"github.com/taigrr/tannenbaum/pkg/scene"
)

var version = "dev"

// flags holds the command line. Values only override the config file when
// the flag was given.
type flags struct {
	configPath   string
	fps          int
	photos       []string
	gestureFeed  string
	ornamentMesh string
	seed         uint64
	ribbons      bool
	noPost       bool
	logFile      string
	logLevel     string
	frames       int
	snapshot     string
	snapshotSize string
	gathered     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "tannenbaum",
		Short: "A holiday tree that assembles itself in your terminal",
		Long: `tannenbaum renders an interactive holiday tree with a software rasterizer.

Hold the mouse button to pull the scattered cloud into a tree and let go to
blow it apart again. Moving the mouse turns the tree. A hand tracker can take
over both through --gesture-feed.`,
		Example: `  tannenbaum
  tannenbaum --photos a.jpg --photos b.png --ribbons
  tannenbaum --snapshot tree.png --frames 120 --gathered`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			logger, closeLog, err := newLogger(f.logFile, f.logLevel)
			if err != nil {
				return err
			}
			defer closeLog()

			composer, err := buildScene(cfg, logger)
			if err != nil {
				return err
			}

			if f.snapshot != "" {
				w, h, err := parseSize(f.snapshotSize)
				if err != nil {
					return err
				}
				return runSnapshot(composer, snapshotOptions{
					path:     f.snapshot,
					width:    w,
					height:   h,
					frames:   f.frames,
					fps:      cfg.Render.FPS,
					gathered: f.gathered,
				}, logger)
			}

			return runTerminal(cmd.Context(), composer, terminalOptions{
				fps:         cfg.Render.FPS,
				frames:      f.frames,
				gestureFeed: cfg.GestureFeed,
			}, logger)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "TOML config file")
	fl.IntVar(&f.fps, "fps", 30, "target frames per second")
	fl.StringArrayVarP(&f.photos, "photos", "p", nil, "photo to hang on the tree (repeatable, up to 10)")
	fl.StringVar(&f.gestureFeed, "gesture-feed", "", "file or FIFO of hand landmark frames (JSON lines)")
	fl.StringVar(&f.ornamentMesh, "ornament-mesh", "", "glTF/GLB body drawn instead of the ornament sphere")
	fl.Uint64Var(&f.seed, "seed", 0, "layout seed (0 draws a new layout)")
	fl.BoolVar(&f.ribbons, "ribbons", false, "wind velvet ribbons around the tree")
	fl.BoolVar(&f.noPost, "no-post", false, "disable bloom, vignette and grain")
	fl.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	fl.StringVar(&f.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fl.IntVar(&f.frames, "frames", 0, "stop after this many frames (snapshot default 90)")
	fl.StringVar(&f.snapshot, "snapshot", "", "render headless and write a PNG to this path")
	fl.StringVar(&f.snapshotSize, "snapshot-size", "320x180", "snapshot size in pixels, WxH")
	fl.BoolVar(&f.gathered, "gathered", false, "assemble the tree in snapshot mode")

	return cmd
}

// loadConfig reads the config file, if any, and applies the flags the user
// set on top of it.
func loadConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return cfg, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("fps") {
		cfg.Render.FPS = f.fps
	}
	if changed("photos") {
		cfg.Photos = f.photos
	}
	if changed("gesture-feed") {
		cfg.GestureFeed = f.gestureFeed
	}
	if changed("ornament-mesh") {
		cfg.OrnamentMesh = f.ornamentMesh
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("ribbons") {
		cfg.Ribbons.Enabled = f.ribbons
	}
	if changed("no-post") {
		cfg.Render.Post = !f.noPost
	}

	return cfg, cfg.Validate()
}

// newLogger returns a text logger writing to path. The terminal belongs to
// the renderer, so without a path logs are dropped.
func newLogger(path, level string) (*slog.Logger, func() error, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	if path == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl}))
	return logger, f.Close, nil
}

// buildScene loads the optional assets and composes the scene.
func buildScene(cfg config.Config, logger *slog.Logger) (*scene.Composer, error) {
	opts := scene.Options{Config: cfg, Logger: logger}

	if cfg.OrnamentMesh != "" {
		mesh, err := models.LoadBody(cfg.OrnamentMesh)
		if err != nil {
			return nil, fmt.Errorf("load ornament mesh: %w", err)
		}
		logger.Info("ornament mesh loaded", "path", cfg.OrnamentMesh, "triangles", mesh.TriangleCount())
		opts.OrnamentMesh = mesh
	}

	if len(cfg.Photos) > 0 {
		opts.Photos = assets.LoadPhotos(cfg.Photos, logger)
	}

	return scene.New(opts), nil
}

func parseSize(s string) (int, int, error) {
	var w, h int
	if n, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil || n != 2 {
		return 0, 0, fmt.Errorf("invalid size %q, want WxH", s)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q, dimensions must be positive", s)
	}
	return w, h, nil
}
