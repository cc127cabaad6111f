package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/tannenbaum/pkg/control"
	"github.com/taigrr/tannenbaum/pkg/render"
	"github.com/taigrr/tannenbaum/pkg/scene"
)

// zoomStep is the dolly distance of one scroll notch or key press.
const zoomStep = 1.0

type terminalOptions struct {
	fps         int
	frames      int
	gestureFeed string
}

// viewer is the state owned by the frame loop. The event goroutine never
// touches it directly; it posts closures that the loop runs between frames.
type viewer struct {
	term       *uv.Terminal
	composer   *scene.Composer
	renderer   *render.TerminalRenderer
	fb         *render.Framebuffer
	rasterizer *render.Rasterizer
	hud        *HUD
	showHUD    bool
}

func (v *viewer) resize(width, height int) {
	v.term.Erase()
	v.term.Resize(width, height)
	v.renderer.Resize(width, height)
	fbWidth, fbHeight := v.renderer.FramebufferSize()
	v.fb.Resize(fbWidth, fbHeight)
	v.rasterizer.Resize()
	v.composer.Resize(fbWidth, fbHeight)
}

func runTerminal(ctx context.Context, composer *scene.Composer, opts terminalOptions, logger *slog.Logger) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	renderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := renderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)
	composer.Resize(fbWidth, fbHeight)

	v := &viewer{
		term:       term,
		composer:   composer,
		renderer:   renderer,
		fb:         fb,
		rasterizer: composer.NewRasterizer(fb),
		hud:        NewHUD(),
	}

	arb := control.NewArbiter(&control.Cell{})
	pointer := control.NewPointer(arb, width)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	cmds := make(chan func(), 64)
	post := func(f func()) {
		select {
		case cmds <- f:
		case <-ctx.Done():
		}
	}

	g.Go(func() error {
		return handleEvents(ctx, term.Events(), pointer, v, post, cancel)
	})
	if opts.gestureFeed != "" {
		g.Go(func() error {
			return runGestureFeed(ctx, opts.gestureFeed, arb, logger)
		})
	}
	g.Go(func() error {
		defer cancel()
		return v.loop(ctx, arb, cmds, opts)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// loop renders frames until ctx ends or the frame limit is reached.
func (v *viewer) loop(ctx context.Context, arb *control.Arbiter, cmds <-chan func(), opts terminalOptions) error {
	targetDuration := time.Second / time.Duration(max(opts.fps, 1))
	lastFrame := time.Now()
	timer := time.NewTimer(0)
	defer timer.Stop()

	for frame := 0; opts.frames <= 0 || frame < opts.frames; frame++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

	drain:
		for {
			select {
			case f := <-cmds:
				f()
			default:
				break drain
			}
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now

		if dt > 0.1 {
			dt = 0.1
		}

		// one read of the shared cell per frame
		v.composer.Step(dt, arb.Cell().Load())
		v.composer.Draw(v.rasterizer, v.fb)

		v.hud.UpdateFPS()
		var overlay uv.Drawable
		if v.showHUD {
			overlay = v.hud.Overlay(v.composer.Stats(), arb.Active(), v.composer.Distance())
		}
		v.renderer.Render(v.fb, overlay)
		if err := v.renderer.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		// Frame timing
		if wait := targetDuration - time.Since(now); wait > 0 {
			timer.Reset(wait)
			select {
			case <-ctx.Done():
				return nil
			case <-timer.C:
			}
		}
	}
	return nil
}

// handleEvents turns terminal input into pointer intent and viewer commands.
// Pointer updates go straight to the arbiter; everything that touches the
// renderer is posted to the frame loop.
func handleEvents(ctx context.Context, events <-chan uv.Event, pointer *control.Pointer, v *viewer, post func(func()), quit context.CancelFunc) error {
	for {
		var ev uv.Event
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				quit()
				return nil
			}
			ev = e
		}

		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			pointer.Resize(ev.Width)
			w, h := ev.Width, ev.Height
			post(func() { v.resize(w, h) })

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("q", "escape", "ctrl+c"):
				quit()
				return nil
			case ev.MatchString("space"):
				pointer.Toggle()
			case ev.MatchString("+", "="):
				post(func() { v.composer.Zoom(-zoomStep) })
			case ev.MatchString("-", "_"):
				post(func() { v.composer.Zoom(zoomStep) })
			case ev.MatchString("p"):
				post(func() { v.composer.PostEnabled = !v.composer.PostEnabled })
			case ev.MatchString("?"), ev.MatchString("shift+/"):
				post(func() { v.showHUD = !v.showHUD })
			}

		case uv.MouseClickEvent:
			pointer.Move(ev.X)
			pointer.Press()

		case uv.MouseReleaseEvent:
			pointer.Release()

		case uv.MouseMotionEvent:
			pointer.Move(ev.X)

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				post(func() { v.composer.Zoom(-zoomStep) })
			case uv.MouseWheelDown:
				post(func() { v.composer.Zoom(zoomStep) })
			}
		}
	}
}

// runGestureFeed attaches the landmark feed at path. A FIFO is opened for
// reading and writing so the open does not wait for the tracker to start.
// Feed failures are logged and leave the pointer in control.
func runGestureFeed(ctx context.Context, path string, arb *control.Arbiter, logger *slog.Logger) error {
	if err := attachGestureFeed(ctx, path, arb, logger); err != nil {
		logger.Warn("gesture feed stopped, pointer in control", "path", path, "err", err)
	}
	return nil
}

func attachGestureFeed(ctx context.Context, path string, arb *control.Arbiter, logger *slog.Logger) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat gesture feed: %w", err)
	}
	flag := os.O_RDONLY
	if info.Mode()&os.ModeNamedPipe != 0 {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return fmt.Errorf("open gesture feed: %w", err)
	}
	defer f.Close()

	logger.Info("gesture feed attached", "path", path, "fifo", flag == os.O_RDWR)
	return control.NewFeed(f, arb, logger).Run(ctx)
}
