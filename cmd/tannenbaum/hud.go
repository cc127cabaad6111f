package main

import (
	"fmt"
	"math"
	"time"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/tannenbaum/pkg/control"
	"github.com/taigrr/tannenbaum/pkg/scene"
)

// HUD displays frame rate and scene state over the picture.
type HUD struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time

	bar   lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	hint  lipgloss.Style
}

// NewHUD creates a new HUD
func NewHUD() *HUD {
	bg := lipgloss.Color("#000502")
	return &HUD{
		fpsTime: time.Now(),
		bar:     lipgloss.NewStyle().Background(bg).Padding(0, 1),
		label:   lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("#006B3C")),
		value:   lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("#FFD700")).Bold(true),
		hint:    lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("#C0C0C0")).Faint(true),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

func (h *HUD) field(name, value string) string {
	return h.label.Render(name+" ") + h.value.Render(value) + h.label.Render("  ")
}

// Status renders the top line.
func (h *HUD) Status(st scene.Stats, src control.Source, distance float64) string {
	line := h.field("fps", fmt.Sprintf("%.0f", h.fps)) +
		h.field("tree", fmt.Sprintf("%3.0f%%", st.State.Progress*100)) +
		h.field("yaw", fmt.Sprintf("%+.0f°", st.State.Rotation*180/math.Pi)) +
		h.field("input", src.String()) +
		h.field("cam", fmt.Sprintf("%.1f", distance)) +
		h.field("needles", fmt.Sprint(st.Particles)) +
		h.field("baubles", fmt.Sprint(st.Ornaments)) +
		h.field("gifts", fmt.Sprint(st.Gifts)) +
		h.field("photos", fmt.Sprintf("%d/%d", st.Photos, st.Frames))
	if st.Ribbons > 0 {
		line += h.field("ribbons", fmt.Sprint(st.Ribbons))
	}
	return h.bar.Render(line)
}

// Hint renders the bottom line.
func (h *HUD) Hint() string {
	return h.bar.Render(h.hint.Render("hold mouse: assemble · space: toggle · scroll: zoom · p: post · ?: hud · q: quit"))
}

// Overlay returns a drawable placing the status line at the top and the
// key hint at the bottom of the screen.
func (h *HUD) Overlay(st scene.Stats, src control.Source, distance float64) uv.Drawable {
	status := h.Status(st, src, distance)
	hint := h.Hint()
	return uv.DrawableFunc(func(scr uv.Screen, area uv.Rectangle) {
		if area.Dy() <= 0 {
			return
		}
		uv.NewStyledString(status).Draw(scr, uv.Rect(area.Min.X, area.Min.Y, area.Dx(), 1))
		if area.Dy() > 1 {
			uv.NewStyledString(hint).Draw(scr, uv.Rect(area.Min.X, area.Max.Y-1, area.Dx(), 1))
		}
	})
}
