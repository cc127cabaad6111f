package render

import (
	"fmt"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// ▀ carries the top pixel in fg and the bottom pixel in bg
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(col, topY)),
					Bg: rgbaToColor(fb.GetPixel(col, botY)),
				},
			})
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Display is a screen that can present what was drawn on it.
// *uv.Terminal satisfies it.
type Display interface {
	uv.Screen
	Display() error
}

// TerminalRenderer presents framebuffers on a terminal grid of cols x rows
// cells.
type TerminalRenderer struct {
	scr  Display
	cols int
	rows int
}

// NewTerminalRenderer creates a renderer for a cols x rows terminal.
func NewTerminalRenderer(scr Display, cols, rows int) *TerminalRenderer {
	return &TerminalRenderer{scr: scr, cols: max(cols, 0), rows: max(rows, 0)}
}

// FramebufferSize returns the pixel size a framebuffer needs to cover the
// terminal: one column per cell and two rows per cell.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.cols, t.rows * 2
}

// Resize updates the terminal grid size.
func (t *TerminalRenderer) Resize(cols, rows int) {
	t.cols, t.rows = max(cols, 0), max(rows, 0)
}

// Render draws fb followed by the overlays, in order, onto the screen. Nothing
// is visible until Flush.
func (t *TerminalRenderer) Render(fb *Framebuffer, overlays ...uv.Drawable) {
	area := uv.Rect(0, 0, t.cols, t.rows)
	fb.Draw(t.scr, area)
	for _, o := range overlays {
		if o != nil {
			o.Draw(t.scr, area)
		}
	}
}

// Flush presents the drawn frame.
func (t *TerminalRenderer) Flush() error {
	if err := t.scr.Display(); err != nil {
		return fmt.Errorf("display frame: %w", err)
	}
	return nil
}
