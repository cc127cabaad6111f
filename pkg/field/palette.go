package field

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Scene colours.
var (
	EmeraldDeep  = MustHex("#002815")
	EmeraldLight = MustHex("#006B3C")
	Gold         = MustHex("#FFD700")
	RedVelvet    = MustHex("#8a0303")
	Background   = MustHex("#000502")
)

// Category palettes. An element picks one entry at creation and keeps it.
var (
	OrnamentPalette = Palette{
		MustHex("#D4AF37"), // gold
		MustHex("#C0C0C0"), // silver
		MustHex("#B22222"), // firebrick
		MustHex("#228B22"), // forest green
	}

	GiftPalette = Palette{
		MustHex("#D50000"), // red
		MustHex("#2962FF"), // royal blue
		MustHex("#00C853"), // kelly green
		MustHex("#AA00FF"), // purple
		MustHex("#FFD600"), // gold
	}
)

// Palette is a fixed list of colours indexed by Record.ColorIndex.
type Palette []colorful.Color

// RGBA returns entry i as an opaque 8-bit colour. Out of range indices wrap.
func (p Palette) RGBA(i int) color.RGBA {
	if len(p) == 0 {
		return color.RGBA{A: 255}
	}
	i %= len(p)
	if i < 0 {
		i += len(p)
	}
	return RGBA(p[i])
}

// RGBA converts a colour to an opaque 8-bit colour.
func RGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// MustHex parses a #rgb or #rrggbb colour and panics on malformed input. It
// is meant for package level literals.
func MustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("field: %v", err))
	}
	return c
}

// Gradient samples a blend from one colour to another into n steps, blended
// in Lab space.
func Gradient(from, to colorful.Color, n int) []color.RGBA {
	if n < 2 {
		n = 2
	}
	out := make([]color.RGBA, n)
	for i := range out {
		out[i] = RGBA(from.BlendLab(to, float64(i)/float64(n-1)))
	}
	return out
}
