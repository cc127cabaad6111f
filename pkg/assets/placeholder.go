package assets

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
)

// Placeholder colours.
const (
	PlaceholderFill = "#1a1a1a"
	PlaceholderGlow = "#333333"
)

var glowColor = mustHex(PlaceholderGlow)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("assets: %v", err))
	}
	return c
}

// Placeholder draws the dark plaque shown in slots without a photo: a flat
// fill with a soft lighter rim.
func Placeholder() *image.RGBA {
	dc := gg.NewContext(PhotoWidth, PhotoHeight)
	dc.SetHexColor(PlaceholderFill)
	dc.Clear()

	const rings = 6
	w, h := float64(PhotoWidth), float64(PhotoHeight)
	for i := range rings {
		inset := float64(i) * 2
		a := 1 - float64(i)/rings
		dc.SetLineWidth(2)
		dc.SetRGBA(glowColor.R, glowColor.G, glowColor.B, a)
		dc.DrawRectangle(inset+1, inset+1, w-2*inset-2, h-2*inset-2)
		dc.Stroke()
	}

	img := dc.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	dst := image.NewRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
