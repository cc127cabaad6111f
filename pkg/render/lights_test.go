package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/taigrr/tannenbaum/pkg/math3d"
)

func TestShadeAmbientOnly(t *testing.T) {
	l := &Lighting{Ambient: 0.5}
	got := l.Shade(math3d.Zero3(), math3d.V3(0, 0, 1), math3d.V3(0, 0, 10), Material{Color: RGB(200, 100, 0)})
	if got != RGB(100, 50, 0) {
		t.Errorf("Shade = %v, want %v", got, RGB(100, 50, 0))
	}
}

func TestShadeFacingAndAway(t *testing.T) {
	l := &Lighting{Points: []PointLight{{Position: math3d.V3(0, 0, 10), Color: RGB(255, 255, 255), Intensity: 1}}}
	mat := Material{Color: RGB(200, 200, 200), Roughness: 1}
	eye := math3d.V3(0, 0, 10)

	facing := l.Shade(math3d.Zero3(), math3d.V3(0, 0, 1), eye, mat)
	away := l.Shade(math3d.Zero3(), math3d.V3(0, 0, -1), eye, mat)

	if facing.R <= 150 {
		t.Errorf("lit side = %v, want bright", facing)
	}
	if away != RGB(0, 0, 0) {
		t.Errorf("unlit side = %v, want black", away)
	}
}

func TestShadeEmissiveAndSaturation(t *testing.T) {
	l := &Lighting{Ambient: 1}
	got := l.Shade(math3d.Zero3(), math3d.Up(), math3d.V3(0, 0, 5), Material{
		Color:    RGB(26, 26, 26),
		Emissive: RGB(0x33, 0x33, 0x33),
	})
	if got != RGB(77, 77, 77) {
		t.Errorf("Shade = %v, want %v", got, RGB(77, 77, 77))
	}

	hot := l.Shade(math3d.Zero3(), math3d.Up(), math3d.V3(0, 0, 5), Material{
		Color:    RGB(255, 255, 255),
		Emissive: RGB(255, 0, 0),
	})
	if hot.R != 255 {
		t.Errorf("channels should saturate, got %v", hot)
	}
}

func TestShadeMetalTintsHighlight(t *testing.T) {
	l := &Lighting{Points: []PointLight{{Position: math3d.V3(0, 0, 10), Color: RGB(255, 255, 255), Intensity: 1}}}
	eye := math3d.V3(0, 0, 10)
	gold := RGB(255, 215, 0)

	metal := l.Shade(math3d.Zero3(), math3d.V3(0, 0, 1), eye, Material{Color: gold, Metalness: 1})
	if metal.B != 0 {
		t.Errorf("a fully metallic highlight should carry the base tint, got %v", metal)
	}
	plastic := l.Shade(math3d.Zero3(), math3d.V3(0, 0, 1), eye, Material{Color: gold})
	if plastic.B == 0 {
		t.Errorf("a dielectric highlight should be white-ish, got %v", plastic)
	}
}

func TestDefaultLighting(t *testing.T) {
	l := DefaultLighting()
	if l.Ambient != 0.2 || len(l.Points) != 2 {
		t.Fatalf("DefaultLighting = %+v", l)
	}
	if l.Points[0].Color != RGB(0xff, 0xee, 0xbb) || l.Points[1].Intensity != 0.5 {
		t.Errorf("unexpected light rig %+v", l.Points)
	}
}

func TestCameraDefaults(t *testing.T) {
	c := NewCamera()
	if c.Position() != math3d.V3(0, 0, 18) {
		t.Errorf("position = %v", c.Position())
	}
	if math.Abs(c.fov-50*math.Pi/180) > 1e-12 {
		t.Errorf("fov = %v", c.fov)
	}
}

func TestCameraWorldToScreen(t *testing.T) {
	c := NewCamera()
	c.SetAspectRatio(2)

	x, y, _, ok := c.WorldToScreen(math3d.Zero3(), 200, 100)
	if !ok || math.Abs(x-100) > 1e-9 || math.Abs(y-50) > 1e-9 {
		t.Errorf("origin projects to (%v, %v, %v)", x, y, ok)
	}

	_, yUp, _, _ := c.WorldToScreen(math3d.V3(0, 2, 0), 200, 100)
	if yUp >= 50 {
		t.Errorf("points above the origin should map higher on screen, got y=%v", yUp)
	}

	if _, _, _, ok := c.WorldToScreen(math3d.V3(0, 0, 30), 200, 100); ok {
		t.Error("point behind the camera reported visible")
	}
}

func TestCameraDirtyTracking(t *testing.T) {
	c := NewCamera()
	before := c.ViewProjectionMatrix()

	c.SetPosition(math3d.V3(0, 0, 10))
	if c.ViewProjectionMatrix() == before {
		t.Error("moving the camera must refresh the view-projection matrix")
	}

	if d := c.ViewDepth(math3d.Zero3()); math.Abs(d-10) > 1e-9 {
		t.Errorf("ViewDepth = %v, want 10", d)
	}

	vp := c.ViewProjectionMatrix()
	c.SetFOV(math.Pi / 2)
	if c.ViewProjectionMatrix() == vp {
		t.Error("changing the fov must refresh the view-projection matrix")
	}

	c.SetAspectRatio(0)
	c.SetAspectRatio(math.NaN())
	if c.aspect <= 0 || math.IsNaN(c.aspect) {
		t.Errorf("invalid aspect accepted: %v", c.aspect)
	}
}

func TestTextureFromImageAndSample(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255}) // top-left
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255}) // bottom-left
	img.SetRGBA(1, 1, color.RGBA{255, 255, 255, 255})

	tex := TextureFromImage(img)
	if tex.FilterMode != FilterBilinear {
		t.Error("photo textures should sample bilinearly")
	}

	tex.FilterMode = FilterNearest
	tests := []struct {
		name string
		u, v float64
		want Color
	}{
		{"top-left", 0.1, 0.9, RGB(255, 0, 0)},
		{"bottom-left", 0.1, 0.1, RGB(0, 0, 255)},
		{"bottom-right", 0.9, 0.1, RGB(255, 255, 255)},
		{"clamped", 5, -5, RGB(255, 255, 255)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tex.Sample(tc.u, tc.v); got != tc.want {
				t.Errorf("Sample(%v, %v) = %v, want %v", tc.u, tc.v, got, tc.want)
			}
		})
	}

	tex.FilterMode = FilterBilinear
	mid := tex.Sample(0.5, 0.5)
	if mid.R < 120 || mid.R > 135 {
		t.Errorf("bilinear centre = %v, want an even blend", mid)
	}

	if got := NewTexture(0, 0).Sample(0.5, 0.5); got != (Color{}) {
		t.Errorf("empty texture sample = %v", got)
	}
}

func TestTextureFromGenericImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.SetGray(0, 0, color.Gray{Y: 200})
	if got := TextureFromImage(img).GetPixel(0, 0); got != RGB(200, 200, 200) {
		t.Errorf("gray pixel = %v", got)
	}
}
