package render

import (
	"math"
	"testing"
)

func TestPostChainDefaults(t *testing.T) {
	p := NewPostChain(1)
	if p.Bloom != (Bloom{Threshold: 0.8, Intensity: 1.5, Radius: 0.6}) {
		t.Errorf("bloom = %+v", p.Bloom)
	}
	if p.Vignette != (Vignette{Offset: 0.1, Darkness: 1.1}) {
		t.Errorf("vignette = %+v", p.Vignette)
	}
	if p.Grain.Opacity != 0.05 {
		t.Errorf("grain opacity = %v", p.Grain.Opacity)
	}
}

func TestBloomSpreadsBrightPixels(t *testing.T) {
	p := NewPostChain(1)
	p.Vignette.Darkness = 0
	p.Grain.Opacity = 0

	fb := NewFramebuffer(40, 40)
	fb.Clear(RGB(0, 0, 0))
	fb.SetPixel(20, 20, RGB(255, 255, 255))
	fb.SetPixel(5, 5, RGB(100, 100, 100)) // below threshold

	p.Apply(fb)

	if c := fb.GetPixel(21, 20); c.R == 0 {
		t.Error("bloom should light the neighbours of a bright pixel")
	}
	if c := fb.GetPixel(6, 5); c.R != 0 {
		t.Errorf("dim pixel should not bloom, neighbour = %v", c)
	}
	if c := fb.GetPixel(5, 5); c != RGB(100, 100, 100) {
		t.Errorf("dim pixel changed to %v", c)
	}
}

func TestBloomBlurRadius(t *testing.T) {
	b := Bloom{Radius: 0.6}
	tests := []struct {
		w, h int
		want int
	}{
		{200, 100, 3},
		{10, 10, 1},
		{1000, 400, 12},
	}
	for _, tc := range tests {
		if got := b.BlurRadius(tc.w, tc.h); got != tc.want {
			t.Errorf("BlurRadius(%d, %d) = %d, want %d", tc.w, tc.h, got, tc.want)
		}
	}
}

func TestBoxBlurPreservesFlatField(t *testing.T) {
	const w, h = 9, 5
	src := make([]float32, w*h*3)
	dst := make([]float32, w*h*3)
	for i := range src {
		src[i] = 0.25
	}
	boxBlur(src, dst, w, h, 2, 1, w)
	boxBlur(dst, src, w, h, 2, w, h)
	for i, v := range src {
		if math.Abs(float64(v)-0.25) > 1e-6 {
			t.Fatalf("value %d = %v, want 0.25", i, v)
		}
	}
}

func TestVignetteFactor(t *testing.T) {
	v := Vignette{Offset: 0.1, Darkness: 1.1}

	if f := v.Factor(0); f != 1 {
		t.Errorf("centre factor = %v, want 1", f)
	}
	if f := v.Factor(math.Sqrt2 / 2); f >= 0.1 {
		t.Errorf("corner factor = %v, want close to 0", f)
	}
	prev := 1.0
	for d := 0.0; d <= 0.71; d += 0.05 {
		f := v.Factor(d)
		if f > prev+1e-12 {
			t.Fatalf("factor increased at d=%v: %v > %v", d, f, prev)
		}
		prev = f
	}
}

func TestVignetteDarkensCorners(t *testing.T) {
	p := NewPostChain(1)
	p.Bloom.Intensity = 0
	p.Grain.Opacity = 0

	fb := NewFramebuffer(30, 30)
	fb.Clear(RGB(120, 120, 120))
	p.Apply(fb)

	centre := fb.GetPixel(15, 15)
	corner := fb.GetPixel(0, 0)
	if centre != RGB(120, 120, 120) {
		t.Errorf("centre = %v, want unchanged", centre)
	}
	if corner.R >= centre.R {
		t.Errorf("corner %v should be darker than centre %v", corner, centre)
	}
}

func TestGrainOnlyBrightens(t *testing.T) {
	p := NewPostChain(7)
	p.Bloom.Intensity = 0
	p.Vignette.Darkness = 0

	fb := NewFramebuffer(16, 16)
	fb.Clear(RGB(40, 40, 40))
	p.Apply(fb)

	for i, c := range fb.Pixels {
		// screen blending never darkens and opacity bounds the change
		if c.R < 40 || c.R > 40+13 {
			t.Fatalf("pixel %d = %v outside grain range", i, c)
		}
	}
}

func TestPostChainEmptyFramebuffer(t *testing.T) {
	p := NewPostChain(1)
	p.Apply(NewFramebuffer(0, 0))
}

func BenchmarkPostChain(b *testing.B) {
	p := NewPostChain(1)
	fb := NewFramebuffer(200, 100)
	fb.Clear(RGB(30, 200, 90))
	for b.Loop() {
		p.Apply(fb)
	}
}
