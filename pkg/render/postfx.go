package render

import (
	"math"
	"math/rand/v2"
)

// Bloom adds a blurred copy of the bright parts of the image back onto it.
type Bloom struct {
	Threshold float64 // luminance in [0, 1] above which pixels glow
	Intensity float64
	Radius    float64 // blur radius as a fraction of 1/20 of the shorter side
}

// Vignette darkens the image towards its corners.
type Vignette struct {
	Offset   float64
	Darkness float64
}

// Grain screens random noise over the image.
type Grain struct {
	Opacity float64
}

// PostChain applies bloom, vignette and grain to a finished frame, in that
// order. A zero Intensity, Darkness or Opacity disables the stage. The chain
// keeps its scratch buffers between frames.
type PostChain struct {
	Bloom    Bloom
	Vignette Vignette
	Grain    Grain

	bright []float32
	blur   []float32
	rng    *rand.Rand
}

// NewPostChain returns the chain with its default settings.
func NewPostChain(seed uint64) *PostChain {
	return &PostChain{
		Bloom:    Bloom{Threshold: 0.8, Intensity: 1.5, Radius: 0.6},
		Vignette: Vignette{Offset: 0.1, Darkness: 1.1},
		Grain:    Grain{Opacity: 0.05},
		rng:      rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)),
	}
}

// Apply runs the chain over fb in place.
func (p *PostChain) Apply(fb *Framebuffer) {
	if fb.Width == 0 || fb.Height == 0 {
		return
	}
	if p.Bloom.Intensity > 0 {
		p.applyBloom(fb)
	}
	if p.Vignette.Darkness > 0 {
		p.applyVignette(fb)
	}
	if p.Grain.Opacity > 0 {
		p.applyGrain(fb)
	}
}

func (p *PostChain) ensure(n int) {
	if cap(p.bright) < n {
		p.bright = make([]float32, n)
		p.blur = make([]float32, n)
	}
	p.bright = p.bright[:n]
	p.blur = p.blur[:n]
}

// BlurRadius returns the bloom blur radius in pixels for a width x height
// image.
func (b Bloom) BlurRadius(width, height int) int {
	return max(1, int(math.Round(b.Radius*float64(min(width, height))/20)))
}

func (p *PostChain) applyBloom(fb *Framebuffer) {
	w, h := fb.Width, fb.Height
	p.ensure(w * h * 3)

	threshold := p.Bloom.Threshold
	span := math.Max(1-threshold, 1e-6)
	for i, c := range fb.Pixels {
		r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
		lum := 0.2126*r + 0.7152*g + 0.0722*b
		k := math.Max(0, math.Min(1, (lum-threshold)/span))
		p.bright[i*3] = float32(r * k)
		p.bright[i*3+1] = float32(g * k)
		p.bright[i*3+2] = float32(b * k)
	}

	radius := p.Bloom.BlurRadius(w, h)
	boxBlur(p.bright, p.blur, w, h, radius, 1, w) // horizontal into blur
	boxBlur(p.blur, p.bright, w, h, radius, w, h) // vertical back into bright

	intensity := float32(p.Bloom.Intensity)
	for i := range fb.Pixels {
		c := &fb.Pixels[i]
		c.R = addFloat(c.R, p.bright[i*3]*intensity)
		c.G = addFloat(c.G, p.bright[i*3+1]*intensity)
		c.B = addFloat(c.B, p.bright[i*3+2]*intensity)
	}
}

// boxBlur averages src into dst along one axis with a sliding window. stride
// is the pixel step along the axis and length the number of pixels on it.
func boxBlur(src, dst []float32, w, h, radius, stride, length int) {
	lines := w * h / length
	lineStep := 1
	if stride == 1 {
		lineStep = w
	}
	inv := 1 / float32(2*radius+1)

	for line := range lines {
		base := line * lineStep
		for ch := range 3 {
			var sum float32
			// window starts centred on pixel 0 with the edge repeated
			for k := -radius; k <= radius; k++ {
				j := max(0, min(length-1, k))
				sum += src[(base+j*stride)*3+ch]
			}
			for i := range length {
				dst[(base+i*stride)*3+ch] = sum * inv
				out := max(0, i-radius)
				in := min(length-1, i+radius+1)
				sum += src[(base+in*stride)*3+ch] - src[(base+out*stride)*3+ch]
			}
		}
	}
}

func addFloat(c uint8, v float32) uint8 {
	f := float32(c) + v*255
	if f >= 255 {
		return 255
	}
	return uint8(f)
}

// Factor returns the brightness multiplier at distance d from the
// image centre in UV units.
func (v Vignette) Factor(d float64) float64 {
	return smoothstep(0.8, v.Offset*0.799, d*(v.Darkness+v.Offset))
}

func smoothstep(e0, e1, x float64) float64 {
	t := math.Max(0, math.Min(1, (x-e0)/(e1-e0)))
	return t * t * (3 - 2*t)
}

func (p *PostChain) applyVignette(fb *Framebuffer) {
	w, h := float64(fb.Width), float64(fb.Height)
	for y := range fb.Height {
		v := (float64(y)+0.5)/h - 0.5
		row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
		for x := range row {
			u := (float64(x)+0.5)/w - 0.5
			f := p.Vignette.Factor(math.Sqrt(u*u + v*v))
			row[x] = MultiplyColor(row[x], f)
		}
	}
}

func (p *PostChain) applyGrain(fb *Framebuffer) {
	opacity := p.Grain.Opacity
	for i := range fb.Pixels {
		n := p.rng.Float64()
		c := &fb.Pixels[i]
		c.R = screenChannel(c.R, n, opacity)
		c.G = screenChannel(c.G, n, opacity)
		c.B = screenChannel(c.B, n, opacity)
	}
}

// screenChannel mixes c towards screen(c, n) by opacity.
func screenChannel(c uint8, n, opacity float64) uint8 {
	a := float64(c) / 255
	s := 1 - (1-a)*(1-n)
	return toChannel(a + (s-a)*opacity)
}
