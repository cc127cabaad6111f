package control

import "math"

// PointerRange is the yaw reached at either edge of the window.
const PointerRange = math.Pi / 2

// Pointer turns mouse and keyboard events into intent. Horizontal position
// steers the yaw, a held button gathers the tree. It is driven from the
// single event goroutine and is not safe for concurrent use.
type Pointer struct {
	arb    *Arbiter
	width  int
	signal Signal
}

// NewPointer returns a pointer source for a window of the given width.
func NewPointer(arb *Arbiter, width int) *Pointer {
	return &Pointer{arb: arb, width: width}
}

// Resize updates the window width used to normalize positions.
func (p *Pointer) Resize(width int) {
	p.width = width
}

// Move steers the yaw from a horizontal cell position: the left edge maps to
// -π/2 and the right edge to +π/2.
func (p *Pointer) Move(x int) {
	if p.width <= 0 {
		return
	}
	normalized := float64(x)/float64(p.width)*2 - 1
	p.signal.Rotation = normalized * PointerRange
	p.submit()
}

// Press gathers the tree.
func (p *Pointer) Press() {
	p.signal.Gathered = true
	p.submit()
}

// Release scatters the tree.
func (p *Pointer) Release() {
	p.signal.Gathered = false
	p.submit()
}

// Toggle flips the gather intent (keyboard control).
func (p *Pointer) Toggle() {
	p.signal.Gathered = !p.signal.Gathered
	p.submit()
}

// Signal returns the pointer's own latest intent, whether or not it
// currently owns the cell.
func (p *Pointer) Signal() Signal {
	return p.signal
}

func (p *Pointer) submit() {
	p.arb.Submit(SourcePointer, p.signal)
}
