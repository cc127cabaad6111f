package control

import "sync/atomic"

// Source identifies an input producer.
type Source int32

const (
	SourcePointer Source = iota
	SourceGesture
)

func (s Source) String() string {
	switch s {
	case SourceGesture:
		return "gesture"
	default:
		return "pointer"
	}
}

// Arbiter routes two producers into one Cell. The gesture source outranks the
// pointer: while a hand is tracked, pointer writes are dropped here, before
// they reach the cell. The consumer never learns which source wrote.
type Arbiter struct {
	cell    *Cell
	gesture atomic.Bool

	// pointer keeps the pointer's latest intent, so it can take over as soon
	// as the hand is lost
	pointer Cell
}

// NewArbiter returns an arbiter writing into cell.
func NewArbiter(cell *Cell) *Arbiter {
	return &Arbiter{cell: cell}
}

// Cell returns the consumer side.
func (a *Arbiter) Cell() *Cell {
	return a.cell
}

// Active reports which producer currently owns the cell.
func (a *Arbiter) Active() Source {
	if a.gesture.Load() {
		return SourceGesture
	}
	return SourcePointer
}

// SetGestureActive marks whether a hand is being tracked. Losing the hand
// hands the cell back to the pointer with the pointer's latest intent.
func (a *Arbiter) SetGestureActive(active bool) {
	if a.gesture.Swap(active) && !active {
		a.cell.Store(a.pointer.Load())
	}
}

// Submit writes s on behalf of src. It reports false when the write was
// dropped because a higher priority source is active.
func (a *Arbiter) Submit(src Source, s Signal) bool {
	switch src {
	case SourceGesture:
		if !a.gesture.Load() {
			return false
		}
		a.cell.Store(s)
		return true
	default:
		a.pointer.Store(s)
		if a.gesture.Load() {
			return false
		}
		a.cell.Store(s)
		return true
	}
}
