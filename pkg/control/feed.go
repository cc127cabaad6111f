package control

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// Frame is one line of a landmark feed. An empty Landmarks list means no hand
// is in view.
type Frame struct {
	Landmarks []Landmark `json:"landmarks"`
}

// Feed reads newline delimited JSON frames written by an external hand
// tracker and drives the gesture source of an Arbiter.
type Feed struct {
	r   io.Reader
	arb *Arbiter
	log *slog.Logger
}

// NewFeed returns a feed reading from r. If r is also an io.Closer it is
// closed when the context passed to Run is cancelled.
func NewFeed(r io.Reader, arb *Arbiter, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Feed{r: r, arb: arb, log: logger}
}

// Run consumes frames until the input ends or ctx is cancelled. Either way
// the gesture source is released, so the pointer takes over.
func (f *Feed) Run(ctx context.Context) error {
	defer f.arb.SetGestureActive(false)

	if c, ok := f.r.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { c.Close() })
		defer stop()
	}

	sc := bufio.NewScanner(f.r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var line int
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line++

		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			f.log.Warn("skipping malformed landmark frame", "line", line, "err", err)
			continue
		}
		f.apply(frame)
	}

	if err := sc.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("reading landmark feed: %w", err)
	}
	f.log.Info("landmark feed closed", "frames", line)
	return nil
}

func (f *Feed) apply(frame Frame) {
	sig, ok := Classify(frame.Landmarks)
	if !ok {
		if len(frame.Landmarks) > 0 {
			f.log.Debug("incomplete hand", "landmarks", len(frame.Landmarks))
		}
		f.arb.SetGestureActive(false)
		return
	}
	f.arb.SetGestureActive(true)
	f.arb.Submit(SourceGesture, sig)
}
