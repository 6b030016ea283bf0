package checks

import (
	"iter"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/layout"
	"github.com/ByLCY/asslint/lint"
)

// one pixel of slack on every frame edge
const offscreenTolerance = 1.0

// Offscreen renders every event inside the real frame and reports text
// that leaves it.
type Offscreen struct {
	res     layout.Resolution
	measure boxMeasurer
}

// NewOffscreen builds the check.
func NewOffscreen(ctx *lint.Context) (lint.EventCheck, error) {
	if err := requireRenderer(ctx); err != nil {
		return nil, err
	}
	return &Offscreen{res: ctx.Resolution, measure: newMeasurer(ctx)}, nil
}

func (c *Offscreen) RunForEvent(ev ass.Event) iter.Seq2[lint.Result, error] {
	return func(yield func(lint.Result, error) bool) {
		if !c.res.Known() || !lint.Contentful(ev) {
			return
		}
		box, err := c.measure.Measure(ev)
		if err != nil {
			yield(lint.Result{}, err)
			return
		}
		if box.Empty() {
			return
		}
		w, h := float64(c.res.Width), float64(c.res.Height)
		if box.X < -offscreenTolerance || box.Y < -offscreenTolerance ||
			box.X+box.Width > w+offscreenTolerance || box.Y+box.Height > h+offscreenTolerance {
			yield(lint.Violation("text outside of the video frame", ev), nil)
		}
	}
}
