package checks

import (
	"fmt"
	"iter"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/layout"
	"github.com/ByLCY/asslint/lint"
)

// LongLines flags events that render wider than the width policy allows
// for their line count, or with more lines than the policy knows about.
type LongLines struct {
	policy  *layout.WidthPolicy
	heights layout.CalibrationTable
	measure boxMeasurer
}

// NewLongLines calibrates line heights for every style of the document.
// Without a recognised aspect ratio the check yields nothing; the
// video-resolution check reports that case.
func NewLongLines(ctx *lint.Context) (lint.EventCheck, error) {
	if err := requireRenderer(ctx); err != nil {
		return nil, err
	}
	policy, err := ctx.Policy()
	if err != nil {
		ctx.Log().Debug("宽高比未知，跳过行宽检查", "resolution", ctx.Resolution.String())
		return &LongLines{}, nil
	}
	heights, err := layout.Calibrate(ctx.Renderer, ctx.Doc, ctx.Log())
	if err != nil {
		return nil, fmt.Errorf("calibrate line heights: %w", err)
	}
	return &LongLines{policy: policy, heights: heights, measure: newMeasurer(ctx)}, nil
}

func (c *LongLines) RunForEvent(ev ass.Event) iter.Seq2[lint.Result, error] {
	return func(yield func(lint.Result, error) bool) {
		if c.policy == nil || ev.Comment || IsKaraoke(ev) {
			return
		}
		box, err := c.measure.Measure(ev)
		if err != nil {
			yield(lint.Result{}, err)
			return
		}
		lineHeight, ok := c.heights[ev.Style]
		if !ok {
			return
		}
		lines := layout.LineCount(box.Height, lineHeight)
		if lines == 0 {
			return
		}

		limit, ok := c.policy.OptimalWidth(lines)
		if !ok {
			yield(lint.Violation(fmt.Sprintf("too many lines (%g/%g = %d)", box.Height, lineHeight, lines), ev), nil)
			return
		}
		if box.Width > limit {
			yield(lint.Violation(fmt.Sprintf("too long line (%.02f beyond %.02f)", box.Width-limit, limit), ev), nil)
		}
	}
}
