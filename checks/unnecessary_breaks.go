package checks

import (
	"fmt"
	"iter"
	"regexp"
	"strings"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/lint"
)

// a sentence end inside the joined text means the break separates sentences
var reSentenceEnd = regexp.MustCompile(`[.!?…—] `)

// UnnecessaryBreaks reports manual \N breaks in lines that would fit on a
// single line anyway.
type UnnecessaryBreaks struct {
	// optimal single-line width, 0 when the aspect ratio is unknown
	optimal float64
	measure boxMeasurer
}

// NewUnnecessaryBreaks builds the check.
func NewUnnecessaryBreaks(ctx *lint.Context) (lint.EventCheck, error) {
	if err := requireRenderer(ctx); err != nil {
		return nil, err
	}
	c := &UnnecessaryBreaks{measure: newMeasurer(ctx)}
	if policy, err := ctx.Policy(); err == nil {
		c.optimal, _ = policy.OptimalWidth(1)
	}
	return c, nil
}

func (c *UnnecessaryBreaks) RunForEvent(ev ass.Event) iter.Seq2[lint.Result, error] {
	return func(yield func(lint.Result, error) bool) {
		if c.optimal <= 0 || !strings.Contains(ev.Text, `\N`) {
			return
		}
		if IsTitle(ev) || IsKaraoke(ev) {
			return
		}

		joined := ev
		joined.Text = strings.ReplaceAll(ev.Text, `\N`, " ")
		if reSentenceEnd.MatchString(joined.Text) || strings.Count(joined.Text, "–") >= 2 {
			return
		}

		box, err := c.measure.Measure(joined)
		if err != nil {
			yield(lint.Result{}, err)
			return
		}
		if box.Empty() {
			return
		}
		if box.Width < c.optimal {
			yield(lint.Info(fmt.Sprintf("possibly unnecessary break (%.02f until %.02f)", c.optimal-box.Width, c.optimal), ev), nil)
		}
	}
}
