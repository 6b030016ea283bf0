package checks

import (
	"iter"

	"github.com/ByLCY/asslint/layout"
	"github.com/ByLCY/asslint/lint"
)

// VideoResolution reports missing or unusual PlayRes declarations, which
// silently disable the layout checks.
type VideoResolution struct {
	res layout.Resolution
}

// NewVideoResolution builds the check.
func NewVideoResolution(ctx *lint.Context) (lint.DocumentCheck, error) {
	return &VideoResolution{res: ctx.Resolution}, nil
}

func (c *VideoResolution) Run() iter.Seq2[lint.Result, error] {
	var out []lint.Result
	if c.res.Width <= 0 {
		out = append(out, lint.Violation("Unknown video width."))
	}
	if c.res.Height <= 0 {
		out = append(out, lint.Violation("Unknown video height."))
	}
	if layout.ClassifyAspectRatio(c.res.Width, c.res.Height) == layout.AspectUnknown {
		out = append(out, lint.Violation("Unknown aspect ratio."))
	}
	return stream(out...)
}
