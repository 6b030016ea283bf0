package checks

import (
	"fmt"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/layout"
	"github.com/ByLCY/asslint/lint"
)

// boxMeasurer is satisfied by *layout.FrameMeasurer.
type boxMeasurer interface {
	Measure(ev ass.Event) (layout.Box, error)
}

func requireRenderer(ctx *lint.Context) error {
	if ctx.Renderer == nil {
		return fmt.Errorf("%w: no renderer", lint.ErrConfigurationUnavailable)
	}
	return nil
}

func newMeasurer(ctx *lint.Context) boxMeasurer {
	return layout.NewFrameMeasurer(ctx.Renderer)
}
