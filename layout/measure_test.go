package layout_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/layout"
)

func boundRenderer(t *testing.T, doc *ass.File) *fakeRenderer {
	t.Helper()
	r := &fakeRenderer{charWidth: 16}
	require.NoError(t, layout.BindDocument(r, doc))
	return r
}

func TestMeasureUsesGlyphLayersOnly(t *testing.T) {
	doc := newDocument("1280", "720", styleSized("Default", 40))
	doc.Events = []ass.Event{{Number: 1, Start: 1000, End: 3000, Style: "Default", Text: "Hello world"}}
	r := boundRenderer(t, doc)

	box, err := layout.NewFrameMeasurer(r).Measure(doc.Events[0])
	require.NoError(t, err)
	// 11 chars × 16px, reported in height units and scaled back by 1280/720
	assert.InDelta(t, 176.0, box.Width, 1e-6)
	assert.InDelta(t, 40.0, box.Height, 1e-6)
	assert.InDelta(t, 10*1280.0/720.0, box.X, 1e-6)
	assert.InDelta(t, 10.0, box.Y, 1e-6)
}

func TestMeasureRendersSyntheticCopy(t *testing.T) {
	doc := newDocument("1280", "720", styleSized("Default", 40))
	doc.Events = []ass.Event{
		{Number: 1, Start: 0, End: 1000, Style: "Default", Text: "first"},
		{Number: 2, Start: 0, End: 1000, Style: "Default", Text: "second"},
	}
	r := boundRenderer(t, doc)

	_, err := layout.NewFrameMeasurer(r).Measure(doc.Events[1])
	require.NoError(t, err)

	require.Len(t, r.seen, 1)
	synthetic := r.seen[0]
	assert.NotSame(t, doc, synthetic)
	require.Len(t, synthetic.Events, 1)
	assert.Equal(t, "second", synthetic.Events[0].Text)

	synthetic.Events[0].Text = "mutated"
	assert.Equal(t, "second", doc.Events[1].Text)

	bound, res := r.Binding()
	assert.Same(t, doc, bound)
	assert.Equal(t, layout.Resolution{Width: 1280, Height: 720}, res)
}

func TestMeasureMissingStyleIsZero(t *testing.T) {
	doc := newDocument("1280", "720", styleSized("Default", 40))
	r := boundRenderer(t, doc)

	box, err := layout.NewFrameMeasurer(r).Measure(ass.Event{Number: 1, Style: "Nope", Text: "text"})
	require.NoError(t, err)
	assert.True(t, box.Empty())
	assert.Zero(t, r.renders)
}

func TestMeasureEmptyRenderIsZero(t *testing.T) {
	doc := newDocument("1280", "720", styleSized("Default", 40))
	r := boundRenderer(t, doc)
	m := layout.NewFrameMeasurer(r)

	box, err := m.Measure(ass.Event{Number: 1, Style: "Default", Text: `{\an8}`})
	require.NoError(t, err)
	assert.True(t, box.Empty())

	_, err = m.Lookup(ass.Event{Number: 1, Style: "Default", Text: `{\an8}`})
	assert.True(t, errors.Is(err, layout.ErrMeasurementUnavailable))
}

func TestMeasureWithoutDeclaredResolution(t *testing.T) {
	doc := &ass.File{Styles: []ass.Style{styleSized("Default", 20)}}
	r := &fakeRenderer{charWidth: 10}
	require.NoError(t, r.Bind(doc, layout.Resolution{}))

	box, err := layout.NewFrameMeasurer(r).Measure(ass.Event{Style: "Default", Text: "abcd"})
	require.NoError(t, err)
	assert.InDelta(t, 40.0, box.Width, 1e-9)
}

func TestMeasureRestoresBindingOnError(t *testing.T) {
	doc := newDocument("1280", "720", styleSized("Default", 40))
	r := boundRenderer(t, doc)
	r.err = errors.New("boom")

	_, err := layout.NewFrameMeasurer(r).Measure(ass.Event{Number: 3, Style: "Default", Text: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, r.err)
	bound, _ := r.Binding()
	assert.Same(t, doc, bound)
}

func TestMeasureRestoresBindingOnPanic(t *testing.T) {
	doc := newDocument("1280", "720", styleSized("Default", 40))
	r := boundRenderer(t, doc)
	r.panicMsg = "renderer crashed"

	assert.PanicsWithValue(t, "renderer crashed", func() {
		_, _ = layout.NewFrameMeasurer(r).Measure(ass.Event{Style: "Default", Text: "x"})
	})
	bound, _ := r.Binding()
	assert.Same(t, doc, bound)
}

func TestMeasureWithoutBinding(t *testing.T) {
	_, err := layout.NewFrameMeasurer(&fakeRenderer{}).Measure(ass.Event{Style: "Default", Text: "x"})
	assert.ErrorIs(t, err, layout.ErrNotBound)
}

func TestMeasureCacheKeyedByStyleAndText(t *testing.T) {
	doc := newDocument("1280", "720", styleSized("Default", 40), styleSized("Small", 20))
	r := boundRenderer(t, doc)
	m := layout.NewFrameMeasurer(r)

	first, err := m.Measure(ass.Event{Number: 1, Start: 0, Style: "Default", Text: "same"})
	require.NoError(t, err)
	again, err := m.Measure(ass.Event{Number: 9, Start: 5000, Style: "Default", Text: "same"})
	require.NoError(t, err)
	other, err := m.Measure(ass.Event{Number: 2, Style: "Small", Text: "same"})
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.NotEqual(t, first.Height, other.Height)
	assert.Equal(t, 2, r.renders)
	assert.Equal(t, 2, m.Cache().Len())
	assert.Equal(t, 1, m.Cache().Hits())
}

func TestMeasureCacheSeparatesMargins(t *testing.T) {
	doc := newDocument("1280", "720", styleSized("Default", 40))
	r := boundRenderer(t, doc)
	m := layout.NewFrameMeasurer(r)

	events := []ass.Event{
		{Number: 1, Style: "Default", Text: "same"},
		{Number: 2, Style: "Default", Text: "same", MarginL: 5000},
		{Number: 3, Style: "Default", Text: "same", MarginR: 300},
		{Number: 4, Style: "Default", Text: "same", MarginV: 90},
		{Number: 5, Style: "Default", Text: "same", MarginL: 5000},
	}
	for _, ev := range events {
		_, err := m.Measure(ev)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, r.renders)
	assert.Equal(t, 4, m.Cache().Len())
	assert.Equal(t, 1, m.Cache().Hits())
}
