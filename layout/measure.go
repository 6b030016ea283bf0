package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/ByLCY/asslint/ass"
)

var (
	// ErrMeasurementUnavailable marks events that cannot be measured: the
	// style is missing or nothing was rendered.
	ErrMeasurementUnavailable = errors.New("layout: measurement unavailable")
	// ErrNotBound is returned when the renderer has no document bound.
	ErrNotBound = errors.New("layout: renderer has no document bound")
)

// measureKey holds everything of an event that affects its rendered box.
// Event margins move and wrap the text, so they are part of the key.
type measureKey struct {
	style   string
	text    string
	marginL int
	marginR int
	marginV int
}

func keyFor(ev ass.Event) measureKey {
	return measureKey{
		style:   ev.Style,
		text:    ev.Text,
		marginL: ev.MarginL,
		marginR: ev.MarginR,
		marginV: ev.MarginV,
	}
}

// MeasureCache memoizes boxes by (style, text, margins). One cache belongs to
// one measurer, whose binding it assumes never changes.
type MeasureCache struct {
	entries map[measureKey]Box
	hits    int
}

// NewMeasureCache returns an empty cache.
func NewMeasureCache() *MeasureCache {
	return &MeasureCache{entries: map[measureKey]Box{}}
}

func (c *MeasureCache) get(key measureKey) (Box, bool) {
	box, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return box, ok
}

func (c *MeasureCache) put(key measureKey, box Box) {
	c.entries[key] = box
}

// Len returns the number of cached boxes.
func (c *MeasureCache) Len() int { return len(c.entries) }

// Hits returns how many lookups were answered from the cache.
func (c *MeasureCache) Hits() int { return c.hits }

// FrameMeasurer renders single events in isolation against the renderer's
// current binding and reports their glyph bounding box.
type FrameMeasurer struct {
	renderer Renderer
	cache    *MeasureCache
}

// NewFrameMeasurer wraps r with a fresh cache.
func NewFrameMeasurer(r Renderer) *FrameMeasurer {
	return &FrameMeasurer{renderer: r, cache: NewMeasureCache()}
}

// Cache exposes the measurer's cache.
func (m *FrameMeasurer) Cache() *MeasureCache { return m.cache }

// Measure returns the box of ev rendered alone at ev.Start. A missing style
// or an empty render yields a zero box and no error.
func (m *FrameMeasurer) Measure(ev ass.Event) (Box, error) {
	doc, res := m.renderer.Binding()
	if doc == nil {
		return Box{}, ErrNotBound
	}
	if _, ok := doc.Style(ev.Style); !ok {
		return Box{}, nil
	}
	key := keyFor(ev)
	if box, ok := m.cache.get(key); ok {
		return box, nil
	}

	synthetic := doc.Synthetic(ev)
	layers, err := m.renderScoped(synthetic, res, ev.Start)
	if err != nil {
		return Box{}, fmt.Errorf("measure event #%d: %w", ev.Number, err)
	}
	box := enclose(layers)
	if !box.Empty() {
		dar := displayAspectRatio(synthetic)
		box.X *= dar
		box.Width *= dar
	}
	m.cache.put(key, box)
	return box, nil
}

// Lookup is Measure with empty boxes reported as ErrMeasurementUnavailable.
func (m *FrameMeasurer) Lookup(ev ass.Event) (Box, error) {
	box, err := m.Measure(ev)
	if err != nil {
		return Box{}, err
	}
	if box.Empty() {
		return Box{}, fmt.Errorf("event #%d: %w", ev.Number, ErrMeasurementUnavailable)
	}
	return box, nil
}

// renderScoped binds doc, renders and restores the previous binding on every
// exit path.
func (m *FrameMeasurer) renderScoped(doc *ass.File, res Resolution, at int) (layers []Layer, err error) {
	prevDoc, prevRes := m.renderer.Binding()
	if err := m.renderer.Bind(doc, res); err != nil {
		return nil, fmt.Errorf("bind synthetic document: %w", err)
	}
	defer func() {
		if rerr := m.renderer.Bind(prevDoc, prevRes); rerr != nil && err == nil {
			err = fmt.Errorf("restore binding: %w", rerr)
		}
	}()
	return m.renderer.RenderAt(at)
}

// enclose computes the rectangle around all glyph layers.
func enclose(layers []Layer) Box {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	found := false
	for _, l := range layers {
		if l.Type != LayerGlyph || l.Width <= 0 || l.Height <= 0 {
			continue
		}
		found = true
		minX = min(minX, l.X)
		minY = min(minY, l.Y)
		maxX = max(maxX, l.X+l.Width)
		maxY = max(maxY, l.Y+l.Height)
	}
	if !found {
		return Box{}
	}
	return Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// displayAspectRatio is PlayResX/PlayResY, 1 when either is undeclared.
func displayAspectRatio(doc *ass.File) float64 {
	w, h := doc.PlayRes()
	if w <= 0 || h <= 0 {
		return 1
	}
	return float64(w) / float64(h)
}
