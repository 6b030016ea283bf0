package layout_test

import (
	"strings"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/layout"
)

// fakeRenderer lays text out as a monospace block: each character is
// charWidth wide and each line is one style font size high. Horizontal
// geometry is reported in frame-height units like the real renderer.
type fakeRenderer struct {
	doc       *ass.File
	res       layout.Resolution
	charWidth float64
	binds     int
	renders   int
	seen      []*ass.File
	err       error
	panicMsg  string
}

func (f *fakeRenderer) Bind(doc *ass.File, res layout.Resolution) error {
	f.binds++
	f.doc, f.res = doc, res
	return nil
}

func (f *fakeRenderer) Binding() (*ass.File, layout.Resolution) { return f.doc, f.res }

func (f *fakeRenderer) RenderAt(ms int) ([]layout.Layer, error) {
	f.renders++
	f.seen = append(f.seen, f.doc)
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return nil, f.err
	}
	norm := 1.0
	if f.res.Width > 0 && f.res.Height > 0 {
		norm = float64(f.res.Height) / float64(f.res.Width)
	}
	var layers []layout.Layer
	for _, ev := range f.doc.Events {
		if ev.Start > ms || ev.End < ms && ev.End != 0 {
			continue
		}
		style, ok := f.doc.Style(ev.Style)
		if !ok {
			continue
		}
		text := ass.Plaintext(ev.Text)
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		longest := 0
		for _, l := range lines {
			longest = max(longest, len([]rune(l)))
		}
		width := float64(longest) * f.charWidth * norm
		height := float64(len(lines)) * style.FontSize
		layers = append(layers,
			layout.Layer{Type: layout.LayerShadow, X: 0, Y: 0, Width: width + 50, Height: height + 50},
			layout.Layer{Type: layout.LayerOutline, X: 5, Y: 5, Width: width + 10, Height: height + 10},
			layout.Layer{Type: layout.LayerGlyph, X: 10, Y: 10, Width: width, Height: height},
		)
	}
	return layers, nil
}

func newDocument(w, h string, styles ...ass.Style) *ass.File {
	doc := &ass.File{Styles: styles}
	doc.ScriptInfo.Set("PlayResX", w)
	doc.ScriptInfo.Set("PlayResY", h)
	return doc
}

func styleSized(name string, size float64) ass.Style {
	s := ass.DefaultStyle()
	s.Name = name
	s.FontSize = size
	return s
}
