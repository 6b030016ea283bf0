package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/fonts"
	"github.com/ByLCY/asslint/layout"
	"github.com/ByLCY/asslint/renderer"
)

// 未声明 PlayRes 时脚本坐标系的默认尺寸。
const (
	defaultPlayResX = 384
	defaultPlayResY = 288
)

// Renderer lays out ASS events via github.com/tdewolff/canvas and reports
// their glyph, outline and shadow boxes.
type Renderer struct {
	fonts  *fonts.Source
	logger *slog.Logger

	doc *ass.File
	res layout.Resolution

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
	faces        map[faceKey]*canvas.FontFace
}

var _ renderer.Renderer = (*Renderer)(nil)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

type faceKey struct {
	font   string
	bold   bool
	italic bool
	size   float64
	colour ass.Colour
}

// Options configures the canvas renderer.
type Options struct {
	// FontsDir is scanned for font files named after their family.
	FontsDir string
	// Fonts are injected font files keyed by family name; they win over FontsDir.
	Fonts  map[string]Resource
	Logger *slog.Logger
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a renderer resolving fonts from fontsDir.
func NewRenderer(fontsDir string) *Renderer {
	return NewRendererWithOptions(Options{FontsDir: fontsDir})
}

// NewRendererWithOptions creates a renderer with injected fonts.
func NewRendererWithOptions(opts Options) *Renderer {
	blobs := map[string][]byte{}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			blobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				logger.Warn("字体文件读取失败，使用后备字体", "font", name, "path", res.Path, "error", err)
				continue
			}
			if len(data) > 0 {
				blobs[name] = data
			}
		}
	}
	return &Renderer{
		fonts:        fonts.NewSource(opts.FontsDir, blobs),
		logger:       logger,
		fontFamilies: map[string]*fontFamilyEntry{},
		faces:        map[faceKey]*canvas.FontFace{},
	}
}

// Bind makes doc the document rendered by RenderAt and Snapshot. A zero
// resolution renders at the script's own size.
func (r *Renderer) Bind(doc *ass.File, res layout.Resolution) error {
	r.doc, r.res = doc, res
	return nil
}

// Binding returns exactly what was last bound.
func (r *Renderer) Binding() (*ass.File, layout.Resolution) { return r.doc, r.res }

// RenderAt lays out the events visible at ms. Vertical geometry is in frame
// pixels; horizontal geometry is in frame-height units, so multiplying it by
// the frame's aspect ratio yields pixels.
func (r *Renderer) RenderAt(ms int) ([]layout.Layer, error) {
	placed, err := r.place(ms)
	if err != nil {
		return nil, err
	}
	sw, sh := scriptSize(r.doc)
	frame := r.frame()
	sc := layout.NewScale(int(sw), int(sh), frame)
	hx := sc.X * float64(frame.Height) / float64(frame.Width)
	toLayer := func(t layout.LayerType, x0, y0, x1, y1 float64) layout.Layer {
		return layout.Layer{
			Type:   t,
			X:      x0 * hx,
			Y:      y0 * sc.Y,
			Width:  (x1 - x0) * hx,
			Height: (y1 - y0) * sc.Y,
		}
	}

	var layers []layout.Layer
	for _, ev := range placed {
		for _, b := range ev.boxes {
			if b.shadow > 0 {
				layers = append(layers, toLayer(layout.LayerShadow, b.x+b.shadow, b.y+b.shadow, b.x+b.w+b.shadow, b.y+b.h+b.shadow))
			}
			layers = append(layers, toLayer(layout.LayerOutline, b.x, b.y, b.x+b.w, b.y+b.h))
		}
		for _, tk := range ev.tokens {
			if !visible(tk.text) || tk.width <= 0 {
				continue
			}
			x0, x1 := tk.x, tk.x+tk.width
			y0, y1 := tk.baseline-tk.ascent, tk.baseline+tk.descent
			st := tk.state
			if st.borderStyle != 3 {
				bord := max(st.border, 0)
				if st.shadow > 0 {
					layers = append(layers, toLayer(layout.LayerShadow, x0-bord+st.shadow, y0-bord+st.shadow, x1+bord+st.shadow, y1+bord+st.shadow))
				}
				if bord > 0 {
					layers = append(layers, toLayer(layout.LayerOutline, x0-bord, y0-bord, x1+bord, y1+bord))
				}
			}
			layers = append(layers, toLayer(layout.LayerGlyph, x0, y0, x1, y1))
		}
	}
	return layers, nil
}

// Snapshot renders the frame at ms into a PDF page sized like the script.
func (r *Renderer) Snapshot(ms int) ([]byte, error) {
	placed, err := r.place(ms)
	if err != nil {
		return nil, err
	}
	sw, sh := scriptSize(r.doc)

	var buf bytes.Buffer
	writer := pdf.New(&buf, sw, sh, nil)
	writer.SetInfo(fmt.Sprintf("frame %s", ass.FormatTimestamp(ms)), "", "", "", "asslint")
	c := canvas.New(sw, sh)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与脚本坐标一致

	ctx.SetFillColor(canvas.Hex("#202020"))
	ctx.DrawPath(0, 0, canvas.Rectangle(sw, sh))

	for _, ev := range placed {
		for _, b := range ev.boxes {
			ctx.SetFillColor(colourToCanvas(b.colour))
			ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
			ctx.DrawPath(b.x, b.y, canvas.Rectangle(b.w, b.h))
		}
		for _, tk := range ev.tokens {
			if !visible(tk.text) {
				continue
			}
			if tk.state.shadow > 0 {
				shadowFace, err := r.faceFor(tk.state, tk.state.back)
				if err != nil {
					return nil, err
				}
				ctx.DrawText(tk.x+tk.state.shadow, tk.baseline+tk.state.shadow, canvas.NewTextLine(shadowFace, tk.text, canvas.Left))
			}
			ctx.DrawText(tk.x, tk.baseline, canvas.NewTextLine(tk.face, tk.text, canvas.Left))
		}
	}
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

type placedToken struct {
	token
	x        float64
	baseline float64
}

// placedBox is an opaque box (BorderStyle 3) behind one line.
type placedBox struct {
	x, y, w, h float64
	shadow     float64
	colour     ass.Colour
}

type placedEvent struct {
	tokens []placedToken
	boxes  []placedBox
}

// place lays out every visible event in script coordinates.
func (r *Renderer) place(ms int) ([]placedEvent, error) {
	doc := r.doc
	if doc == nil {
		return nil, layout.ErrNotBound
	}
	sw, sh := scriptSize(doc)
	wrapStyle := doc.ScriptInfo.Int("WrapStyle")

	var out []placedEvent
	for _, ev := range doc.Events {
		if ev.Comment || !visibleAt(ev, ms) {
			continue
		}
		style, ok := doc.Style(ev.Style)
		if !ok {
			if style, ok = doc.Style("Default"); !ok {
				style = ass.DefaultStyle()
			}
		}
		et := interpret(ev, style, doc, wrapStyle)
		marginL := pickMargin(ev.MarginL, style.MarginL)
		marginR := pickMargin(ev.MarginR, style.MarginR)
		marginV := pickMargin(ev.MarginV, style.MarginV)

		var lines []textLine
		for _, hard := range et.hardLines() {
			tokens := tokenizePieces(hard)
			if err := r.measureTokens(tokens); err != nil {
				return nil, err
			}
			lineState := et.start
			if len(hard) > 0 {
				lineState = hard[0].state
			}
			for _, units := range wrapUnits(groupUnits(tokens), sw-marginL-marginR, et.wrapStyle) {
				line := flattenLine(units)
				if len(line.tokens) == 0 {
					asc, desc, err := r.lineMetrics(lineState)
					if err != nil {
						return nil, err
					}
					line.ascent, line.descent = asc, desc
				}
				lines = append(lines, line)
			}
		}
		out = append(out, placeLines(lines, et, sw, sh, marginL, marginR, marginV))
	}
	return out, nil
}

func placeLines(lines []textLine, et eventText, sw, sh, marginL, marginR, marginV float64) placedEvent {
	blockH := 0.0
	for _, l := range lines {
		blockH += l.ascent + l.descent
	}
	align := et.alignment
	if align < 1 || align > 9 {
		align = 2
	}
	col, row := (align-1)%3, (align-1)/3

	var top float64
	switch {
	case et.pos != nil && row == 0:
		top = et.pos.y - blockH
	case et.pos != nil && row == 1:
		top = et.pos.y - blockH/2
	case et.pos != nil:
		top = et.pos.y
	case row == 0:
		top = sh - marginV - blockH
	case row == 1:
		top = (sh - blockH) / 2
	default:
		top = marginV
	}

	var out placedEvent
	y := top
	for _, line := range lines {
		var x float64
		switch {
		case et.pos != nil && col == 0:
			x = et.pos.x
		case et.pos != nil && col == 1:
			x = et.pos.x - line.width/2
		case et.pos != nil:
			x = et.pos.x - line.width
		case col == 0:
			x = marginL
		case col == 1:
			x = marginL + (sw-marginL-marginR-line.width)/2
		default:
			x = sw - marginR - line.width
		}
		h := line.ascent + line.descent
		if st := et.start; st.borderStyle == 3 && len(line.tokens) > 0 {
			b := max(st.border, 0)
			out.boxes = append(out.boxes, placedBox{x: x - b, y: y - b, w: line.width + 2*b, h: h + 2*b, shadow: st.shadow, colour: st.outline})
		}
		baseline := y + line.ascent
		for _, tk := range line.tokens {
			out.tokens = append(out.tokens, placedToken{token: tk, x: x, baseline: baseline})
			x += tk.width
		}
		y += h
	}
	return out
}

func (r *Renderer) measureTokens(tokens []token) error {
	for i := range tokens {
		tk := &tokens[i]
		face, err := r.faceFor(tk.state, tk.state.colour)
		if err != nil {
			return err
		}
		sx, sy := tk.state.scaleX/100, tk.state.scaleY/100
		m := face.Metrics()
		tk.face = face
		tk.width = (face.TextWidth(tk.text) + tk.state.spacing*float64(utf8.RuneCountInString(tk.text))) * sx
		tk.ascent = m.Ascent * sy
		tk.descent = math.Abs(m.Descent) * sy
	}
	return nil
}

func (r *Renderer) lineMetrics(st textState) (float64, float64, error) {
	face, err := r.faceFor(st, st.colour)
	if err != nil {
		return 0, 0, err
	}
	m := face.Metrics()
	sy := st.scaleY / 100
	return m.Ascent * sy, math.Abs(m.Descent) * sy, nil
}

// faceFor returns a face whose ascent plus descent equals the state's font
// size in script pixels, the way ASS renderers size fonts.
func (r *Renderer) faceFor(st textState, col ass.Colour) (*canvas.FontFace, error) {
	key := faceKey{font: st.font, bold: st.bold, italic: st.italic, size: st.size, colour: col}
	r.fontMu.Lock()
	face, ok := r.faces[key]
	r.fontMu.Unlock()
	if ok {
		return face, nil
	}

	family, style, err := r.ensureFontFamily(st.font, st.bold, st.italic)
	if err != nil {
		return nil, err
	}
	size := max(st.size, 0)
	face = family.Face(layout.PxToPt(size), colourToCanvas(col), style, canvas.FontNormal)
	if m := face.Metrics(); size > 0 && m.Ascent+math.Abs(m.Descent) > 0 {
		em := size * size / (m.Ascent + math.Abs(m.Descent))
		face = family.Face(layout.PxToPt(em), colourToCanvas(col), style, canvas.FontNormal)
	}

	r.fontMu.Lock()
	r.faces[key] = face
	r.fontMu.Unlock()
	return face, nil
}

func (r *Renderer) ensureFontFamily(name string, bold, italic bool) (*canvas.FontFamily, canvas.FontStyle, error) {
	style := fontStyle(bold, italic)
	key := fmt.Sprintf("%s|%d", fonts.Normalize(name), style)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	data, found, err := r.fonts.Lookup(name, bold, italic)
	if err != nil {
		r.logger.Warn("字体查找失败，使用后备字体", "font", name, "error", err)
	}
	if found {
		family := canvas.NewFontFamily(name)
		err := family.LoadFont(data, 0, style)
		if err == nil {
			r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
			return family, style, nil
		}
		r.logger.Warn("字体无法解析，使用后备字体", "font", name, "error", err)
	} else {
		r.logger.Debug("字体缺失，使用后备字体", "font", name, "fallback", fonts.FallbackFamily)
	}

	fallback := canvas.NewFontFamily(fonts.FallbackFamily)
	if err := fallback.LoadFont(fonts.Fallback(bold, italic), 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载后备字体失败: %w", err)
	}
	r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: style}
	return fallback, style, nil
}

// frame is the bound resolution, or the script size when none was given.
func (r *Renderer) frame() layout.Resolution {
	if r.res.Known() {
		return r.res
	}
	sw, sh := scriptSize(r.doc)
	return layout.Resolution{Width: int(sw), Height: int(sh)}
}

// scriptSize resolves PlayResX/PlayResY, deriving a missing side from the
// other one and defaulting to 384x288.
func scriptSize(doc *ass.File) (float64, float64) {
	w, h := doc.PlayRes()
	switch {
	case w <= 0 && h <= 0:
		w, h = defaultPlayResX, defaultPlayResY
	case w <= 0:
		if h == 1024 {
			w = 1280
		} else {
			w = h * 4 / 3
		}
	case h <= 0:
		if w == 1280 {
			h = 1024
		} else {
			h = w * 3 / 4
		}
	}
	return float64(w), float64(h)
}

func visibleAt(ev ass.Event, ms int) bool {
	if ev.Start > ms {
		return false
	}
	return ms < ev.End || ev.End <= ev.Start
}

func visible(text string) bool {
	return strings.IndexFunc(text, func(r rune) bool { return !unicode.IsSpace(r) }) >= 0
}

func pickMargin(eventMargin, styleMargin int) float64 {
	if eventMargin != 0 {
		return float64(eventMargin)
	}
	return float64(styleMargin)
}

func fontStyle(bold, italic bool) canvas.FontStyle {
	style := canvas.FontRegular
	if bold {
		style = canvas.FontBold
	}
	if italic {
		style |= canvas.FontItalic
	}
	return style
}

// colourToCanvas converts an ASS colour; ASS alpha 0 is opaque.
func colourToCanvas(c ass.Colour) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0-float64(c.A)/255.0)
}
