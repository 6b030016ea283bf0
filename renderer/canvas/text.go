package canvasrenderer

import (
	"strconv"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/asslint/ass"
)

// 该文件负责把一条事件的文本拆成带样式的片段、折行并计算脚本坐标下的位置。

type textState struct {
	font        string
	size        float64
	bold        bool
	italic      bool
	scaleX      float64
	scaleY      float64
	spacing     float64
	border      float64
	shadow      float64
	borderStyle int
	colour      ass.Colour
	outline     ass.Colour
	back        ass.Colour
	drawing     bool
}

func stateFromStyle(s ass.Style) textState {
	return textState{
		font:        s.FontName,
		size:        s.FontSize,
		bold:        s.Bold,
		italic:      s.Italic,
		scaleX:      s.ScaleX,
		scaleY:      s.ScaleY,
		spacing:     s.Spacing,
		border:      s.Outline,
		shadow:      s.Shadow,
		borderStyle: s.BorderStyle,
		colour:      s.PrimaryColour,
		outline:     s.OutlineColour,
		back:        s.BackColour,
	}
}

type breakKind int

const (
	noBreak breakKind = iota
	hardBreak
	softBreak
)

type piece struct {
	text  string
	state textState
	brk   breakKind
}

type point struct{ x, y float64 }

// eventText is the result of interpreting an event's override tags.
type eventText struct {
	pieces    []piece
	alignment int
	pos       *point
	wrapStyle int
	start     textState
}

func legacyAlignment(a int) int {
	col := a & 3
	if col == 0 {
		col = 2
	}
	switch {
	case a&4 != 0:
		return col + 6
	case a&8 != 0:
		return col + 3
	default:
		return col
	}
}

// interpret applies override tags in order. Lines with invalid markup are
// drawn with their blocks stripped.
func interpret(ev ass.Event, style ass.Style, doc *ass.File, wrapStyle int) eventText {
	base := stateFromStyle(style)
	out := eventText{alignment: style.Alignment, wrapStyle: wrapStyle, start: base}
	st := base
	alignSet := false

	line, err := ass.ParseLine(ev.Text)
	if err != nil {
		for i, part := range strings.Split(ass.StripTags(ev.Text), "\n") {
			if i > 0 {
				out.pieces = append(out.pieces, piece{state: st, brk: hardBreak})
			}
			out.pieces = append(out.pieces, piece{text: part, state: st})
		}
		return out
	}

	for _, it := range line.Items {
		switch {
		case it.Block != nil:
			for _, tag := range it.Block.Tags() {
				switch tag.Name {
				case "b":
					st.bold = tag.Value == "" && base.bold || tag.Int(0) != 0
				case "i":
					st.italic = tag.Value == "" && base.italic || tag.Int(0) != 0
				case "fn":
					st.font = tag.Value
					if st.font == "" {
						st.font = base.font
					}
				case "fs":
					st.size = tag.Float(base.size)
				case "fscx":
					st.scaleX = tag.Float(base.scaleX)
				case "fscy":
					st.scaleY = tag.Float(base.scaleY)
				case "fsp":
					st.spacing = tag.Float(base.spacing)
				case "bord":
					st.border = tag.Float(base.border)
				case "shad":
					st.shadow = tag.Float(base.shadow)
				case "c", "1c":
					if c, err := ass.ParseColour(tag.Value); err == nil {
						st.colour = c
					}
				case "3c":
					if c, err := ass.ParseColour(tag.Value); err == nil {
						st.outline = c
					}
				case "4c":
					if c, err := ass.ParseColour(tag.Value); err == nil {
						st.back = c
					}
				case "an":
					if !alignSet {
						out.alignment, alignSet = tag.Int(style.Alignment), true
					}
				case "a":
					if !alignSet {
						out.alignment, alignSet = legacyAlignment(tag.Int(2)), true
					}
				case "pos", "move":
					if out.pos == nil && len(tag.Args) >= 2 {
						x, _ := strconv.ParseFloat(tag.Args[0], 64)
						y, _ := strconv.ParseFloat(tag.Args[1], 64)
						out.pos = &point{x, y}
					}
				case "r":
					st = base
					if tag.Value != "" {
						if named, ok := doc.Style(tag.Value); ok {
							st = stateFromStyle(named)
						}
					}
				case "p":
					st.drawing = tag.Int(0) > 0
				case "q":
					out.wrapStyle = tag.Int(wrapStyle)
				}
			}
		case it.HardBreak:
			out.pieces = append(out.pieces, piece{state: st, brk: hardBreak})
		case it.SoftBreak:
			out.pieces = append(out.pieces, piece{state: st, brk: softBreak})
		case it.HardSpace:
			out.pieces = append(out.pieces, piece{text: "\u00a0", state: st})
		case it.Text != nil && !st.drawing:
			out.pieces = append(out.pieces, piece{text: *it.Text, state: st})
		}
	}
	return out
}

// hardLines splits pieces at forced breaks. \n only breaks with wrap style 2,
// otherwise it is a space.
func (e eventText) hardLines() [][]piece {
	lines := [][]piece{nil}
	for _, p := range e.pieces {
		brk := p.brk
		if brk == softBreak && e.wrapStyle != 2 {
			p = piece{text: " ", state: p.state}
			brk = noBreak
		}
		if brk != noBreak {
			lines = append(lines, []piece{{state: p.state}})
			continue
		}
		last := len(lines) - 1
		lines[last] = append(lines[last], p)
	}
	return lines
}

type token struct {
	text    string
	state   textState
	face    *canvas.FontFace
	space   bool
	width   float64
	ascent  float64
	descent float64
}

// unit is a run of glued tokens: a word (possibly spanning override blocks) or
// a run of breakable spaces.
type unit struct {
	tokens []token
	space  bool
	width  float64
}

type textLine struct {
	tokens  []token
	width   float64
	ascent  float64
	descent float64
}

func isBreakSpace(r rune) bool { return r == ' ' || r == '\t' }

// tokenizePieces splits text into alternating word and space runs.
func tokenizePieces(pieces []piece) []token {
	var tokens []token
	for _, p := range pieces {
		var b strings.Builder
		lastWasSpace := false
		flush := func() {
			if b.Len() == 0 {
				return
			}
			tokens = append(tokens, token{text: b.String(), state: p.state, space: lastWasSpace})
			b.Reset()
		}
		for _, r := range p.text {
			space := isBreakSpace(r)
			if b.Len() == 0 {
				lastWasSpace = space
			} else if lastWasSpace != space {
				flush()
				lastWasSpace = space
			}
			b.WriteRune(r)
		}
		flush()
	}
	return tokens
}

func groupUnits(tokens []token) []unit {
	var units []unit
	for _, tk := range tokens {
		if n := len(units); n > 0 && units[n-1].space == tk.space {
			units[n-1].tokens = append(units[n-1].tokens, tk)
			units[n-1].width += tk.width
			continue
		}
		units = append(units, unit{tokens: []token{tk}, space: tk.space, width: tk.width})
	}
	return units
}

// greedyWrap fills lines up to limit, breaking only at spaces. Words wider
// than limit overflow. Spaces at wrap points are dropped.
func greedyWrap(units []unit, limit float64) [][]unit {
	var lines [][]unit
	var cur []unit
	width := 0.0
	hasWord := false
	flush := func() {
		lines = append(lines, trimTrailingSpace(cur))
		cur, width, hasWord = nil, 0, false
	}
	for _, u := range units {
		if u.space {
			if len(cur) == 0 && len(lines) > 0 {
				continue
			}
			cur = append(cur, u)
			width += u.width
			continue
		}
		if hasWord && width+u.width > limit {
			flush()
		}
		cur = append(cur, u)
		width += u.width
		hasWord = true
	}
	if len(cur) > 0 || len(lines) == 0 {
		lines = append(lines, trimTrailingSpace(cur))
	}
	return lines
}

func trimTrailingSpace(units []unit) []unit {
	for len(units) > 0 && units[len(units)-1].space {
		units = units[:len(units)-1]
	}
	return units
}

// wrapUnits breaks one hard line according to the wrap style: 2 never wraps,
// 1 wraps greedily, 0 and 3 keep the greedy line count but even out widths.
func wrapUnits(units []unit, limit float64, wrapStyle int) [][]unit {
	if wrapStyle == 2 || limit <= 0 {
		return [][]unit{trimTrailingSpace(units)}
	}
	lines := greedyWrap(units, limit)
	if wrapStyle == 1 || len(lines) <= 1 {
		return lines
	}
	lo := 0.0
	for _, u := range units {
		if !u.space {
			lo = max(lo, u.width)
		}
	}
	hi := limit
	if lo >= hi {
		return lines
	}
	for range 24 {
		mid := (lo + hi) / 2
		if len(greedyWrap(units, mid)) <= len(lines) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return greedyWrap(units, hi)
}

func flattenLine(units []unit) textLine {
	var line textLine
	for _, u := range units {
		for _, tk := range u.tokens {
			line.tokens = append(line.tokens, tk)
			line.width += tk.width
			line.ascent = max(line.ascent, tk.ascent)
			line.descent = max(line.descent, tk.descent)
		}
	}
	return line
}
