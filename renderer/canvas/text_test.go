package canvasrenderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/asslint/ass"
)

// units builds alternating word/space units: positive widths are words,
// negative widths are spaces.
func units(widths ...float64) []unit {
	out := make([]unit, 0, len(widths))
	for _, w := range widths {
		if w < 0 {
			out = append(out, unit{space: true, width: -w, tokens: []token{{text: " ", space: true, width: -w}}})
			continue
		}
		out = append(out, unit{width: w, tokens: []token{{text: "w", width: w}}})
	}
	return out
}

func widthsOf(lines [][]unit) []float64 {
	out := make([]float64, 0, len(lines))
	for _, l := range lines {
		out = append(out, flattenLine(l).width)
	}
	return out
}

func TestTokenizePieces(t *testing.T) {
	tokens := tokenizePieces([]piece{{text: "hello  world"}, {text: "a\u00a0b "}})
	var texts []string
	for _, tk := range tokens {
		texts = append(texts, tk.text)
	}
	assert.Equal(t, []string{"hello", "  ", "world", "a\u00a0b", " "}, texts)
	assert.True(t, tokens[1].space)
	assert.False(t, tokens[3].space)
}

func TestGroupUnitsGluesWordsAcrossPieces(t *testing.T) {
	tokens := []token{{text: "a", width: 1}, {text: "b", width: 2}, {text: " ", space: true, width: 1}, {text: "c", width: 3}}
	got := groupUnits(tokens)
	require.Len(t, got, 3)
	assert.Equal(t, 3.0, got[0].width)
	assert.Len(t, got[0].tokens, 2)
}

func TestGreedyWrap(t *testing.T) {
	lines := greedyWrap(units(10, -1, 10, -1, 10, -1, 10, -1, 10), 45)
	assert.Equal(t, []float64{43, 10}, widthsOf(lines))
}

func TestGreedyWrapOverflowingWord(t *testing.T) {
	lines := greedyWrap(units(100, -1, 10), 45)
	assert.Equal(t, []float64{100, 10}, widthsOf(lines))
}

func TestWrapUnitsStyles(t *testing.T) {
	words := units(10, -1, 10, -1, 10, -1, 10, -1, 10)

	assert.Equal(t, []float64{54}, widthsOf(wrapUnits(words, 45, 2)))
	assert.Equal(t, []float64{43, 10}, widthsOf(wrapUnits(words, 45, 1)))
	assert.Equal(t, []float64{32, 21}, widthsOf(wrapUnits(words, 45, 0)))
	assert.Equal(t, []float64{54}, widthsOf(wrapUnits(words, 100, 0)))
}

func TestHardLines(t *testing.T) {
	style := ass.DefaultStyle()
	doc := &ass.File{Styles: []ass.Style{style}}

	et := interpret(ass.Event{Text: `one\ntwo\Nthree`}, style, doc, 0)
	assert.Len(t, et.hardLines(), 2)

	et = interpret(ass.Event{Text: `one\ntwo\Nthree`}, style, doc, 2)
	assert.Len(t, et.hardLines(), 3)

	et = interpret(ass.Event{Text: `{\q2}one\ntwo`}, style, doc, 0)
	assert.Len(t, et.hardLines(), 2)
}

func TestInterpretOverrides(t *testing.T) {
	style := ass.DefaultStyle()
	alt := ass.DefaultStyle()
	alt.Name = "Alt"
	alt.FontSize = 99
	doc := &ass.File{Styles: []ass.Style{style, alt}}

	et := interpret(ass.Event{Text: `{\an8\fs30\b1\pos(10,20)}Hi{\an2\r}there{\rAlt}!{\p1}m 0 0 l 1 1`}, style, doc, 0)
	assert.Equal(t, 8, et.alignment)
	require.NotNil(t, et.pos)
	assert.Equal(t, point{10, 20}, *et.pos)
	require.Len(t, et.pieces, 3)
	assert.Equal(t, 30.0, et.pieces[0].state.size)
	assert.True(t, et.pieces[0].state.bold)
	assert.Equal(t, style.FontSize, et.pieces[1].state.size)
	assert.False(t, et.pieces[1].state.bold)
	assert.Equal(t, 99.0, et.pieces[2].state.size)
}

func TestInterpretBrokenMarkup(t *testing.T) {
	style := ass.DefaultStyle()
	et := interpret(ass.Event{Text: `{\fsherp}a\Nb`}, style, &ass.File{}, 0)
	assert.Len(t, et.hardLines(), 2)
}

func TestLegacyAlignment(t *testing.T) {
	want := map[int]int{1: 1, 2: 2, 3: 3, 5: 7, 6: 8, 7: 9, 9: 4, 10: 5, 11: 6}
	for legacy, numpad := range want {
		assert.Equal(t, numpad, legacyAlignment(legacy), "legacy %d", legacy)
	}
}
