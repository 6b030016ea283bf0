package checks

import (
	"fmt"
	"iter"
	"unicode"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/lint"
)

const (
	minDuration     = 250 // ms
	minDurationLong = 500 // ms, for lines with at least longLineChars characters
	minGap          = 250 // ms
	longLineChars   = 8
)

// Durations flags events shown too briefly and gaps too short to notice.
type Durations struct {
	index *lint.AdjacencyIndex
}

// NewDurations builds the check.
func NewDurations(ctx *lint.Context) (lint.EventCheck, error) {
	return &Durations{index: lint.NewAdjacencyIndex(ctx.Doc.Events)}, nil
}

// characterCount counts word characters of the visible text.
func characterCount(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			n++
		}
	}
	return n
}

func (c *Durations) RunForEvent(ev ass.Event) iter.Seq2[lint.Result, error] {
	text := ass.Plaintext(ev.Text)
	if text == "" || ev.Comment {
		return stream()
	}

	var out []lint.Result
	switch {
	case ev.Duration() < minDurationLong && characterCount(text) >= longLineChars:
		out = append(out, lint.Violation(fmt.Sprintf("duration shorter than %d ms", minDurationLong), ev))
	case ev.Duration() < minDuration:
		out = append(out, lint.Violation(fmt.Sprintf("duration shorter than %d ms", minDuration), ev))
	}

	if next, ok := c.index.Next(ev); ok && !(IsKaraoke(next) && IsKaraoke(ev)) {
		if gap := next.Start - ev.End; gap > 0 && gap < minGap {
			out = append(out, lint.Violation(fmt.Sprintf("gap shorter than %d ms (%d ms)", minGap, gap), ev, next))
		}
	}
	return stream(out...)
}
