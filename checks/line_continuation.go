package checks

import (
	"iter"
	"regexp"
	"slices"
	"strings"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/lint"
)

var (
	reStartsLowercase = regexp.MustCompile(`\A\p{Ll}`)
	reOpenEnding      = regexp.MustCompile(`[,:\p{Ll}]\z`)
	reContinuedStart  = regexp.MustCompile(`\A(I\s|I'(m|d|ll|ve)|\p{Ll}|[„”“"]\p{Lu})`)
)

// LineContinuation looks at how sentences flow from one event to the next.
type LineContinuation struct {
	index *lint.AdjacencyIndex
}

// NewLineContinuation builds the check.
func NewLineContinuation(ctx *lint.Context) (lint.EventCheck, error) {
	return &LineContinuation{index: lint.NewAdjacencyIndex(ctx.Doc.Events)}, nil
}

func (c *LineContinuation) RunForEvent(ev ass.Event) iter.Seq2[lint.Result, error] {
	text := ass.Plaintext(ev.Text)
	var prevText, nextText string
	prev, hasPrev := c.index.Prev(ev)
	if hasPrev {
		prevText = ass.Plaintext(prev.Text)
	}
	next, hasNext := c.index.Next(ev)
	if hasNext {
		nextText = ass.Plaintext(next.Text)
	}

	var out []lint.Result
	if hasNext && strings.HasSuffix(text, "…") && strings.HasPrefix(nextText, "…") {
		out = append(out, lint.Violation("old-style line continuation", ev, next))
	}

	if IsDialogue(ev) &&
		!slices.ContainsFunc(wordsWithPeriod, func(w string) bool { return strings.HasSuffix(prevText, w) }) &&
		reStartsLowercase.MatchString(text) &&
		!reOpenEnding.MatchString(prevText) {
		out = append(out, lint.Violation("sentence begins with a lowercase letter", ev))
	}

	if !ev.Comment && IsDialogue(ev) && reOpenEnding.MatchString(text) && !reContinuedStart.MatchString(nextText) {
		out = append(out, lint.Violation("possibly unended sentence", ev))
	}
	return stream(out...)
}
