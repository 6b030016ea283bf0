package checks

import (
	"iter"
	"strings"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/lint"
)

// StyleValidity flags events that reference a style the file does not define.
type StyleValidity struct {
	doc *ass.File
}

// NewStyleValidity builds the check.
func NewStyleValidity(ctx *lint.Context) (lint.EventCheck, error) {
	return &StyleValidity{doc: ctx.Doc}, nil
}

func (c *StyleValidity) RunForEvent(ev ass.Event) iter.Seq2[lint.Result, error] {
	// "[notes]"-like styles on comments are a common convention
	if ev.Comment && strings.HasPrefix(ev.Style, "[") && strings.HasSuffix(ev.Style, "]") {
		return stream()
	}
	if _, ok := c.doc.Style(ev.Style); !ok {
		return stream(lint.Violation("using non-existing style", ev))
	}
	return stream()
}
