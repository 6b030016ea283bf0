package checks

import (
	"fmt"
	"iter"
	"strings"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/lint"
)

// AssTags validates override blocks.
type AssTags struct{}

// NewAssTags builds the check.
func NewAssTags(*lint.Context) (lint.EventCheck, error) { return AssTags{}, nil }

func (AssTags) RunForEvent(ev ass.Event) iter.Seq2[lint.Result, error] {
	line, err := ass.ParseLine(ev.Text)
	if err != nil {
		return stream(lint.Violation(fmt.Sprintf("invalid syntax (%s)", syntaxDetail(err)), ev))
	}

	var out []lint.Result
	var prev *ass.Block
	for _, it := range line.Items {
		if it.Block == nil {
			prev = nil
			continue
		}
		if prev != nil && !endsWithKaraoke(prev) {
			out = append(out, lint.Violation("disjointed tags", ev))
		}
		if len(it.Block.Parts) == 0 {
			out = append(out, lint.Violation("pointless tag", ev))
		}
		prev = it.Block
	}

	for _, it := range line.Items {
		if it.Block == nil {
			continue
		}
		for _, part := range it.Block.Parts {
			switch {
			case part.Comment != nil:
				out = append(out, lint.Violation("use notes to make comments", ev))
			case part.Tag.Name == "a":
				out = append(out, lint.Violation("using legacy alignment tag", ev))
			}
		}
	}
	return stream(out...)
}

// endsWithKaraoke allows {\k20}{\k20}: karaoke timing is split per syllable.
func endsWithKaraoke(b *ass.Block) bool {
	tags := b.Tags()
	return len(tags) > 0 && tags[len(tags)-1].IsKaraoke()
}

func syntaxDetail(err error) string {
	return strings.TrimPrefix(err.Error(), ass.ErrSyntax.Error()+": ")
}
