package checks

import (
	"iter"
	"regexp"
	"strings"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/lint"
)

var (
	reInsideBeforeClose = regexp.MustCompile(`[:,]["”]`)
	reOutsideAfterClose = regexp.MustCompile(`(?m)["”][.,…?!]`)
	reQuotedMidSentence = regexp.MustCompile(`(?m)[a-z]\s[„“"].+[.…?!]["”]`)
	reQuotedSentence    = regexp.MustCompile(`(?m)[„“"].+[.…?!]["”]`)
)

// Quotes checks quotation marks for balance and punctuation placement.
type Quotes struct{}

// NewQuotes builds the check.
func NewQuotes(*lint.Context) (lint.EventCheck, error) { return Quotes{}, nil }

func (Quotes) RunForEvent(ev ass.Event) iter.Seq2[lint.Result, error] {
	text := ass.Plaintext(ev.Text)
	var out []lint.Result

	plain := strings.Count(text, `"`)
	if plain > 0 {
		out = append(out, lint.Info("plain quotation mark", ev))
	}
	opening := strings.Count(text, "„") + strings.Count(text, "“")
	if opening != strings.Count(text, "”") || plain%2 == 1 {
		out = append(out, lint.Info("partial quote", ev))
		return stream(out...)
	}

	if reInsideBeforeClose.MatchString(text) {
		out = append(out, lint.Violation("punctuation inside quotation marks", ev))
	}
	if reOutsideAfterClose.MatchString(text) {
		out = append(out, lint.Debug("punctuation outside quotation marks", ev))
	}
	switch {
	case reQuotedMidSentence.MatchString(text):
		out = append(out, lint.Violation("punctuation inside quotation marks", ev))
	case reQuotedSentence.MatchString(text):
		out = append(out, lint.Debug("punctuation inside quotation marks", ev))
	}
	return stream(out...)
}
