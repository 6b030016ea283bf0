package checks

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/lint"
)

// words and punctuation runs; whitespace separates them and is dropped
var reWordTokens = regexp.MustCompile(`[\p{L}\p{N}']+|[^\s\p{L}\p{N}']+`)

// DoubleWords flags a word repeated right after itself, e.g. "the the".
type DoubleWords struct{}

// NewDoubleWords builds the check.
func NewDoubleWords(*lint.Context) (lint.EventCheck, error) { return DoubleWords{}, nil }

func isWord(token string) bool {
	r, _ := utf8.DecodeRuneInString(token)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (DoubleWords) RunForEvent(ev ass.Event) iter.Seq2[lint.Result, error] {
	if ev.Comment {
		return stream()
	}
	tokens := reWordTokens.FindAllString(ass.Plaintext(ev.Text), -1)
	var out []lint.Result
	reported := map[string]bool{}
	for i := 1; i < len(tokens); i++ {
		prev, cur := tokens[i-1], tokens[i]
		if !isWord(cur) || !strings.EqualFold(prev, cur) {
			continue
		}
		key := strings.ToLower(cur)
		if reported[key] {
			continue
		}
		reported[key] = true
		out = append(out, lint.Violation(fmt.Sprintf("double word (%s)", cur), ev))
	}
	return stream(out...)
}
