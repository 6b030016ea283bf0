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
	stutterPrefixes = []string{"half", "well"}
	stutterSuffixes = []string{"kun", "san", "chan", "smaa", "senpai", "sensei"}
	stutterWords    = []string{
		"bye-bye", "easy-peasy", "heh-heh", "one-two", "part-time",
		"peek-a-boo", "ta-da", "ta-dah", "uh-huh", "uh-oh",
	}
	// English contractions commonly typed without their apostrophe.
	missingApostrophe = []string{
		"im", "youre", "hes", "shes", "theyre", "isnt", "arent", "wasnt",
		"werent", "didnt", "thats", "heres", "theres", "wheres", "cant",
		"dont", "wouldnt", "couldnt", "shouldnt", "hasnt", "havent", "ive",
		"wouldve", "youve",
	}
)

var (
	reEdgeSpace          = regexp.MustCompile(`^\s|\s$`)
	reSpaceAroundBreak   = regexp.MustCompile(`\n[ \t]|[ \t]\n`)
	reBreakBeforePunct   = regexp.MustCompile(`\n[.,?!:;…]`)
	reSpaceBeforePunct   = regexp.MustCompile(`\s[.,?!:;…]`)
	reExtraCommaOrDot    = regexp.MustCompile(`[…,.!?:;][,.]`)
	reDoublePunct        = regexp.MustCompile(`!!|\?\?`)
	reEllipsisAround     = regexp.MustCompile(`…[!?]|[!?]…`)
	reEllipsisMid        = regexp.MustCompile(`[!?.] …`)
	reQuoteChars         = regexp.MustCompile(`[.,?!"]`)
	reNonWord            = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
	reEnDashPair         = regexp.MustCompile(`(?m)^– .* –$`)
	reEmDashPair         = regexp.MustCompile(`(?m)^—.*—$`)
	reDialogueDash       = regexp.MustCompile(`(?m)^–|[.…!?] –`)
	reTrailingDash       = regexp.MustCompile(`(?m)[-–]$`)
	reLeadingDash        = regexp.MustCompile(`(?m)^- |^—`)
	reHyphenAsDash       = regexp.MustCompile(` - `)
	reSpaceApostrophe    = regexp.MustCompile(`\s+'(t|re|s)\b`)
	reSpaceAroundEmDash  = regexp.MustCompile(` —|— ([^A-Z]|$)`)
	reLowercaseAfterEnd  = regexp.MustCompile(`(?m)([\p{L}\p{N}_]+[.!?])\s+[a-z]`)
	reStutter            = regexp.MustCompile(`(?m)^([A-Z][a-z]{0,3})(-([a-z]+))+`)
	reMissingSpaceAfter  = regexp.MustCompile(`[.,?!:;][A-Za-z]|[a-zA-Z]…[A-Za-z]`)
	reUnrecognizedSpaces = regexp.MustCompile(`[\s\p{Z}\x{200B}]`)
)

// Punctuation runs a battery of typographic rules over the visible text.
type Punctuation struct {
	english bool
}

// NewPunctuation builds the check. English-only rules follow the script
// language.
func NewPunctuation(ctx *lint.Context) (lint.EventCheck, error) {
	return &Punctuation{english: ctx.IsEnglish()}, nil
}

func (c *Punctuation) RunForEvent(ev ass.Event) iter.Seq2[lint.Result, error] {
	text := ass.Plaintext(ev.Text)
	var out []lint.Result
	add := func(msg string) { out = append(out, lint.Violation(msg, ev)) }

	switch {
	case strings.HasPrefix(text, "\n") || strings.HasSuffix(text, "\n"):
		add("extra line break")
	case reEdgeSpace.MatchString(text):
		add("extra whitespace")
	}

	if strings.Count(text, "\n") >= 2 {
		add("three or more lines")
	}
	if reSpaceAroundBreak.MatchString(text) {
		add("whitespace around line break")
	}

	switch {
	case reBreakBeforePunct.MatchString(text):
		add("line break before punctuation")
	case reSpaceBeforePunct.MatchString(text):
		add("whitespace before punctuation")
	}

	if strings.Contains(text, "  ") {
		add("double space")
	}

	switch {
	case strings.Contains(text, "..."):
		add("bad ellipsis (expected …)")
	case reExtraCommaOrDot.MatchString(text):
		add("extra comma or dot")
	case reDoublePunct.MatchString(text):
		add("double punctuation mark")
	case reEllipsisAround.MatchString(text):
		add("ellipsis around punctuation mark")
	case reEllipsisMid.MatchString(text):
		add("ellipsis in the middle of sentence")
	}

	if c.english {
		words := reNonWord.Split(reQuoteChars.ReplaceAllString(strings.ToLower(text), ""), -1)
		if slices.ContainsFunc(words, func(w string) bool { return slices.Contains(missingApostrophe, w) }) {
			add("missing apostrophe")
		}
	}

	if strings.Contains(text, "’") {
		add("bad apostrophe")
	}

	if reEnDashPair.MatchString(text) {
		add("bad dash (expected —)")
	} else if !reEmDashPair.MatchString(text) {
		if len(reDialogueDash.FindAllString(text, -1)) == 1 {
			add("dialog with just one person")
		}
		if reTrailingDash.MatchString(text) {
			add("bad dash (expected —)")
		}
		if reLeadingDash.MatchString(text) {
			add("bad dash (expected –)")
		}
		if reHyphenAsDash.MatchString(text) {
			add("bad dash (expected –)")
		}
	}

	if reSpaceApostrophe.MatchString(text) {
		add("whitespace before apostrophe")
	}

	if reSpaceAroundEmDash.MatchString(text) && !IsTitle(ev) {
		add("whitespace around —")
	}

	if m := reLowercaseAfterEnd.FindStringSubmatch(text); m != nil && !slices.Contains(wordsWithPeriod, m[1]) {
		add("lowercase letter after sentence end")
	}

	if m := reStutter.FindStringSubmatch(text); m != nil {
		if !slices.Contains(stutterWords, strings.ToLower(m[0])) &&
			!slices.Contains(stutterPrefixes, strings.ToLower(m[1])) &&
			!slices.Contains(stutterSuffixes, strings.ToLower(m[3])) {
			add("possibly wrong stutter capitalization")
		}
	}

	if reMissingSpaceAfter.MatchString(text) {
		add("missing whitespace after punctuation mark")
	}

	if reUnrecognizedSpaces.MatchString(strings.NewReplacer(" ", "", "\n", "").Replace(text)) {
		add("unrecognized whitespace")
	}

	return stream(out...)
}
