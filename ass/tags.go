package ass

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrSyntax is wrapped by every override-tag parse error.
var ErrSyntax = errors.New("ass: invalid tag syntax")

var (
	tagLexer = lexer.MustStateful(lexer.Rules{
		"Root": {
			{Name: "BlockStart", Pattern: `\{`, Action: lexer.Push("Block")},
			{Name: "HardBreak", Pattern: `\\N`},
			{Name: "SoftBreak", Pattern: `\\n`},
			{Name: "HardSpace", Pattern: `\\h`},
			{Name: "Text", Pattern: `[^{\\]+`},
			{Name: "Backslash", Pattern: `\\`},
		},
		"Block": {
			{Name: "BlockEnd", Pattern: `\}`, Action: lexer.Pop()},
			{Name: "Escaped", Pattern: `\\\\[^}]*`},
			{Name: "Tag", Pattern: `\\[^\\}(]*(?:\([^)}]*\)?)?[^\\}]*`},
			{Name: "Comment", Pattern: `[^\\}]+`},
		},
	})

	lineParser = participle.MustBuild[Line](
		participle.Lexer(tagLexer),
	)

	blockPattern = regexp.MustCompile(`\{[^}]*\}`)
)

// Line is the parsed form of an event's text.
type Line struct {
	Items []*Item `parser:"@@*"`
}

// Item is one element of a line: an override block, a break or plain text.
type Item struct {
	Block     *Block  `parser:"  @@"`
	HardBreak bool    `parser:"| @HardBreak"`
	SoftBreak bool    `parser:"| @SoftBreak"`
	HardSpace bool    `parser:"| @HardSpace"`
	Text      *string `parser:"| @(Text | Backslash)"`
}

// Block is a `{...}` override block.
type Block struct {
	Parts []*BlockPart `parser:"BlockStart @@* BlockEnd"`
}

// BlockPart is either a tag or free text (a comment) inside a block.
type BlockPart struct {
	Tag     *Tag    `parser:"  @Tag"`
	Comment *string `parser:"| @(Comment | Escaped)"`
}

// Tags returns the tags of the block in order.
func (b *Block) Tags() []*Tag {
	var out []*Tag
	for _, p := range b.Parts {
		if p.Tag != nil {
			out = append(out, p.Tag)
		}
	}
	return out
}

// HasComment reports whether the block carries free text.
func (b *Block) HasComment() bool {
	return slices.ContainsFunc(b.Parts, func(p *BlockPart) bool { return p.Comment != nil })
}

// ParseLine parses the markup of a single event.
func ParseLine(text string) (*Line, error) {
	line, err := lineParser.ParseString("", text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return line, nil
}

// Plaintext renders the visible text: \N and \n become newlines, \h a space,
// drawings are dropped.
func (l *Line) Plaintext() string {
	var b strings.Builder
	drawing := false
	for _, it := range l.Items {
		switch {
		case it.Block != nil:
			for _, tag := range it.Block.Tags() {
				if tag.Name == "p" {
					drawing = tag.Int(0) > 0
				}
			}
		case it.HardBreak, it.SoftBreak:
			b.WriteByte('\n')
		case it.HardSpace:
			b.WriteByte(' ')
		case it.Text != nil && !drawing:
			b.WriteString(*it.Text)
		}
	}
	return b.String()
}

// Plaintext strips markup from text. Lines that fail to parse fall back to
// removing anything between braces.
func Plaintext(text string) string {
	if line, err := ParseLine(text); err == nil {
		return line.Plaintext()
	}
	return StripTags(text)
}

// StripTags removes override blocks without validating them.
func StripTags(text string) string {
	s := blockPattern.ReplaceAllString(text, "")
	return strings.NewReplacer(`\N`, "\n", `\n`, "\n", `\h`, " ").Replace(s)
}

type argKind int

const (
	argInt argKind = iota
	argFloat
	argColour
	argAlpha
	argString
	argParen
)

type tagSpec struct {
	name string
	kind argKind
	// allowed argument counts for argParen; nil means any
	counts []int
}

// longest names first so that prefixes (b/bord/blur, a/an/alpha) resolve.
var tagSpecs = func() []tagSpec {
	specs := []tagSpec{
		{name: "xbord", kind: argFloat}, {name: "ybord", kind: argFloat},
		{name: "xshad", kind: argFloat}, {name: "yshad", kind: argFloat},
		{name: "iclip", kind: argParen, counts: []int{1, 2, 4}},
		{name: "alpha", kind: argAlpha},
		{name: "fscx", kind: argFloat}, {name: "fscy", kind: argFloat},
		{name: "clip", kind: argParen, counts: []int{1, 2, 4}},
		{name: "move", kind: argParen, counts: []int{4, 6}},
		{name: "fade", kind: argParen, counts: []int{7}},
		{name: "bord", kind: argFloat}, {name: "shad", kind: argFloat},
		{name: "blur", kind: argFloat},
		{name: "fad", kind: argParen, counts: []int{2}},
		{name: "fsp", kind: argFloat},
		{name: "frx", kind: argFloat}, {name: "fry", kind: argFloat}, {name: "frz", kind: argFloat},
		{name: "fax", kind: argFloat}, {name: "fay", kind: argFloat},
		{name: "pos", kind: argParen, counts: []int{2}},
		{name: "org", kind: argParen, counts: []int{2}},
		{name: "pbo", kind: argFloat},
		{name: "fn", kind: argString}, {name: "fs", kind: argFloat}, {name: "fe", kind: argInt},
		{name: "fr", kind: argFloat}, {name: "be", kind: argFloat}, {name: "an", kind: argInt},
		{name: "kf", kind: argInt}, {name: "ko", kind: argInt},
		{name: "1c", kind: argColour}, {name: "2c", kind: argColour},
		{name: "3c", kind: argColour}, {name: "4c", kind: argColour},
		{name: "1a", kind: argAlpha}, {name: "2a", kind: argAlpha},
		{name: "3a", kind: argAlpha}, {name: "4a", kind: argAlpha},
		{name: "c", kind: argColour}, {name: "a", kind: argInt},
		{name: "b", kind: argInt}, {name: "i", kind: argInt},
		{name: "u", kind: argInt}, {name: "s", kind: argInt},
		{name: "k", kind: argInt}, {name: "K", kind: argInt},
		{name: "p", kind: argInt}, {name: "q", kind: argInt},
		{name: "r", kind: argString},
		{name: "t", kind: argParen},
	}
	slices.SortStableFunc(specs, func(a, b tagSpec) int { return len(b.name) - len(a.name) })
	return specs
}()

var hexArg = regexp.MustCompile(`^&?[Hh][0-9A-Fa-f]+&?$`)

// Tag is a single override tag such as \an8 or \pos(10,20).
type Tag struct {
	Name string
	// Value is the raw argument of non-parenthesised tags.
	Value string
	// Args holds the comma separated arguments of parenthesised tags.
	Args []string
	Raw  string
}

// Capture implements participle.Capture.
func (t *Tag) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("empty tag")
	}
	raw := values[0]
	body := strings.TrimPrefix(raw, `\`)
	// whitespace between tags is insignificant
	body = strings.TrimRight(body, " \t")

	var spec *tagSpec
	for i := range tagSpecs {
		if strings.HasPrefix(body, tagSpecs[i].name) {
			spec = &tagSpecs[i]
			break
		}
	}
	if spec == nil {
		return fmt.Errorf("unknown tag %q", raw)
	}
	t.Name = spec.name
	t.Raw = raw
	rest := strings.TrimSpace(body[len(spec.name):])

	if spec.kind == argParen {
		if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
			return fmt.Errorf("tag %q expects parenthesised arguments", raw)
		}
		inner := rest[1 : len(rest)-1]
		if spec.name == "t" {
			t.Args = []string{inner}
			return nil
		}
		args := strings.Split(inner, ",")
		for i := range args {
			args[i] = strings.TrimSpace(args[i])
		}
		if spec.counts != nil && !slices.Contains(spec.counts, len(args)) {
			return fmt.Errorf("tag %q: unexpected argument count %d", raw, len(args))
		}
		if spec.name != "clip" && spec.name != "iclip" || len(args) == 4 {
			for _, a := range args {
				if _, err := strconv.ParseFloat(a, 64); err != nil {
					return fmt.Errorf("tag %q: invalid argument %q", raw, a)
				}
			}
		}
		t.Args = args
		return nil
	}

	t.Value = rest
	if rest == "" {
		return nil
	}
	switch spec.kind {
	case argInt:
		if _, err := strconv.Atoi(rest); err != nil {
			return fmt.Errorf("tag %q: invalid integer %q", raw, rest)
		}
	case argFloat:
		if _, err := strconv.ParseFloat(rest, 64); err != nil {
			return fmt.Errorf("tag %q: invalid number %q", raw, rest)
		}
	case argColour, argAlpha:
		if !hexArg.MatchString(rest) {
			return fmt.Errorf("tag %q: invalid value %q", raw, rest)
		}
	}
	if spec.name == "an" {
		if n, _ := strconv.Atoi(rest); n < 1 || n > 9 {
			return fmt.Errorf("tag %q: alignment out of range", raw)
		}
	}
	return nil
}

// Int returns the integer value of the tag or def when it has none.
func (t *Tag) Int(def int) int {
	n, err := strconv.Atoi(t.Value)
	if err != nil {
		return def
	}
	return n
}

// Float returns the numeric value of the tag or def when it has none.
func (t *Tag) Float(def float64) float64 {
	n, err := strconv.ParseFloat(t.Value, 64)
	if err != nil {
		return def
	}
	return n
}

// IsKaraoke reports whether the tag is one of \k \K \kf \ko.
func (t *Tag) IsKaraoke() bool {
	switch t.Name {
	case "k", "K", "kf", "ko":
		return true
	}
	return false
}
