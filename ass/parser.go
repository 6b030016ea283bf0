package ass

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrFormat is wrapped by every script-level parse error.
var ErrFormat = errors.New("ass: malformed script")

var (
	defaultStyleFormat = []string{
		"name", "fontname", "fontsize", "primarycolour", "secondarycolour",
		"outlinecolour", "backcolour", "bold", "italic", "underline", "strikeout",
		"scalex", "scaley", "spacing", "angle", "borderstyle", "outline", "shadow",
		"alignment", "marginl", "marginr", "marginv", "encoding",
	}
	defaultEventFormat = []string{
		"layer", "start", "end", "style", "name", "marginl", "marginr", "marginv", "effect", "text",
	}
)

// ParseError points at the offending line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Msg) }

func (e *ParseError) Unwrap() error { return ErrFormat }

// ParseFile reads and parses the script at path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// ParseString parses a script held in memory.
func ParseString(input string) (*File, error) {
	return Parse(strings.NewReader(input))
}

// Parse reads a complete script. Unknown sections (fonts, graphics, project
// garbage) are skipped.
func Parse(r io.Reader) (*File, error) {
	p := &scriptParser{
		file:        &File{},
		styleFormat: defaultStyleFormat,
		eventFormat: defaultEventFormat,
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		p.line++
		text := sc.Text()
		if p.line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if err := p.feed(strings.TrimRight(text, "\r")); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return p.file, nil
}

type scriptParser struct {
	file        *File
	line        int
	section     string
	styleFormat []string
	eventFormat []string
}

func (p *scriptParser) feed(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		p.section = strings.ToLower(trimmed[1 : len(trimmed)-1])
		return nil
	}
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return nil
	}
	key = strings.TrimSpace(key)
	value = strings.TrimLeft(value, " \t")

	switch p.section {
	case "script info":
		if strings.HasPrefix(trimmed, ";") {
			return nil
		}
		p.file.ScriptInfo.Set(key, strings.TrimSpace(value))
	case "v4+ styles", "v4 styles", "v4 styles+":
		switch key {
		case "Format":
			p.styleFormat = splitFormat(value)
		case "Style":
			style, err := p.parseStyle(value)
			if err != nil {
				return err
			}
			p.file.Styles = append(p.file.Styles, style)
		}
	case "events":
		switch key {
		case "Format":
			p.eventFormat = splitFormat(value)
		case "Dialogue", "Comment":
			ev, err := p.parseEvent(value, key == "Comment")
			if err != nil {
				return err
			}
			ev.Number = len(p.file.Events) + 1
			p.file.Events = append(p.file.Events, ev)
		}
	}
	return nil
}

func splitFormat(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.ToLower(strings.TrimSpace(part)))
	}
	return out
}

// fields splits value into len(format) fields; the last one keeps its commas.
func (p *scriptParser) fields(value string, format []string) (map[string]string, error) {
	parts := strings.SplitN(value, ",", len(format))
	if len(parts) != len(format) {
		return nil, &ParseError{Line: p.line, Msg: fmt.Sprintf("expected %d fields, got %d", len(format), len(parts))}
	}
	out := make(map[string]string, len(format))
	for i, name := range format {
		if i == len(format)-1 {
			out[name] = parts[i]
			continue
		}
		out[name] = strings.TrimSpace(parts[i])
	}
	return out, nil
}

func (p *scriptParser) parseStyle(value string) (Style, error) {
	f, err := p.fields(value, p.styleFormat)
	if err != nil {
		return Style{}, err
	}
	s := DefaultStyle()
	s.Name = strings.TrimSpace(f["name"])
	if v, ok := f["fontname"]; ok {
		s.FontName = strings.TrimSpace(v)
	}
	var perr error
	num := func(key string, dst *float64) {
		v, ok := f[key]
		if !ok || perr != nil {
			return
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			perr = &ParseError{Line: p.line, Msg: fmt.Sprintf("style %q: invalid %s %q", s.Name, key, v)}
			return
		}
		*dst = n
	}
	integer := func(key string, dst *int) {
		var n float64
		if _, ok := f[key]; !ok {
			return
		}
		num(key, &n)
		*dst = int(n)
	}
	flag := func(key string, dst *bool) {
		var n float64
		if _, ok := f[key]; !ok {
			return
		}
		num(key, &n)
		*dst = n != 0
	}
	colour := func(key string, dst *Colour) {
		v, ok := f[key]
		if !ok || perr != nil {
			return
		}
		c, err := ParseColour(v)
		if err != nil {
			perr = &ParseError{Line: p.line, Msg: fmt.Sprintf("style %q: %v", s.Name, err)}
			return
		}
		*dst = c
	}

	num("fontsize", &s.FontSize)
	colour("primarycolour", &s.PrimaryColour)
	colour("outlinecolour", &s.OutlineColour)
	colour("backcolour", &s.BackColour)
	flag("bold", &s.Bold)
	flag("italic", &s.Italic)
	flag("underline", &s.Underline)
	flag("strikeout", &s.StrikeOut)
	num("scalex", &s.ScaleX)
	num("scaley", &s.ScaleY)
	num("spacing", &s.Spacing)
	num("angle", &s.Angle)
	integer("borderstyle", &s.BorderStyle)
	num("outline", &s.Outline)
	num("shadow", &s.Shadow)
	integer("alignment", &s.Alignment)
	integer("marginl", &s.MarginL)
	integer("marginr", &s.MarginR)
	integer("marginv", &s.MarginV)
	integer("encoding", &s.Encoding)
	if perr != nil {
		return Style{}, perr
	}
	return s, nil
}

func (p *scriptParser) parseEvent(value string, comment bool) (Event, error) {
	f, err := p.fields(value, p.eventFormat)
	if err != nil {
		return Event{}, err
	}
	ev := Event{
		Style:   f["style"],
		Actor:   f["name"],
		Effect:  f["effect"],
		Text:    f["text"],
		Comment: comment,
	}
	if ev.Start, err = ParseTimestamp(f["start"]); err != nil {
		return Event{}, &ParseError{Line: p.line, Msg: err.Error()}
	}
	if ev.End, err = ParseTimestamp(f["end"]); err != nil {
		return Event{}, &ParseError{Line: p.line, Msg: err.Error()}
	}
	for key, dst := range map[string]*int{
		"layer":   &ev.Layer,
		"marginl": &ev.MarginL,
		"marginr": &ev.MarginR,
		"marginv": &ev.MarginV,
	} {
		v := strings.TrimSpace(f[key])
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Event{}, &ParseError{Line: p.line, Msg: fmt.Sprintf("invalid %s %q", key, v)}
		}
		*dst = n
	}
	return ev, nil
}

// ParseColour decodes &HAABBGGRR / &HBBGGRR colour literals.
func ParseColour(v string) (Colour, error) {
	s := strings.TrimSpace(v)
	s = strings.TrimSuffix(s, "&")
	s = strings.TrimPrefix(s, "&")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "H"), "h")
	if s == "" {
		return Colour{}, fmt.Errorf("invalid colour %q", v)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Colour{}, fmt.Errorf("invalid colour %q", v)
	}
	return Colour{
		R: uint8(n),
		G: uint8(n >> 8),
		B: uint8(n >> 16),
		A: uint8(n >> 24),
	}, nil
}
