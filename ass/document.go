package ass

import (
	"slices"
	"strconv"
	"strings"
)

// File is a parsed ASS/SSA script.
type File struct {
	ScriptInfo ScriptInfo `json:"scriptInfo"`
	Styles     []Style    `json:"styles"`
	Events     []Event    `json:"events"`
}

// ScriptInfo keeps [Script Info] entries in file order.
type ScriptInfo struct {
	keys   []string
	values map[string]string
}

// Get returns the value stored under key.
func (s *ScriptInfo) Get(key string) (string, bool) {
	if s == nil || s.values == nil {
		return "", false
	}
	v, ok := s.values[key]
	return v, ok
}

// Int returns the integer value under key, 0 when absent or malformed.
func (s *ScriptInfo) Int(key string) int {
	v, ok := s.Get(key)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

// Set stores value under key, keeping the original position of existing keys.
func (s *ScriptInfo) Set(key, value string) {
	if s.values == nil {
		s.values = map[string]string{}
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Keys returns the keys in insertion order.
func (s *ScriptInfo) Keys() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.keys)
}

// Update copies every entry of other into s.
func (s *ScriptInfo) Update(other ScriptInfo) {
	for _, k := range other.keys {
		s.Set(k, other.values[k])
	}
}

// MarshalJSON renders the entries as a plain object.
func (s ScriptInfo) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(k))
		b.WriteByte(':')
		b.WriteString(strconv.Quote(s.values[k]))
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// Style is a [V4+ Styles] entry. Sizes and margins are in script pixels.
type Style struct {
	Name          string  `json:"name"`
	FontName      string  `json:"fontName"`
	FontSize      float64 `json:"fontSize"`
	PrimaryColour Colour  `json:"primaryColour"`
	OutlineColour Colour  `json:"outlineColour"`
	BackColour    Colour  `json:"backColour"`
	Bold          bool    `json:"bold"`
	Italic        bool    `json:"italic"`
	Underline     bool    `json:"underline"`
	StrikeOut     bool    `json:"strikeOut"`
	ScaleX        float64 `json:"scaleX"`
	ScaleY        float64 `json:"scaleY"`
	Spacing       float64 `json:"spacing"`
	Angle         float64 `json:"angle"`
	BorderStyle   int     `json:"borderStyle"`
	Outline       float64 `json:"outline"`
	Shadow        float64 `json:"shadow"`
	Alignment     int     `json:"alignment"`
	MarginL       int     `json:"marginL"`
	MarginR       int     `json:"marginR"`
	MarginV       int     `json:"marginV"`
	Encoding      int     `json:"encoding"`
}

// DefaultStyle mirrors the values most authoring tools write for "Default".
func DefaultStyle() Style {
	return Style{
		Name:          "Default",
		FontName:      "Arial",
		FontSize:      20,
		PrimaryColour: Colour{R: 255, G: 255, B: 255},
		ScaleX:        100,
		ScaleY:        100,
		BorderStyle:   1,
		Outline:       2,
		Shadow:        2,
		Alignment:     2,
		MarginL:       10,
		MarginR:       10,
		MarginV:       10,
		Encoding:      1,
	}
}

// Event is a Dialogue or Comment line. Start and End are milliseconds.
type Event struct {
	Number  int    `json:"number"`
	Layer   int    `json:"layer"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Style   string `json:"style"`
	Actor   string `json:"actor"`
	MarginL int    `json:"marginL"`
	MarginR int    `json:"marginR"`
	MarginV int    `json:"marginV"`
	Effect  string `json:"effect"`
	Text    string `json:"text"`
	Comment bool   `json:"comment"`
}

// Duration returns End-Start in milliseconds.
func (e Event) Duration() int { return e.End - e.Start }

// Colour is an RGBA colour; A follows ASS semantics (0 = opaque).
type Colour struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Style returns the style named name.
func (f *File) Style(name string) (Style, bool) {
	if f == nil {
		return Style{}, false
	}
	for _, s := range f.Styles {
		if s.Name == name {
			return s, true
		}
	}
	return Style{}, false
}

// PlayRes returns the declared PlayResX/PlayResY, 0 meaning unknown.
func (f *File) PlayRes() (int, int) {
	if f == nil {
		return 0, 0
	}
	return f.ScriptInfo.Int("PlayResX"), f.ScriptInfo.Int("PlayResY")
}

// Synthetic returns a new file that shares nothing with f: script info and
// styles are copied and events holds copies of the given events.
func (f *File) Synthetic(events ...Event) *File {
	out := &File{}
	if f != nil {
		out.ScriptInfo.Update(f.ScriptInfo)
		out.Styles = slices.Clone(f.Styles)
	}
	out.Events = slices.Clone(events)
	return out
}
