package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/layout"
	"github.com/ByLCY/asslint/lint"
)

func newDoc(events ...ass.Event) *ass.File {
	doc := &ass.File{Styles: []ass.Style{ass.DefaultStyle()}}
	doc.ScriptInfo.Set("PlayResX", "1280")
	doc.ScriptInfo.Set("PlayResY", "720")
	for i, ev := range events {
		if ev.Number == 0 {
			ev.Number = i + 1
		}
		if ev.Style == "" {
			ev.Style = "Default"
		}
		doc.Events = append(doc.Events, ev)
	}
	return doc
}

func textEvents(texts ...string) []ass.Event {
	out := make([]ass.Event, len(texts))
	for i, text := range texts {
		out[i] = ass.Event{Start: i * 5000, End: i*5000 + 2000, Text: text}
	}
	return out
}

func newContext(t *testing.T, doc *ass.File) *lint.Context {
	t.Helper()
	ctx, err := lint.NewContext(doc, lint.ContextOptions{})
	require.NoError(t, err)
	return ctx
}

// runAll feeds every document event to the check, like the runner does.
func runAll(t *testing.T, check lint.EventCheck, doc *ass.File) []lint.Result {
	t.Helper()
	var out []lint.Result
	for _, ev := range doc.Events {
		for res, err := range check.RunForEvent(ev) {
			require.NoError(t, err)
			out = append(out, res)
		}
	}
	return out
}

func messages(results []lint.Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Message)
	}
	return out
}

// fakeMeasurer returns fixed boxes keyed by event text.
type fakeMeasurer struct {
	boxes map[string]layout.Box
	seen  []string
	err   error
}

func (f *fakeMeasurer) Measure(ev ass.Event) (layout.Box, error) {
	f.seen = append(f.seen, ev.Text)
	if f.err != nil {
		return layout.Box{}, f.err
	}
	return f.boxes[ev.Text], nil
}

func TestActorPredicates(t *testing.T) {
	cases := []struct {
		actor    string
		karaoke  bool
		title    bool
		sign     bool
		credits  bool
		dialogue bool
	}{
		{actor: "", dialogue: true},
		{actor: "Alice", dialogue: true},
		{actor: "karaoke", karaoke: true},
		{actor: "[karaoke]", karaoke: true},
		{actor: "(title)", title: true},
		{actor: "sign", sign: true},
		{actor: "[episode title]", sign: true},
		{actor: "series title", sign: true},
		{actor: "credits", credits: true},
	}
	for _, tc := range cases {
		ev := ass.Event{Actor: tc.actor}
		assert.Equal(t, tc.karaoke, IsKaraoke(ev), tc.actor)
		assert.Equal(t, tc.title, IsTitle(ev), tc.actor)
		assert.Equal(t, tc.sign, IsSign(ev), tc.actor)
		assert.Equal(t, tc.credits, IsCredits(ev), tc.actor)
		assert.Equal(t, tc.dialogue, IsDialogue(ev), tc.actor)
	}
}
