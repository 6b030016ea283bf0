package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/lint"
)

func sampleReports() []FileReport {
	first := ass.Event{Number: 1, Start: 1000, End: 2500, Style: "Default", Actor: "Alice", Text: "Hello"}
	second := ass.Event{Number: 2, Start: 2600, End: 3000, Style: "Default", Text: "world"}

	withCheck := func(res lint.Result, check string) lint.Result {
		res.Check = check
		return res
	}
	return []FileReport{{
		Path: "ep01.ass",
		Results: []lint.Result{
			withCheck(lint.Violation("gap shorter than 250 ms (100 ms)", first, second), "durations"),
			withCheck(lint.Info("plain quotation mark", second), "quotes"),
			withCheck(lint.Debug("punctuation outside quotation marks", first), "quotes"),
			withCheck(lint.Violation("Unknown video resolution."), "video-resolution"),
		},
	}}
}

func write(t *testing.T, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, opts)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleReports()))
	return buf.String()
}

func TestWriteText(t *testing.T) {
	out := write(t, Options{})
	assert.Equal(t, "ep01.ass: #1+#2: gap shorter than 250 ms (100 ms)\n"+
		"ep01.ass: #2: plain quotation mark\n"+
		"ep01.ass: Unknown video resolution.\n", out)

	withDebug := write(t, Options{ShowDebug: true})
	assert.Contains(t, withDebug, "ep01.ass: #1: punctuation outside quotation marks\n")
}

func TestWriteTemplate(t *testing.T) {
	out := write(t, Options{Template: "${file}:${event.number} [${severity}] ${check}: ${message} @ ${event.start}"})
	assert.Equal(t, "ep01.ass:1 [violation] durations: gap shorter than 250 ms (100 ms) @ 0:00:01.00\n"+
		"ep01.ass:2 [info] quotes: plain quotation mark @ 0:00:02.60\n"+
		"ep01.ass:? [violation] video-resolution: Unknown video resolution. @ \n", out)

	related := write(t, Options{Template: "${events} ${related[1].number}"})
	assert.Contains(t, related, "#1+#2 2\n")
}

func TestWriteColor(t *testing.T) {
	text.EnableColors()
	out := write(t, Options{Color: true})
	assert.Contains(t, out, "\x1b[31mgap shorter than 250 ms (100 ms)")
	assert.Contains(t, out, "\x1b[33mplain quotation mark")
	assert.NotContains(t, write(t, Options{}), "\x1b[")
}

func TestWriteJSON(t *testing.T) {
	var records []Record
	require.NoError(t, json.Unmarshal([]byte(write(t, Options{Format: "json"})), &records))
	require.Len(t, records, 3)
	assert.Equal(t, "durations", records[0].Check)
	require.Len(t, records[0].Events, 2)
	assert.Equal(t, "0:00:01.00", records[0].Events[0].Start)
	assert.Equal(t, "Alice", records[0].Events[0].Actor)
	assert.Empty(t, records[2].Events)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal([]byte(write(t, Options{Format: "json"})), &raw))
	assert.Equal(t, "violation", raw[0]["severity"])
}

func TestWriteYAML(t *testing.T) {
	var raw []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(write(t, Options{Format: "yaml"})), &raw))
	require.Len(t, raw, 3)
	assert.Equal(t, "info", raw[1]["severity"])
	assert.Equal(t, "plain quotation mark", raw[1]["message"])
}

func TestWriteTable(t *testing.T) {
	out := write(t, Options{Format: "table"})
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "#1+#2")
	assert.Contains(t, out, "video-resolution")
	assert.NotContains(t, out, "punctuation outside")

	var empty bytes.Buffer
	w, err := NewWriter(&empty, Options{Format: "table"})
	require.NoError(t, err)
	require.NoError(t, w.Write(nil))
	assert.Empty(t, empty.String())
}

func TestEmptyJSONIsArray(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Options{Format: "json"})
	require.NoError(t, err)
	require.NoError(t, w.Write(nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestNewWriterRejects(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Options{Format: "xml"})
	assert.ErrorContains(t, err, "unsupported output format")

	_, err = NewWriter(&bytes.Buffer{}, Options{Template: "${file} ${nope}"})
	assert.ErrorContains(t, err, "nope")
}

func TestShouldColor(t *testing.T) {
	assert.True(t, ShouldColor("always", nil))
	assert.False(t, ShouldColor("never", nil))
	assert.False(t, ShouldColor("auto", nil))
}
