// Package report renders lint results as text, tables, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/binding"
	"github.com/ByLCY/asslint/lint"
)

// Formats lists the supported output formats.
var Formats = []string{"text", "table", "json", "yaml"}

// Options configures a Writer.
type Options struct {
	Format string
	// Template formats text lines, see TemplateFields.
	Template string
	Color    bool
	// ShowDebug includes debug-level results.
	ShowDebug bool
}

// FileReport holds everything produced for one subtitle file.
type FileReport struct {
	Path    string
	Results []lint.Result
}

// Record is the serialized form of a result.
type Record struct {
	File     string        `json:"file" yaml:"file"`
	Check    string        `json:"check" yaml:"check"`
	Severity lint.Severity `json:"severity" yaml:"severity"`
	Message  string        `json:"message" yaml:"message"`
	Events   []EventRef    `json:"events" yaml:"events"`
}

// EventRef identifies an event in serialized output.
type EventRef struct {
	Number int    `json:"number" yaml:"number"`
	Start  string `json:"start" yaml:"start"`
	End    string `json:"end" yaml:"end"`
	Style  string `json:"style" yaml:"style"`
	Actor  string `json:"actor,omitempty" yaml:"actor,omitempty"`
	Text   string `json:"text" yaml:"text"`
}

func newEventRef(ev ass.Event) EventRef {
	return EventRef{
		Number: ev.Number,
		Start:  ass.FormatTimestamp(ev.Start),
		End:    ass.FormatTimestamp(ev.End),
		Style:  ev.Style,
		Actor:  ev.Actor,
		Text:   ev.Text,
	}
}

// NewRecord converts a result.
func NewRecord(file string, res lint.Result) Record {
	rec := Record{File: file, Check: res.Check, Severity: res.Severity, Message: res.Message, Events: []EventRef{}}
	for _, ev := range res.Events {
		rec.Events = append(rec.Events, newEventRef(ev))
	}
	return rec
}

// Writer renders reports to an output stream.
type Writer struct {
	out  io.Writer
	opts Options
}

// NewWriter validates the format and template.
func NewWriter(out io.Writer, opts Options) (*Writer, error) {
	if opts.Format == "" {
		opts.Format = "text"
	}
	if !slices.Contains(Formats, opts.Format) {
		return nil, fmt.Errorf("unsupported output format %q (want one of %s)", opts.Format, strings.Join(Formats, ", "))
	}
	if err := validateTemplate(opts.Template); err != nil {
		return nil, err
	}
	return &Writer{out: out, opts: opts}, nil
}

// ShouldColor resolves the color mode (auto, always, never) for f.
func ShouldColor(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (w *Writer) records(reports []FileReport) []Record {
	records := []Record{}
	for _, rep := range reports {
		for _, res := range rep.Results {
			if res.Severity == lint.SeverityDebug && !w.opts.ShowDebug {
				continue
			}
			records = append(records, NewRecord(rep.Path, res))
		}
	}
	return records
}

// Write renders every report in order.
func (w *Writer) Write(reports []FileReport) error {
	records := w.records(reports)
	switch w.opts.Format {
	case "json":
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "yaml":
		enc := yaml.NewEncoder(w.out)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		if len(records) == 0 {
			return nil
		}
		_, err := fmt.Fprintln(w.out, w.table(records))
		return err
	default:
		for _, rec := range records {
			if _, err := fmt.Fprintln(w.out, w.line(rec)); err != nil {
				return err
			}
		}
		return nil
	}
}

func refs(rec Record) string {
	parts := make([]string, 0, len(rec.Events))
	for _, ev := range rec.Events {
		if ev.Number > 0 {
			parts = append(parts, fmt.Sprintf("#%d", ev.Number))
		} else {
			parts = append(parts, "#?")
		}
	}
	return strings.Join(parts, "+")
}

func (w *Writer) paint(sev lint.Severity, s string) string {
	if !w.opts.Color {
		return s
	}
	switch sev {
	case lint.SeverityViolation:
		return text.FgRed.Sprint(s)
	case lint.SeverityInfo:
		return text.FgYellow.Sprint(s)
	default:
		return text.FgHiBlack.Sprint(s)
	}
}

func (w *Writer) line(rec Record) string {
	if w.opts.Template != "" {
		return binding.Interpolate(w.opts.Template, templateData(rec, w.paint(rec.Severity, rec.Message)))
	}
	msg := w.paint(rec.Severity, rec.Message)
	if r := refs(rec); r != "" {
		msg = r + ": " + msg
	}
	if rec.File == "" {
		return msg
	}
	return rec.File + ": " + msg
}

// TemplateFields are the placeholders available to text templates.
var TemplateFields = []string{
	"file", "check", "severity", "message", "events",
	"event.number", "event.start", "event.end", "event.style", "event.actor", "event.text",
	"related[i].number",
}

func eventData(ev EventRef) map[string]any {
	return map[string]any{
		"number": ev.Number,
		"start":  ev.Start,
		"end":    ev.End,
		"style":  ev.Style,
		"actor":  ev.Actor,
		"text":   ev.Text,
	}
}

func templateData(rec Record, message string) map[string]any {
	related := make([]any, 0, len(rec.Events))
	for _, ev := range rec.Events {
		related = append(related, eventData(ev))
	}
	primary := map[string]any{"number": "?", "start": "", "end": "", "style": "", "actor": "", "text": ""}
	if len(rec.Events) > 0 {
		primary = eventData(rec.Events[0])
	}
	return map[string]any{
		"file":     rec.File,
		"check":    rec.Check,
		"severity": rec.Severity.String(),
		"message":  message,
		"events":   refs(rec),
		"event":    primary,
		"related":  related,
	}
}

var indexPattern = regexp.MustCompile(`\[\d+\]`)

// validateTemplate checks field names against a one-event record, so any
// index into related is accepted.
func validateTemplate(tmpl string) error {
	sample := templateData(Record{Events: []EventRef{{}}}, "")
	for _, path := range binding.Placeholders(tmpl) {
		if _, ok := binding.Resolve(sample, indexPattern.ReplaceAllString(path, "[0]")); !ok {
			return fmt.Errorf("unknown template field ${%s}", path)
		}
	}
	return nil
}

func (w *Writer) table(records []Record) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Events", "Check", "Severity", "Message"})
	for _, rec := range records {
		tw.AppendRow(table.Row{rec.File, refs(rec), rec.Check, w.paint(rec.Severity, rec.Severity.String()), rec.Message})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 5, WidthMax: 80},
	})
	return tw.Render()
}
