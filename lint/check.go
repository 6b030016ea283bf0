package lint

import (
	"iter"

	"github.com/ByLCY/asslint/ass"
)

// Check is what the runner drives: a named, lazy stream of results.
type Check interface {
	Name() string
	Results() iter.Seq2[Result, error]
}

// DocumentCheck inspects the document as a whole.
type DocumentCheck interface {
	Run() iter.Seq2[Result, error]
}

// EventCheck inspects one event at a time. The runner feeds it every event
// of the document in file order, comments included.
type EventCheck interface {
	RunForEvent(ev ass.Event) iter.Seq2[Result, error]
}

// Kind tells whole-document checks from per-event checks.
type Kind int

const (
	KindEvent Kind = iota
	KindDocument
)

func (k Kind) String() string {
	if k == KindDocument {
		return "document"
	}
	return "event"
}

// Registration describes how to build a check for a context. The check kind
// is fixed here, so the runner never inspects types.
type Registration struct {
	Name string
	Kind Kind
	// Thorough checks only run with --full.
	Thorough bool
	open     func(ctx *Context) (Check, error)
}

// Document registers a whole-document check.
func Document(name string, factory func(ctx *Context) (DocumentCheck, error)) Registration {
	return Registration{
		Name: name,
		Kind: KindDocument,
		open: func(ctx *Context) (Check, error) {
			c, err := factory(ctx)
			if err != nil {
				return nil, err
			}
			return &documentAdapter{name: name, check: c}, nil
		},
	}
}

// PerEvent registers a per-event check.
func PerEvent(name string, factory func(ctx *Context) (EventCheck, error)) Registration {
	return Registration{
		Name: name,
		Kind: KindEvent,
		open: func(ctx *Context) (Check, error) {
			c, err := factory(ctx)
			if err != nil {
				return nil, err
			}
			return &eventAdapter{name: name, check: c, events: ctx.Doc.Events}, nil
		},
	}
}

// ThoroughOnly returns a copy of r gated behind thorough mode.
func (r Registration) ThoroughOnly() Registration {
	r.Thorough = true
	return r
}

// Open constructs the check for ctx.
func (r Registration) Open(ctx *Context) (Check, error) {
	return r.open(ctx)
}

type documentAdapter struct {
	name  string
	check DocumentCheck
}

func (d *documentAdapter) Name() string { return d.name }

func (d *documentAdapter) Results() iter.Seq2[Result, error] { return d.check.Run() }

type eventAdapter struct {
	name   string
	check  EventCheck
	events []ass.Event
}

func (e *eventAdapter) Name() string { return e.name }

// Results concatenates the per-event streams and stops at the first error.
func (e *eventAdapter) Results() iter.Seq2[Result, error] {
	return func(yield func(Result, error) bool) {
		for _, ev := range e.events {
			for res, err := range e.check.RunForEvent(ev) {
				if !yield(res, err) || err != nil {
					return
				}
			}
		}
	}
}
