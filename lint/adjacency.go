package lint

import (
	"strings"

	"github.com/ByLCY/asslint/ass"
)

// AdjacencyIndex links every contentful event to the nearest contentful
// events before and after it. Contentful means: not a comment and with
// non-blank visible text.
type AdjacencyIndex struct {
	events   map[int]ass.Event
	next     map[int]int
	previous map[int]int
}

// Contentful reports whether ev shows any text on screen.
func Contentful(ev ass.Event) bool {
	return !ev.Comment && strings.TrimSpace(ass.Plaintext(ev.Text)) != ""
}

// NewAdjacencyIndex scans events in file order.
func NewAdjacencyIndex(events []ass.Event) *AdjacencyIndex {
	idx := &AdjacencyIndex{
		events:   map[int]ass.Event{},
		next:     map[int]int{},
		previous: map[int]int{},
	}
	last, haveLast := 0, false
	for _, ev := range events {
		if !Contentful(ev) {
			continue
		}
		idx.events[ev.Number] = ev
		if haveLast {
			idx.next[last] = ev.Number
			idx.previous[ev.Number] = last
		}
		last, haveLast = ev.Number, true
	}
	return idx
}

// Next returns the following contentful event.
func (a *AdjacencyIndex) Next(ev ass.Event) (ass.Event, bool) {
	return a.follow(a.next, ev)
}

// Prev returns the preceding contentful event.
func (a *AdjacencyIndex) Prev(ev ass.Event) (ass.Event, bool) {
	return a.follow(a.previous, ev)
}

func (a *AdjacencyIndex) follow(links map[int]int, ev ass.Event) (ass.Event, bool) {
	n, ok := links[ev.Number]
	if !ok {
		return ass.Event{}, false
	}
	return a.events[n], true
}
