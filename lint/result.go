package lint

import (
	"strconv"
	"strings"

	"github.com/ByLCY/asslint/ass"
)

// Result is one diagnostic. The first event is the primary one.
type Result struct {
	Check    string      `json:"check" yaml:"check"`
	Severity Severity    `json:"severity" yaml:"severity"`
	Message  string      `json:"message" yaml:"message"`
	Events   []ass.Event `json:"events" yaml:"events"`
}

// Violation reports a rule breach.
func Violation(msg string, events ...ass.Event) Result {
	return Result{Severity: SeverityViolation, Message: msg, Events: events}
}

// Info reports something worth a second look.
func Info(msg string, events ...ass.Event) Result {
	return Result{Severity: SeverityInfo, Message: msg, Events: events}
}

// Debug reports something only shown with --debug.
func Debug(msg string, events ...ass.Event) Result {
	return Result{Severity: SeverityDebug, Message: msg, Events: events}
}

// Primary returns the first associated event.
func (r Result) Primary() (ass.Event, bool) {
	if len(r.Events) == 0 {
		return ass.Event{}, false
	}
	return r.Events[0], true
}

// EventRefs renders the associated events as "#1+#2".
func (r Result) EventRefs() string {
	refs := make([]string, 0, len(r.Events))
	for _, ev := range r.Events {
		if ev.Number > 0 {
			refs = append(refs, "#"+strconv.Itoa(ev.Number))
		} else {
			refs = append(refs, "#?")
		}
	}
	return strings.Join(refs, "+")
}

func (r Result) String() string {
	if len(r.Events) == 0 {
		return r.Message
	}
	return r.EventRefs() + ": " + r.Message
}
