package checks

import "github.com/ByLCY/asslint/lint"

// Check names, as used by the disable list and in reports.
const (
	NameStyleValidity     = "style-validity"
	NameAssTags           = "ass-tags"
	NameDurations         = "durations"
	NamePunctuation       = "punctuation"
	NameQuotes            = "quotes"
	NameLineContinuation  = "line-continuation"
	NameDoubleWords       = "double-words"
	NameUnnecessaryBreaks = "unnecessary-breaks"
	NameLongLines         = "long-lines"
	NameOffscreen         = "offscreen"
	NameVideoResolution   = "video-resolution"
)

// Registrations returns the full battery in the order it runs.
func Registrations() []lint.Registration {
	return []lint.Registration{
		lint.PerEvent(NameStyleValidity, NewStyleValidity),
		lint.PerEvent(NameAssTags, NewAssTags),
		lint.PerEvent(NameDurations, NewDurations),
		lint.PerEvent(NamePunctuation, NewPunctuation),
		lint.PerEvent(NameQuotes, NewQuotes),
		lint.PerEvent(NameLineContinuation, NewLineContinuation),
		lint.PerEvent(NameDoubleWords, NewDoubleWords),
		lint.PerEvent(NameUnnecessaryBreaks, NewUnnecessaryBreaks),
		lint.PerEvent(NameLongLines, NewLongLines),
		lint.PerEvent(NameOffscreen, NewOffscreen).ThoroughOnly(),
		lint.Document(NameVideoResolution, NewVideoResolution),
	}
}

// Names lists every registered check name.
func Names() []string {
	regs := Registrations()
	names := make([]string, len(regs))
	for i, r := range regs {
		names[i] = r.Name
	}
	return names
}
