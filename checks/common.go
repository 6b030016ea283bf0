// Package checks holds the rule battery run against every subtitle file.
package checks

import (
	"iter"
	"slices"
	"strings"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/lint"
)

// Actor names that mark non-dialogue events. Brackets around the actor are
// ignored, so "[karaoke]" counts as karaoke.
const (
	ActorKaraoke      = "karaoke"
	ActorTitle        = "title"
	ActorSign         = "sign"
	ActorEpisodeTitle = "episode title"
	ActorSeriesTitle  = "series title"
	ActorCredits      = "credits"
)

func stripBrackets(s string) string {
	return strings.TrimRight(strings.TrimLeft(s, "[("), ")]")
}

func actorIs(ev ass.Event, names ...string) bool {
	return slices.Contains(names, stripBrackets(ev.Actor))
}

// IsKaraoke reports karaoke events.
func IsKaraoke(ev ass.Event) bool { return actorIs(ev, ActorKaraoke) }

// IsTitle reports title cards.
func IsTitle(ev ass.Event) bool { return actorIs(ev, ActorTitle) }

// IsSign reports typeset signs, episode and series titles included.
func IsSign(ev ass.Event) bool { return actorIs(ev, ActorSign, ActorEpisodeTitle, ActorSeriesTitle) }

// IsCredits reports staff credits.
func IsCredits(ev ass.Event) bool { return actorIs(ev, ActorCredits) }

// IsDialogue reports events that are none of the above.
func IsDialogue(ev ass.Event) bool {
	return !IsSign(ev) && !IsTitle(ev) && !IsKaraoke(ev) && !IsCredits(ev)
}

// wordsWithPeriod end in a dot without ending a sentence.
var wordsWithPeriod = []string{"vs.", "Mrs.", "Mr.", "Jr.", "U.F.O.", "a.k.a."}

// stream turns precomputed results into a result stream.
func stream(results ...lint.Result) iter.Seq2[lint.Result, error] {
	return func(yield func(lint.Result, error) bool) {
		for _, r := range results {
			if !yield(r, nil) {
				return
			}
		}
	}
}
