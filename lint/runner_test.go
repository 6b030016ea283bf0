package lint

import (
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/asslint/ass"
)

type staticCheck struct{ results []Result }

func (s staticCheck) Run() iter.Seq2[Result, error] {
	return func(yield func(Result, error) bool) {
		for _, r := range s.results {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// echoCheck reports every event and fails on the event numbered failOn.
type echoCheck struct{ failOn int }

func (e echoCheck) RunForEvent(ev ass.Event) iter.Seq2[Result, error] {
	return func(yield func(Result, error) bool) {
		if ev.Number == e.failOn {
			yield(Result{}, errors.New("boom"))
			return
		}
		yield(Info(ev.Text, ev), nil)
	}
}

func newTestContext(t *testing.T, texts ...string) *Context {
	t.Helper()
	doc := &ass.File{Events: events(texts...)}
	ctx, err := NewContext(doc, ContextOptions{})
	require.NoError(t, err)
	return ctx
}

func static(name string, msgs ...string) Registration {
	return Document(name, func(*Context) (DocumentCheck, error) {
		var rs []Result
		for _, m := range msgs {
			rs = append(rs, Violation(m))
		}
		return staticCheck{results: rs}, nil
	})
}

func messages(rs []Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Check + ":" + r.Message
	}
	return out
}

func TestRunnerPreservesOrder(t *testing.T) {
	ctx := newTestContext(t, "a", "b")
	r := &Runner{Registrations: []Registration{
		static("first", "1", "2"),
		PerEvent("events", func(*Context) (EventCheck, error) { return echoCheck{}, nil }),
		static("last", "3"),
	}}
	results, errs := Collect(r.Run(ctx))
	assert.Empty(t, errs)
	assert.Equal(t, []string{"first:1", "first:2", "events:a", "events:b", "last:3"}, messages(results))
}

func TestRunnerSkipsFailedConstruction(t *testing.T) {
	ctx := newTestContext(t, "a")
	broken := Document("broken", func(*Context) (DocumentCheck, error) {
		return nil, ErrConfigurationUnavailable
	})
	r := &Runner{Registrations: []Registration{broken, static("ok", "fine")}}
	results, errs := Collect(r.Run(ctx))
	assert.Empty(t, errs)
	assert.Equal(t, []string{"ok:fine"}, messages(results))
}

func TestRunnerAbortsOnlyFailingCheck(t *testing.T) {
	ctx := newTestContext(t, "a", "b", "c")
	r := &Runner{Registrations: []Registration{
		PerEvent("flaky", func(*Context) (EventCheck, error) { return echoCheck{failOn: 2}, nil }),
		static("after", "still runs"),
	}}
	results, errs := Collect(r.Run(ctx))
	assert.Equal(t, []string{"flaky:a", "after:still runs"}, messages(results))
	require.Len(t, errs, 1)

	var checkErr *CheckError
	require.ErrorAs(t, errs[0], &checkErr)
	assert.Equal(t, "flaky", checkErr.Check)
	assert.EqualError(t, checkErr.Err, "boom")
}

func TestRunnerThoroughAndDisabled(t *testing.T) {
	ctx := newTestContext(t)
	regs := []Registration{static("quick", "q"), static("slow", "s").ThoroughOnly(), static("noisy", "n")}

	results, _ := Collect((&Runner{Registrations: regs}).Run(ctx))
	assert.Equal(t, []string{"quick:q", "noisy:n"}, messages(results))

	results, _ = Collect((&Runner{Registrations: regs, Thorough: true, Disabled: []string{"noisy"}}).Run(ctx))
	assert.Equal(t, []string{"quick:q", "slow:s"}, messages(results))
}

func TestRunnerStopsWhenConsumerStops(t *testing.T) {
	ctx := newTestContext(t)
	r := &Runner{Registrations: []Registration{static("a", "1", "2"), static("b", "3")}}
	var seen []string
	for res := range r.Run(ctx) {
		seen = append(seen, res.Message)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"1", "2"}, seen)
}

func TestContextLanguage(t *testing.T) {
	doc := &ass.File{}
	ctx, err := NewContext(doc, ContextOptions{})
	require.NoError(t, err)
	assert.True(t, ctx.IsEnglish())

	doc.ScriptInfo.Set("Language", "pl_PL")
	ctx, err = NewContext(doc, ContextOptions{})
	require.NoError(t, err)
	assert.False(t, ctx.IsEnglish())
	assert.Equal(t, "pl-PL", ctx.Language.String())

	// the header wins over the configured fallback
	ctx, err = NewContext(doc, ContextOptions{Language: "en-GB"})
	require.NoError(t, err)
	assert.False(t, ctx.IsEnglish())

	ctx, err = NewContext(&ass.File{}, ContextOptions{Language: "de"})
	require.NoError(t, err)
	assert.False(t, ctx.IsEnglish())
	assert.Equal(t, "de", ctx.Language.String())
}
