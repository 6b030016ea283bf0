package checks_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/checks"
	"github.com/ByLCY/asslint/lint"
	canvasrenderer "github.com/ByLCY/asslint/renderer/canvas"
)

func TestRegistrationOrder(t *testing.T) {
	assert.Equal(t, []string{
		"style-validity", "ass-tags", "durations", "punctuation", "quotes",
		"line-continuation", "double-words", "unnecessary-breaks", "long-lines",
		"offscreen", "video-resolution",
	}, checks.Names())

	for _, reg := range checks.Registrations() {
		assert.Equal(t, reg.Name == checks.NameOffscreen, reg.Thorough, reg.Name)
		wantKind := lint.KindEvent
		if reg.Name == checks.NameVideoResolution {
			wantKind = lint.KindDocument
		}
		assert.Equal(t, wantKind, reg.Kind, reg.Name)
	}
}

const sampleScript = `[Script Info]
ScriptType: v4.00+
PlayResX: 1280
PlayResY: 720
WrapStyle: 0

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,No Such Font,48,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,40,40,30,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:04.00,Default,,0,0,0,,Short line.
Dialogue: 0,0:00:05.00,0:00:08.00,Default,,0,0,0,,Hi\Nthere.
Dialogue: 0,0:00:09.00,0:00:15.00,Default,,0,0,0,,This sentence keeps going and going for much longer than anybody could comfortably read in one go, and then it continues even further past every sensible limit for a subtitle.
Dialogue: 0,0:00:16.00,0:00:19.00,Default,,0,0,0,,{\an7\pos(-300,300)}Way off to the left.
`

func TestEndToEnd(t *testing.T) {
	doc, err := ass.ParseString(sampleScript)
	require.NoError(t, err)

	ctx, err := lint.NewContext(doc, lint.ContextOptions{Path: "sample.ass", Renderer: canvasrenderer.NewRenderer("")})
	require.NoError(t, err)

	runner := &lint.Runner{Registrations: checks.Registrations(), Thorough: true}
	results, errs := lint.Collect(runner.Run(ctx))
	require.Empty(t, errs)

	byCheck := map[string][]lint.Result{}
	for _, r := range results {
		byCheck[r.Check] = append(byCheck[r.Check], r)
	}

	require.Len(t, byCheck[checks.NameUnnecessaryBreaks], 1)
	breaks := byCheck[checks.NameUnnecessaryBreaks][0]
	assert.Equal(t, 2, breaks.Events[0].Number)
	assert.True(t, strings.HasPrefix(breaks.Message, "possibly unnecessary break ("), breaks.Message)

	require.NotEmpty(t, byCheck[checks.NameLongLines])
	for _, r := range byCheck[checks.NameLongLines] {
		assert.Equal(t, 3, r.Events[0].Number, r.Message)
	}

	require.Len(t, byCheck[checks.NameOffscreen], 1)
	assert.Equal(t, 4, byCheck[checks.NameOffscreen][0].Events[0].Number)

	assert.Empty(t, byCheck[checks.NameVideoResolution])
	assert.Empty(t, byCheck[checks.NameStyleValidity])

	// the renderer is left bound to the linted document
	bound, _ := ctx.Renderer.Binding()
	assert.Same(t, doc, bound)
}

func TestDisabledLayoutChecksOnUnknownAspect(t *testing.T) {
	doc, err := ass.ParseString(strings.Replace(sampleScript, "PlayResY: 720", "PlayResY: 1280", 1))
	require.NoError(t, err)
	ctx, err := lint.NewContext(doc, lint.ContextOptions{Renderer: canvasrenderer.NewRenderer("")})
	require.NoError(t, err)

	runner := &lint.Runner{Registrations: checks.Registrations()}
	results, errs := lint.Collect(runner.Run(ctx))
	require.Empty(t, errs)
	var resolution []string
	for _, r := range results {
		assert.NotEqual(t, checks.NameLongLines, r.Check)
		assert.NotEqual(t, checks.NameUnnecessaryBreaks, r.Check)
		if r.Check == checks.NameVideoResolution {
			resolution = append(resolution, r.Message)
		}
	}
	assert.Equal(t, []string{"Unknown aspect ratio."}, resolution)
}

const marginScript = `[Script Info]
ScriptType: v4.00+
PlayResX: 1280
PlayResY: 720

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,No Such Font,48,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,40,40,30,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,Hello there
Dialogue: 0,0:00:03.00,0:00:04.00,Default,,5000,0,0,,Hello there
`

// Identical lines that differ only in margins are measured separately.
func TestOffscreenSeesEventMargins(t *testing.T) {
	doc, err := ass.ParseString(marginScript)
	require.NoError(t, err)
	ctx, err := lint.NewContext(doc, lint.ContextOptions{Renderer: canvasrenderer.NewRenderer("")})
	require.NoError(t, err)

	runner := &lint.Runner{
		Registrations: []lint.Registration{lint.PerEvent(checks.NameOffscreen, checks.NewOffscreen)},
		Thorough:      true,
	}
	results, errs := lint.Collect(runner.Run(ctx))
	require.Empty(t, errs)
	require.Len(t, results, 1)
	assert.Equal(t, "text outside of the video frame", results[0].Message)
	assert.Equal(t, 2, results[0].Events[0].Number)
}
