package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/asslint/config"
)

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	require.NoError(t, err)

	WithRun(logger, "episode.ass").Warn("检查初始化失败，已跳过", "check", "long-lines", "error", errors.New("no renderer"))
	logger.Debug("hidden")

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "WARN  episode.ass: 检查初始化失败，已跳过")
	assert.Contains(t, out, "check=long-lines")
	assert.Contains(t, out, `error="no renderer"`)
	assert.NotContains(t, out, "run_id")
	assert.NotContains(t, out, ".go:")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Writer: &buf})
	require.NoError(t, err)

	WithRun(logger, "a.ass").Debug("检查完成", "check", "quotes", "results", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "debug", record["level"])
	assert.Equal(t, "检查完成", record["msg"])
	assert.Equal(t, "a.ass", record["file"])
	assert.NotEmpty(t, record["run_id"])
	assert.Contains(t, record, "ts")
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestNewFromConfigDebugOverride(t *testing.T) {
	cfg := config.Default()
	logger, err := NewFromConfig(&cfg, true, io.Discard)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))

	logger, err = NewFromConfig(nil, false, nil)
	require.NoError(t, err)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelDebug))
}
