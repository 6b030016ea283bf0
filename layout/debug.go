package layout

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/ByLCY/asslint/ass"
)

// DebugReport 汇总一次运行中所有文件的测量数据，便于调试或可视化。
type DebugReport struct {
	Files []FileLayout `json:"files"`
}

// FileLayout 记录单个字幕文件的分辨率、宽高比、校准表与逐条测量结果。
type FileLayout struct {
	Path        string           `json:"path"`
	Resolution  Resolution       `json:"resolution"`
	Aspect      AspectRatio      `json:"aspect"`
	Calibration CalibrationTable `json:"calibration"`
	Events      []EventLayout    `json:"events"`
}

// EventLayout 是一条对白的测量结果。
type EventLayout struct {
	Number int    `json:"number"`
	Style  string `json:"style"`
	Box    Box    `json:"box"`
	Lines  int    `json:"lines"`
	// Limit 为对应行数允许的最大宽度，行数超出表格时为 0。
	Limit float64 `json:"limit,omitempty"`
}

// Inspect calibrates doc and measures every non-comment event against the
// renderer's current binding.
func Inspect(r Renderer, path string, logger *slog.Logger) (*FileLayout, error) {
	doc, res := r.Binding()
	if doc == nil {
		return nil, ErrNotBound
	}
	table, err := Calibrate(r, doc, logger)
	if err != nil {
		return nil, err
	}
	out := &FileLayout{
		Path:        path,
		Resolution:  res,
		Aspect:      ClassifyAspectRatio(res.Width, res.Height),
		Calibration: table,
	}
	policy, _ := NewWidthPolicy(res)
	measurer := NewFrameMeasurer(r)
	for _, ev := range doc.Events {
		if ev.Comment {
			continue
		}
		box, err := measurer.Measure(ev)
		if err != nil {
			return nil, err
		}
		el := EventLayout{Number: ev.Number, Style: ev.Style, Box: box}
		if lh, ok := table[ev.Style]; ok {
			el.Lines = LineCount(box.Height, lh)
		}
		if policy != nil {
			el.Limit, _ = policy.OptimalWidth(el.Lines)
		}
		out.Events = append(out.Events, el)
	}
	return out, nil
}

// WriteDebugJSON 将测量报告输出为 JSON。
func WriteDebugJSON(report *DebugReport, path string) error {
	if report == nil {
		return nil
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// BindDocument binds doc at its declared PlayRes.
func BindDocument(r Renderer, doc *ass.File) error {
	w, h := doc.PlayRes()
	return r.Bind(doc, Resolution{Width: w, Height: h})
}
