package layout

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ByLCY/asslint/ass"
)

const (
	calibrationLines   = 20
	calibrationSample  = "gjMW"
	calibrationWidth   = 100
	calibrationLineBox = 300
)

// calibrationText is the sample repeated calibrationLines times, one per line.
var calibrationText = strings.Repeat(calibrationSample+`\N`, calibrationLines-1) + calibrationSample

// Calibrate measures the average height of one rendered line for every style
// of doc. The renderer binding is restored before returning. Styles that
// render nothing are left out of the table.
func Calibrate(r Renderer, doc *ass.File, logger *slog.Logger) (table CalibrationTable, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	res := Resolution{Width: calibrationWidth, Height: calibrationLines * calibrationLineBox}

	synthetic := doc.Synthetic()
	synthetic.ScriptInfo.Set("WrapStyle", "2")
	synthetic.ScriptInfo.Set("PlayResX", strconv.Itoa(res.Width))
	synthetic.ScriptInfo.Set("PlayResY", strconv.Itoa(res.Height))

	prevDoc, prevRes := r.Binding()
	if err := r.Bind(synthetic, res); err != nil {
		return nil, fmt.Errorf("bind calibration document: %w", err)
	}
	defer func() {
		if rerr := r.Bind(prevDoc, prevRes); rerr != nil && err == nil {
			err = fmt.Errorf("restore binding: %w", rerr)
		}
	}()

	measurer := NewFrameMeasurer(r)
	table = CalibrationTable{}
	for _, style := range synthetic.Styles {
		box, err := measurer.Measure(ass.Event{Start: 0, End: 1000, Style: style.Name, Text: calibrationText})
		if err != nil {
			return nil, fmt.Errorf("calibrate style %q: %w", style.Name, err)
		}
		if box.Height <= 0 {
			logger.Debug("样式校准无结果", "style", style.Name)
			continue
		}
		table[style.Name] = box.Height / calibrationLines
		logger.Debug("样式校准完成", "style", style.Name, "line_height", table[style.Name])
	}
	return table, nil
}
