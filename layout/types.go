package layout

import "fmt"

// 该文件定义测量结果与渲染层描述，供校准、测量、检查与调试 JSON 共用。

// Resolution 是渲染目标的像素尺寸。
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Known 表示宽高都已声明。
func (r Resolution) Known() bool { return r.Width > 0 && r.Height > 0 }

func (r Resolution) String() string { return fmt.Sprintf("%dx%d", r.Width, r.Height) }

// LayerType 标记渲染层的种类，只有字形层参与测量。
type LayerType int

const (
	LayerGlyph LayerType = iota
	LayerOutline
	LayerShadow
)

func (t LayerType) String() string {
	switch t {
	case LayerGlyph:
		return "glyph"
	case LayerOutline:
		return "outline"
	case LayerShadow:
		return "shadow"
	default:
		return fmt.Sprintf("layer(%d)", int(t))
	}
}

// Layer 是渲染器输出的一个位图层的几何信息。
// 水平方向的坐标以帧高度为单位归一化，测量时再乘以显示宽高比还原。
// 坐标保持浮点，取整会在还原宽高比时被放大。
type Layer struct {
	Type   LayerType `json:"type"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
}

// Box 是一次测量得到的包围盒（像素）。
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports an unmeasurable box. Callers skip such events.
func (b Box) Empty() bool { return b.Width == 0 && b.Height == 0 }

// CalibrationTable maps a style name to the average height of one rendered line.
type CalibrationTable map[string]float64
