package layout

// 渲染后端以毫米为长度单位、以 pt 为字号单位；脚本坐标是像素。
// 约定 1px 对应 1mm，这样字体测得的宽度（mm）可以直接当作像素使用。

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// PxToPt converts a script-pixel font size into the point size of a face
// whose measurements come back in pixels.
func PxToPt(px float64) float64 { return px * MmToPt }

// PtToPx is the inverse of PxToPt.
func PtToPx(pt float64) float64 { return pt * PtToMm }

// Scale maps script coordinates into frame coordinates.
type Scale struct {
	X float64
	Y float64
}

// NewScale returns the factors from a PlayResX×PlayResY script onto frame.
// Undeclared script sizes map 1:1.
func NewScale(playResX, playResY int, frame Resolution) Scale {
	s := Scale{X: 1, Y: 1}
	if playResX > 0 && frame.Width > 0 {
		s.X = float64(frame.Width) / float64(playResX)
	}
	if playResY > 0 && frame.Height > 0 {
		s.Y = float64(frame.Height) / float64(playResY)
	}
	return s
}
