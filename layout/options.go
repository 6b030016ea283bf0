package layout

import "github.com/ByLCY/asslint/ass"

// Renderer 是测量所需的渲染服务：绑定文档与目标分辨率，并在指定时间点输出渲染层。
// 绑定是共享状态，临时绑定合成文档的调用方必须在返回前恢复原绑定。
type Renderer interface {
	Bind(doc *ass.File, res Resolution) error
	Binding() (*ass.File, Resolution)
	RenderAt(ms int) ([]Layer, error)
}
