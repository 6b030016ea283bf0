package renderer

import "github.com/ByLCY/asslint/layout"

// Renderer 在测量接口之外还能把某一时刻的画面输出为文件（PDF），便于人工核对。
// Snapshot 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	layout.Renderer
	Snapshot(ms int) ([]byte, error)
}
