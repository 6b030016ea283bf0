package fonts

import (
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
)

// FallbackFamily 是后备字体在渲染器中的族名。
const FallbackFamily = "Latin Modern Roman"

// Fallback 返回内置后备字体（Latin Modern Roman 10）对应字重/斜体的数据。
func Fallback(bold, italic bool) []byte {
	switch {
	case bold && italic:
		return lmroman10bolditalic.TTF
	case bold:
		return lmroman10bold.TTF
	case italic:
		return lmroman10italic.TTF
	default:
		return lmroman10regular.TTF
	}
}
