package renderer

import "github.com/ByLCY/cardcraft/layout"

// Renderer 将一张卡牌的绘制计划输出为最终文件，例如 PNG 或 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(card *layout.Card) ([]byte, error)
}
